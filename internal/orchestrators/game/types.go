package game

import (
	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
	"github.com/KirkDiggler/treasure-realm/internal/repositories/scoreboard"
)

// Rules are the fixed combat and pickup parameters
type Rules struct {
	CollectRange float64 `yaml:"collect_range"`
	AttackRange  float64 `yaml:"attack_range"`
	EnemyDamage  int     `yaml:"enemy_damage"`
	PlayerDamage int     `yaml:"player_damage"`
	KillBonus    int     `yaml:"kill_bonus"`
}

// DefaultRules returns the stock rules
func DefaultRules() Rules {
	return Rules{
		CollectRange: 50,
		AttackRange:  60,
		EnemyDamage:  25,
		PlayerDamage: 20,
		KillBonus:    50,
	}
}

// Validate checks that every rule is usable
func (r Rules) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateNonNegative("collect_range", r.CollectRange, vb)
	errors.ValidateNonNegative("attack_range", r.AttackRange, vb)
	errors.ValidatePositive("enemy_damage", float64(r.EnemyDamage), vb)
	errors.ValidateNonNegative("player_damage", float64(r.PlayerDamage), vb)
	errors.ValidateNonNegative("kill_bonus", float64(r.KillBonus), vb)
	return vb.Build()
}

// JoinInput contains parameters for joining the world
type JoinInput struct {
	PlayerID string
	// Name is shown to other players in player_entered events
	Name string
	// Position defaults to the world spawn point
	Position *geometry.Point
}

// JoinOutput contains the first response for the new player
type JoinOutput struct {
	Response *protocol.Response
}

// LeaveInput contains parameters for leaving the world
type LeaveInput struct {
	PlayerID string
}

// LeaveOutput contains the player's final state
type LeaveOutput struct {
	Player *entities.Player
}

// MoveInput contains parameters for a move
type MoveInput struct {
	PlayerID string
	Position geometry.Point
}

// MoveOutput contains the moved player and their new view
type MoveOutput struct {
	Player  *entities.Player
	Visible *entities.VisibilitySnapshot
}

// CollectInput contains parameters for picking up a treasure
type CollectInput struct {
	PlayerID   string
	TreasureID string
}

// CollectOutput reports a pickup. On failure only Success, Reason and
// Message are set and nothing in the world changed.
type CollectOutput struct {
	Success bool
	Reason  errors.Code
	Message string

	Treasure *entities.Treasure
	NewScore *int
}

// AttackInput contains parameters for an attack
type AttackInput struct {
	PlayerID string
	TargetID string
	// TargetKind may be left empty to look the target up among enemies
	// first and then players
	TargetKind protocol.TargetKind
}

// AttackOutput reports an attack. On failure only Success, Reason and
// Message are set and nothing in the world changed.
type AttackOutput struct {
	Success bool
	Reason  errors.Code
	Message string

	// TargetKind is the table the target was found in
	TargetKind protocol.TargetKind

	// Enemy targets
	Killed   *bool
	NewScore *int
	EnemyHP  *int

	// Player targets
	TargetHP *int
}

// GetSnapshotInput contains parameters for reading a player's view
type GetSnapshotInput struct {
	PlayerID string
}

// GetSnapshotOutput contains the response without an action result
type GetSnapshotOutput struct {
	Response *protocol.Response
}

// HandleActionInput contains one inbound action for a player
type HandleActionInput struct {
	PlayerID string
	Action   *protocol.InboundAction
}

// HandleActionOutput contains the response for the action
type HandleActionOutput struct {
	Response *protocol.Response
}

// LeaderboardInput contains parameters for listing the best players
type LeaderboardInput struct {
	Limit int
}

// LeaderboardOutput contains the leaders, best first
type LeaderboardOutput struct {
	Entries []scoreboard.Entry
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
