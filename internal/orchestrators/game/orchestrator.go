// Package game resolves player actions against the world and builds the
// response each player receives: their state, what they can see, the
// action result and the events derived from it.
package game

//go:generate mockgen -destination=mock/mock_service.go -package=gamemock github.com/KirkDiggler/treasure-realm/internal/orchestrators/game Service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/journal"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/clock"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
	"github.com/KirkDiggler/treasure-realm/internal/repositories/scoreboard"
	"github.com/KirkDiggler/treasure-realm/internal/visibility"
	"github.com/KirkDiggler/treasure-realm/internal/world"
)

// Service defines the interface for game operations
type Service interface {
	// Join adds a player and returns their first view of the world
	Join(ctx context.Context, input *JoinInput) (*JoinOutput, error)

	// Leave removes a player
	Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error)

	// Move overwrites the player's position and recomputes their view
	Move(ctx context.Context, input *MoveInput) (*MoveOutput, error)

	// Collect picks up a treasure within range
	Collect(ctx context.Context, input *CollectInput) (*CollectOutput, error)

	// Attack damages an enemy or another player within range
	Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error)

	// GetSnapshot returns the player's current view and pending events
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error)

	// HandleAction dispatches one inbound action and builds the response
	HandleAction(ctx context.Context, input *HandleActionInput) (*HandleActionOutput, error)

	// Leaderboard lists the highest scores
	Leaderboard(ctx context.Context, input *LeaderboardInput) (*LeaderboardOutput, error)
}

// Notifier is told when a player has events waiting that were caused by
// someone else's action. Transports that can push use it to send a fresh
// snapshot.
type Notifier interface {
	Notify(playerID string)
}

// Config holds the dependencies for the game orchestrator
type Config struct {
	WorldID    string
	State      *world.State
	Visibility *visibility.Engine
	Scoreboard scoreboard.Repository
	Journal    journal.Writer
	Clock      clock.Clock
	Logger     logrus.FieldLogger
	Rules      Rules
	// Notifier is optional
	Notifier Notifier
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("WorldID", c.WorldID, vb)
	if c.State == nil {
		vb.RequiredField("State")
	}
	if c.Visibility == nil {
		vb.RequiredField("Visibility")
	}
	if c.Scoreboard == nil {
		vb.RequiredField("Scoreboard")
	}
	if c.Journal == nil {
		vb.RequiredField("Journal")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Logger == nil {
		vb.RequiredField("Logger")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	return c.Rules.Validate()
}

// session is what the orchestrator remembers about a connected player
// between responses
type session struct {
	name    string
	lastSeq int64
	// visible holds the other players in view at the last response
	visible map[string]bool
	// pending holds events caused by other players' actions
	pending []protocol.GameEvent
}

type orchestrator struct {
	worldID    string
	state      *world.State
	visibility *visibility.Engine
	scoreboard scoreboard.Repository
	journal    journal.Writer
	clock      clock.Clock
	logger     logrus.FieldLogger
	rules      Rules
	notifier   Notifier

	mu       sync.Mutex
	sessions map[string]*session
}

// NewOrchestrator creates a new game orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		worldID:    cfg.WorldID,
		state:      cfg.State,
		visibility: cfg.Visibility,
		scoreboard: cfg.Scoreboard,
		journal:    cfg.Journal,
		clock:      cfg.Clock,
		logger:     cfg.Logger.WithField("world_id", cfg.WorldID),
		rules:      cfg.Rules,
		notifier:   cfg.Notifier,
		sessions:   make(map[string]*session),
	}, nil
}

// Join adds a player and returns their first view of the world
func (o *orchestrator) Join(ctx context.Context, input *JoinInput) (*JoinOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	player, err := o.state.Join(input.PlayerID, input.Position)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to join player %s", input.PlayerID)
	}

	name := input.Name
	if name == "" {
		name = input.PlayerID
	}

	o.mu.Lock()
	o.sessions[input.PlayerID] = &session{
		name:    name,
		visible: map[string]bool{},
	}
	o.mu.Unlock()

	o.logger.WithFields(logrus.Fields{
		"player_id": player.ID,
		"x":         player.X,
		"y":         player.Y,
		"indoor":    player.Indoor,
	}).Info("player joined")

	// The first view is the baseline for player_entered/player_left, so it
	// carries no visibility events of its own.
	resp, err := o.respond(input.PlayerID, 0, nil, nil, true)
	if err != nil {
		return nil, err
	}
	return &JoinOutput{Response: resp}, nil
}

// Leave removes a player
func (o *orchestrator) Leave(ctx context.Context, input *LeaveInput) (*LeaveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	player, err := o.state.Remove(input.PlayerID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to remove player %s", input.PlayerID)
	}

	o.mu.Lock()
	delete(o.sessions, input.PlayerID)
	o.mu.Unlock()

	if _, err := o.scoreboard.Remove(ctx, scoreboard.RemoveInput{PlayerID: input.PlayerID}); err != nil {
		o.logger.WithError(err).WithField("player_id", input.PlayerID).
			Warn("failed to remove player from scoreboard")
	}

	o.logger.WithFields(logrus.Fields{
		"player_id": player.ID,
		"score":     player.Score,
	}).Info("player left")

	return &LeaveOutput{Player: player}, nil
}

// Move overwrites the player's position and recomputes their view
func (o *orchestrator) Move(ctx context.Context, input *MoveInput) (*MoveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var (
		player  entities.Player
		visible *entities.VisibilitySnapshot
	)
	err := o.state.Write(func(tx *world.Tx) error {
		p, err := tx.MovePlayer(input.PlayerID, input.Position)
		if err != nil {
			return err
		}
		player = p.Clone()

		visible, err = o.visibility.Compute(tx, input.PlayerID)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to move player %s", input.PlayerID)
	}

	return &MoveOutput{Player: &player, Visible: visible}, nil
}

// Collect picks up a treasure within range. The checks and the mutation run
// under one write lock so a treasure is awarded at most once.
func (o *orchestrator) Collect(ctx context.Context, input *CollectInput) (*CollectOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &CollectOutput{}
	err := o.state.Write(func(tx *world.Tx) error {
		player, ok := tx.Player(input.PlayerID)
		if !ok {
			return errors.NotFoundf("player %s not found", input.PlayerID)
		}
		treasure, ok := tx.Treasure(input.TreasureID)
		if !ok {
			return errors.NotFoundf("treasure %s not found", input.TreasureID)
		}
		if treasure.Collected {
			return errors.AlreadyResolvedf("treasure %s was already collected", input.TreasureID)
		}
		if err := o.checkRange(player, treasure.Point, o.rules.CollectRange); err != nil {
			return err
		}

		treasure.Collected = true
		player.Score += treasure.Value
		player.Inventory = append(player.Inventory, *treasure)

		collected := *treasure
		out.Success = true
		out.Treasure = &collected
		out.NewScore = intPtr(player.Score)
		return nil
	})
	if err != nil {
		return o.collectFailure(input, err), nil
	}

	o.recordScore(ctx, input.PlayerID, *out.NewScore)
	return out, nil
}

func (o *orchestrator) collectFailure(input *CollectInput, err error) *CollectOutput {
	o.logger.WithFields(logrus.Fields{
		"player_id":   input.PlayerID,
		"treasure_id": input.TreasureID,
		"reason":      errors.GetCode(err),
	}).Debug("collect rejected")

	return &CollectOutput{
		Reason:  errors.GetCode(err),
		Message: errors.GetMessage(err),
	}
}

// Attack damages an enemy or another player within range
func (o *orchestrator) Attack(ctx context.Context, input *AttackInput) (*AttackOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	var out *AttackOutput
	err := o.state.Write(func(tx *world.Tx) error {
		attacker, ok := tx.Player(input.PlayerID)
		if !ok {
			return errors.NotFoundf("player %s not found", input.PlayerID)
		}

		kind, err := resolveTargetKind(tx, input.TargetID, input.TargetKind)
		if err != nil {
			return err
		}

		if kind == protocol.TargetEnemy {
			out, err = o.attackEnemy(tx, attacker, input.TargetID)
		} else {
			out, err = o.attackPlayer(tx, attacker, input.TargetID)
		}
		return err
	})
	if err != nil {
		o.logger.WithFields(logrus.Fields{
			"player_id": input.PlayerID,
			"target_id": input.TargetID,
			"reason":    errors.GetCode(err),
		}).Debug("attack rejected")

		return &AttackOutput{
			Reason:  errors.GetCode(err),
			Message: errors.GetMessage(err),
		}, nil
	}

	if out.NewScore != nil {
		o.recordScore(ctx, input.PlayerID, *out.NewScore)
	}
	if out.TargetKind == protocol.TargetPlayer {
		o.enqueue(input.TargetID, protocol.GameEvent{
			Type:   protocol.EventDamageTaken,
			FromID: input.PlayerID,
			Amount: o.rules.PlayerDamage,
		})
	}
	return out, nil
}

// resolveTargetKind checks that the target exists in the requested table, or
// finds it among enemies and then players when no kind was given
func resolveTargetKind(v world.View, targetID string, kind protocol.TargetKind) (protocol.TargetKind, error) {
	switch kind {
	case protocol.TargetEnemy:
		if _, ok := v.Enemy(targetID); ok {
			return kind, nil
		}
	case protocol.TargetPlayer:
		if _, ok := v.Player(targetID); ok {
			return kind, nil
		}
	case protocol.TargetAny:
		if _, ok := v.Enemy(targetID); ok {
			return protocol.TargetEnemy, nil
		}
		if _, ok := v.Player(targetID); ok {
			return protocol.TargetPlayer, nil
		}
	default:
		return "", errors.InvalidArgumentf("unknown target kind %q", kind)
	}
	return "", errors.NotFoundf("target %s not found", targetID)
}

func (o *orchestrator) attackEnemy(tx *world.Tx, attacker *entities.Player, enemyID string) (*AttackOutput, error) {
	enemy, _ := tx.Enemy(enemyID)
	if !enemy.Alive {
		return nil, errors.AlreadyResolvedf("enemy %s is already dead", enemyID)
	}
	if err := o.checkRange(attacker, enemy.Point, o.rules.AttackRange); err != nil {
		return nil, err
	}

	enemy.HP = max(enemy.HP-o.rules.EnemyDamage, 0)
	out := &AttackOutput{
		Success:    true,
		TargetKind: protocol.TargetEnemy,
	}

	if enemy.HP > 0 {
		out.Killed = boolPtr(false)
		out.EnemyHP = intPtr(enemy.HP)
		return out, nil
	}

	enemy.Alive = false
	attacker.Score += o.rules.KillBonus
	out.Killed = boolPtr(true)
	out.NewScore = intPtr(attacker.Score)
	return out, nil
}

// attackPlayer applies damage without a lower bound; there is no death or
// respawn for players
func (o *orchestrator) attackPlayer(tx *world.Tx, attacker *entities.Player, targetID string) (*AttackOutput, error) {
	// a player may target themselves; distance 0 is always in range
	target, _ := tx.Player(targetID)
	if err := o.checkRange(attacker, target.Point, o.rules.AttackRange); err != nil {
		return nil, err
	}

	target.HP -= o.rules.PlayerDamage
	return &AttackOutput{
		Success:    true,
		TargetKind: protocol.TargetPlayer,
		TargetHP:   intPtr(target.HP),
	}, nil
}

// GetSnapshot returns the player's current view and pending events
func (o *orchestrator) GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*GetSnapshotOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	resp, err := o.respond(input.PlayerID, o.lastSeq(input.PlayerID), nil, nil, false)
	if err != nil {
		return nil, err
	}
	return &GetSnapshotOutput{Response: resp}, nil
}

// Leaderboard lists the highest scores
func (o *orchestrator) Leaderboard(ctx context.Context, input *LeaderboardInput) (*LeaderboardOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	top, err := o.scoreboard.Top(ctx, scoreboard.TopInput{Limit: input.Limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read leaderboard")
	}
	return &LeaderboardOutput{Entries: top.Entries}, nil
}

// checkRange accepts targets exactly at the limit
func (o *orchestrator) checkRange(player *entities.Player, target geometry.Point, limit float64) error {
	if d := geometry.Distance(player.Point, target); d > limit {
		return errors.OutOfRangef("target is %.1f away, range is %.1f", d, limit)
	}
	return nil
}

// recordScore mirrors a new score into the scoreboard. The world stays
// authoritative, so failures are logged and never undo the action.
func (o *orchestrator) recordScore(ctx context.Context, playerID string, score int) {
	_, err := o.scoreboard.RecordScore(ctx, scoreboard.RecordScoreInput{
		PlayerID: playerID,
		Score:    score,
	})
	if err != nil {
		o.logger.WithError(err).WithFields(logrus.Fields{
			"player_id": playerID,
			"score":     score,
		}).Warn("failed to record score")
	}
}

// enqueue stores an event for a player's next response and notifies the
// transport
func (o *orchestrator) enqueue(playerID string, event protocol.GameEvent) {
	o.mu.Lock()
	s, ok := o.sessions[playerID]
	if ok {
		s.pending = append(s.pending, event)
	}
	o.mu.Unlock()

	if ok && o.notifier != nil {
		o.notifier.Notify(playerID)
	}
}

func (o *orchestrator) lastSeq(playerID string) int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.sessions[playerID]; ok {
		return s.lastSeq
	}
	return 0
}
