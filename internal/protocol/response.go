package protocol

import (
	"github.com/KirkDiggler/treasure-realm/internal/entities"
)

// Response is sent to a player after each action and on join
type Response struct {
	Seq int64 `json:"seq"`
	// Timestamp is in unix milliseconds
	Timestamp int64                        `json:"timestamp"`
	Player    entities.Player              `json:"player"`
	Visible   *entities.VisibilitySnapshot `json:"visible"`
	Result    *ActionResult                `json:"result,omitempty"`
	Events    []GameEvent                  `json:"events,omitempty"`
}

// ActionResult reports the outcome of one action
type ActionResult struct {
	Action  ActionKind `json:"action"`
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	// Code is the failure reason, empty on success
	Code string         `json:"code,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// EventType names a derived game event
type EventType string

// Event types
const (
	EventDamageTaken   EventType = "damage_taken"
	EventItemCollected EventType = "item_collected"
	EventEnemyDied     EventType = "enemy_died"
	EventPlayerEntered EventType = "player_entered"
	EventPlayerLeft    EventType = "player_left"
)

// GameEvent is a notification derived from world changes. Only the fields
// relevant to Type are set.
type GameEvent struct {
	Type EventType `json:"type"`

	// damage_taken
	FromID string `json:"fromId,omitempty"`
	Amount int    `json:"amount,omitempty"`

	// item_collected
	ItemID string `json:"itemId,omitempty"`
	Value  int    `json:"value,omitempty"`

	// enemy_died
	EnemyID string `json:"enemyId,omitempty"`

	// player_entered, player_left
	PlayerID string `json:"playerId,omitempty"`
	Name     string `json:"name,omitempty"`
}
