// Package protocol defines the messages exchanged with clients: inbound
// actions and the per-action response carrying the player's state, the
// visibility snapshot, the action result and derived events.
package protocol

import (
	"encoding/json"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
)

// ActionKind names an inbound action
type ActionKind string

// Action kinds
const (
	ActionMove   ActionKind = "move"
	ActionAttack ActionKind = "attack"
	ActionPickup ActionKind = "pickup"
	ActionUse    ActionKind = "use"
	ActionChat   ActionKind = "chat"
)

// TargetKind selects the table an attack target is looked up in
type TargetKind string

// Target kinds. An empty kind means enemy first, then player.
const (
	TargetAny    TargetKind = ""
	TargetEnemy  TargetKind = "enemy"
	TargetPlayer TargetKind = "player"
)

// InboundAction is one client request
type InboundAction struct {
	Action  ActionKind      `json:"action"`
	Payload json.RawMessage `json:"payload"`
	Seq     int64           `json:"seq"`
}

// MovePayload is the payload of a move action
type MovePayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Point returns the requested position
func (p *MovePayload) Point() geometry.Point {
	return geometry.Point{X: p.X, Y: p.Y}
}

// AttackPayload is the payload of an attack action
type AttackPayload struct {
	TargetID   string     `json:"targetId"`
	TargetKind TargetKind `json:"targetKind,omitempty"`
}

// PickupPayload is the payload of a pickup action
type PickupPayload struct {
	ItemID string `json:"itemId"`
}

// UsePayload is the payload of a use action
type UsePayload struct {
	ItemID   string `json:"itemId"`
	TargetID string `json:"targetId,omitempty"`
}

// ChatPayload is the payload of a chat action
type ChatPayload struct {
	Message string `json:"message"`
}

// NewAction builds an action with an encoded payload
func NewAction(kind ActionKind, seq int64, payload any) (*InboundAction, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to encode payload")
	}
	return &InboundAction{Action: kind, Payload: raw, Seq: seq}, nil
}

// Move decodes a move payload
func (a *InboundAction) Move() (*MovePayload, error) {
	var p MovePayload
	return &p, a.decode(ActionMove, &p)
}

// Attack decodes an attack payload
func (a *InboundAction) Attack() (*AttackPayload, error) {
	var p AttackPayload
	return &p, a.decode(ActionAttack, &p)
}

// Pickup decodes a pickup payload
func (a *InboundAction) Pickup() (*PickupPayload, error) {
	var p PickupPayload
	return &p, a.decode(ActionPickup, &p)
}

// Use decodes a use payload
func (a *InboundAction) Use() (*UsePayload, error) {
	var p UsePayload
	return &p, a.decode(ActionUse, &p)
}

// Chat decodes a chat payload
func (a *InboundAction) Chat() (*ChatPayload, error) {
	var p ChatPayload
	return &p, a.decode(ActionChat, &p)
}

func (a *InboundAction) decode(kind ActionKind, into any) error {
	if a.Action != kind {
		return errors.InvalidArgumentf("action is %q, not %q", a.Action, kind)
	}
	if len(a.Payload) == 0 {
		return errors.InvalidArgumentf("%s payload is required", kind)
	}
	if err := json.Unmarshal(a.Payload, into); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid "+string(kind)+" payload")
	}
	return nil
}
