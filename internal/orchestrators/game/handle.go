package game

import (
	"context"
	"maps"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/journal"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
	"github.com/KirkDiggler/treasure-realm/internal/world"
)

const unsupportedMessage = "unsupported action"

// HandleAction dispatches one inbound action and builds the response.
// Rejected actions still produce a response; only an unknown requesting
// player or a missing action is an error.
func (o *orchestrator) HandleAction(ctx context.Context, input *HandleActionInput) (*HandleActionOutput, error) {
	if input == nil || input.Action == nil {
		return nil, errors.InvalidArgument("action is required")
	}
	action := input.Action

	var (
		result *protocol.ActionResult
		events []protocol.GameEvent
	)
	switch action.Action {
	case protocol.ActionMove:
		result = o.handleMove(ctx, input.PlayerID, action)
	case protocol.ActionPickup:
		result, events = o.handlePickup(ctx, input.PlayerID, action)
	case protocol.ActionAttack:
		result, events = o.handleAttack(ctx, input.PlayerID, action)
	case protocol.ActionUse, protocol.ActionChat:
		result = &protocol.ActionResult{
			Action:  action.Action,
			Message: unsupportedMessage,
			Code:    string(errors.CodeUnimplemented),
		}
	default:
		result = failedResult(action.Action, errors.InvalidArgumentf("unknown action %q", action.Action))
	}

	resp, err := o.respond(input.PlayerID, action.Seq, result, events, false)
	if err != nil {
		return nil, err
	}

	o.logger.WithFields(logrus.Fields{
		"player_id": input.PlayerID,
		"action":    action.Action,
		"seq":       action.Seq,
		"success":   result.Success,
		"code":      result.Code,
	}).Debug("action handled")

	o.appendJournal(input.PlayerID, action, resp)
	return &HandleActionOutput{Response: resp}, nil
}

func (o *orchestrator) handleMove(ctx context.Context, playerID string, action *protocol.InboundAction) *protocol.ActionResult {
	payload, err := action.Move()
	if err != nil {
		return failedResult(action.Action, err)
	}

	if _, err := o.Move(ctx, &MoveInput{PlayerID: playerID, Position: payload.Point()}); err != nil {
		return failedResult(action.Action, err)
	}
	return &protocol.ActionResult{Action: action.Action, Success: true}
}

func (o *orchestrator) handlePickup(ctx context.Context, playerID string, action *protocol.InboundAction) (*protocol.ActionResult, []protocol.GameEvent) {
	payload, err := action.Pickup()
	if err != nil {
		return failedResult(action.Action, err), nil
	}

	out, err := o.Collect(ctx, &CollectInput{PlayerID: playerID, TreasureID: payload.ItemID})
	if err != nil {
		return failedResult(action.Action, err), nil
	}
	if !out.Success {
		return rejectedResult(action.Action, out.Reason, out.Message), nil
	}

	result := &protocol.ActionResult{
		Action:  action.Action,
		Success: true,
		Data: map[string]any{
			"itemId":   out.Treasure.ID,
			"value":    out.Treasure.Value,
			"newScore": *out.NewScore,
		},
	}
	events := []protocol.GameEvent{{
		Type:   protocol.EventItemCollected,
		ItemID: out.Treasure.ID,
		Value:  out.Treasure.Value,
	}}
	return result, events
}

func (o *orchestrator) handleAttack(ctx context.Context, playerID string, action *protocol.InboundAction) (*protocol.ActionResult, []protocol.GameEvent) {
	payload, err := action.Attack()
	if err != nil {
		return failedResult(action.Action, err), nil
	}

	out, err := o.Attack(ctx, &AttackInput{
		PlayerID:   playerID,
		TargetID:   payload.TargetID,
		TargetKind: payload.TargetKind,
	})
	if err != nil {
		return failedResult(action.Action, err), nil
	}
	if !out.Success {
		return rejectedResult(action.Action, out.Reason, out.Message), nil
	}

	result := &protocol.ActionResult{
		Action:  action.Action,
		Success: true,
		Data:    map[string]any{"targetKind": string(out.TargetKind)},
	}

	var events []protocol.GameEvent
	switch {
	case out.TargetHP != nil:
		result.Data["targetHp"] = *out.TargetHP
	case *out.Killed:
		result.Data["killed"] = true
		result.Data["newScore"] = *out.NewScore
		events = append(events, protocol.GameEvent{
			Type:    protocol.EventEnemyDied,
			EnemyID: payload.TargetID,
		})
	default:
		result.Data["killed"] = false
		result.Data["enemyHp"] = *out.EnemyHP
	}
	return result, events
}

func failedResult(kind protocol.ActionKind, err error) *protocol.ActionResult {
	return rejectedResult(kind, errors.GetCode(err), errors.GetMessage(err))
}

func rejectedResult(kind protocol.ActionKind, code errors.Code, message string) *protocol.ActionResult {
	return &protocol.ActionResult{
		Action:  kind,
		Message: message,
		Code:    string(code),
	}
}

// respond builds the response for playerID from a fresh snapshot. Events
// are ordered: those caused by other players first, then the action's own,
// then players entering or leaving view. A baseline response only records
// the visible set.
func (o *orchestrator) respond(playerID string, seq int64, result *protocol.ActionResult, events []protocol.GameEvent, baseline bool) (*protocol.Response, error) {
	var (
		player  entities.Player
		visible *entities.VisibilitySnapshot
	)
	err := o.state.Read(func(v world.View) error {
		p, ok := v.Player(playerID)
		if !ok {
			return errors.NotFoundf("player %s not found", playerID)
		}
		player = p.Clone()

		var err error
		visible, err = o.visibility.Compute(v, playerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	current := make(map[string]bool, len(visible.Players))
	for _, id := range visible.PlayerIDs() {
		current[id] = true
	}

	var all []protocol.GameEvent
	o.mu.Lock()
	if s, ok := o.sessions[playerID]; ok {
		all = append(all, s.pending...)
		all = append(all, events...)
		if !baseline {
			all = append(all, o.visibilityEventsLocked(s.visible, current)...)
		}
		s.pending = nil
		s.visible = current
		s.lastSeq = max(s.lastSeq, seq)
	} else {
		all = events
	}
	o.mu.Unlock()

	return &protocol.Response{
		Seq:       seq,
		Timestamp: o.clock.Now().UnixMilli(),
		Player:    player,
		Visible:   visible,
		Result:    result,
		Events:    all,
	}, nil
}

// visibilityEventsLocked diffs two visible player sets. o.mu must be held.
func (o *orchestrator) visibilityEventsLocked(previous, current map[string]bool) []protocol.GameEvent {
	var events []protocol.GameEvent
	for _, id := range slices.Sorted(maps.Keys(current)) {
		if previous[id] {
			continue
		}
		event := protocol.GameEvent{Type: protocol.EventPlayerEntered, PlayerID: id, Name: id}
		if other, ok := o.sessions[id]; ok {
			event.Name = other.name
		}
		events = append(events, event)
	}
	for _, id := range slices.Sorted(maps.Keys(previous)) {
		if !current[id] {
			events = append(events, protocol.GameEvent{Type: protocol.EventPlayerLeft, PlayerID: id})
		}
	}
	return events
}

// appendJournal records the action. The journal is an audit trail, so a
// write failure is logged and the action stands.
func (o *orchestrator) appendJournal(playerID string, action *protocol.InboundAction, resp *protocol.Response) {
	entry := journal.Entry{
		Time:     o.clock.Now(),
		WorldID:  o.worldID,
		PlayerID: playerID,
		Action:   action.Action,
		Seq:      action.Seq,
		Success:  resp.Result.Success,
		Code:     resp.Result.Code,
		Events:   resp.Events,
	}
	if err := o.journal.Append(entry); err != nil {
		o.logger.WithError(err).WithFields(logrus.Fields{
			"player_id": playerID,
			"seq":       action.Seq,
		}).Warn("failed to journal action")
	}
}
