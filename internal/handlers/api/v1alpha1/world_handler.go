// Package v1alpha1 handles the WorldService grpc interface
package v1alpha1

import (
	"context"
	"encoding/json"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/orchestrators/game"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
)

// Request field names
const (
	fieldPlayerID = "player_id"
	fieldName     = "name"
	fieldX        = "x"
	fieldY        = "y"
	fieldAction   = "action"
	fieldLimit    = "limit"
)

// WorldHandlerConfig holds dependencies for the world handler
type WorldHandlerConfig struct {
	GameService game.Service
	Validator   *protocol.Validator
}

// Validate ensures all required dependencies are present
func (c *WorldHandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}
	if c.GameService == nil {
		return errors.InvalidArgument("game service is required")
	}
	if c.Validator == nil {
		return errors.InvalidArgument("validator is required")
	}
	return nil
}

// WorldHandler implements WorldServiceServer
type WorldHandler struct {
	gameService game.Service
	validator   *protocol.Validator
}

// NewWorldHandler creates a new world handler with the given configuration
func NewWorldHandler(cfg *WorldHandlerConfig) (*WorldHandler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &WorldHandler{
		gameService: cfg.GameService,
		validator:   cfg.Validator,
	}, nil
}

var _ WorldServiceServer = (*WorldHandler)(nil)

// Join adds a player. x and y are optional but must be given together.
func (h *WorldHandler) Join(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID, err := requiredString(req, fieldPlayerID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	input := &game.JoinInput{
		PlayerID: playerID,
		Name:     req.GetFields()[fieldName].GetStringValue(),
	}

	x, hasX := number(req, fieldX)
	y, hasY := number(req, fieldY)
	if hasX != hasY {
		return nil, errors.ToGRPCError(errors.InvalidArgument("x and y must be given together"))
	}
	if hasX {
		input.Position = &geometry.Point{X: x, Y: y}
	}

	output, err := h.gameService.Join(ctx, input)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(output.Response)
}

// Leave removes a player and returns their final state
func (h *WorldHandler) Leave(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID, err := requiredString(req, fieldPlayerID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.gameService.Leave(ctx, &game.LeaveInput{PlayerID: playerID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(map[string]any{"player": output.Player})
}

// Act resolves one action. The action field holds the same document a
// websocket client sends as a frame.
func (h *WorldHandler) Act(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID, err := requiredString(req, fieldPlayerID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	doc := req.GetFields()[fieldAction].GetStructValue()
	if doc == nil {
		return nil, errors.ToGRPCError(errors.InvalidArgument("action is required"))
	}
	raw, err := json.Marshal(doc.AsMap())
	if err != nil {
		return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed action"))
	}
	action, err := h.validator.Decode(raw)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.gameService.HandleAction(ctx, &game.HandleActionInput{
		PlayerID: playerID,
		Action:   action,
	})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(output.Response)
}

// GetSnapshot returns the player's current view and any pending events
func (h *WorldHandler) GetSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	playerID, err := requiredString(req, fieldPlayerID)
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	output, err := h.gameService.GetSnapshot(ctx, &game.GetSnapshotInput{PlayerID: playerID})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	return toStruct(output.Response)
}

// Leaderboard lists the highest scores
func (h *WorldHandler) Leaderboard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit, _ := number(req, fieldLimit)
	if limit < 0 {
		return nil, errors.ToGRPCError(errors.InvalidArgument("limit must not be negative"))
	}

	output, err := h.gameService.Leaderboard(ctx, &game.LeaderboardInput{Limit: int(limit)})
	if err != nil {
		return nil, errors.ToGRPCError(err)
	}

	entries := make([]any, 0, len(output.Entries))
	for _, e := range output.Entries {
		entries = append(entries, map[string]any{
			"playerId": e.PlayerID,
			"score":    e.Score,
			"rank":     e.Rank,
		})
	}

	return toStruct(map[string]any{"entries": entries})
}

func requiredString(req *structpb.Struct, field string) (string, error) {
	value := req.GetFields()[field].GetStringValue()
	if value == "" {
		return "", errors.InvalidArgumentf("%s is required", field)
	}
	return value, nil
}

func number(req *structpb.Struct, field string) (float64, bool) {
	v, ok := req.GetFields()[field]
	if !ok {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	return n.NumberValue, true
}

// toStruct converts v through its JSON form so the struct matches what the
// websocket transport sends
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response"))
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response"))
	}

	out, err := structpb.NewStruct(doc)
	if err != nil {
		return nil, errors.ToGRPCError(errors.WrapWithCode(err, errors.CodeInternal, "failed to encode response"))
	}
	return out, nil
}
