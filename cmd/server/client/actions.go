package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"
)

var (
	seq        int64
	moveX      float64
	moveY      float64
	itemID     string
	targetID   string
	targetKind string
	message    string
)

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move the player to a position",
	RunE: func(_ *cobra.Command, _ []string) error {
		return act("move", map[string]any{"x": moveX, "y": moveY})
	},
}

var pickupCmd = &cobra.Command{
	Use:   "pickup",
	Short: "Pick up a treasure in range",
	RunE: func(_ *cobra.Command, _ []string) error {
		return act("pickup", map[string]any{"itemId": itemID})
	},
}

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Attack an enemy or player in range",
	RunE: func(_ *cobra.Command, _ []string) error {
		payload := map[string]any{"targetId": targetID}
		if targetKind != "" {
			payload["targetKind"] = targetKind
		}
		return act("attack", payload)
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Send a chat message",
	RunE: func(_ *cobra.Command, _ []string) error {
		return act("chat", map[string]any{"message": message})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{moveCmd, pickupCmd, attackCmd, chatCmd} {
		cmd.Flags().Int64Var(&seq, "seq", 1, "Client sequence number echoed in the response")
	}

	moveCmd.Flags().Float64Var(&moveX, "x", 0, "Target x")
	moveCmd.Flags().Float64Var(&moveY, "y", 0, "Target y")

	pickupCmd.Flags().StringVar(&itemID, "item-id", "", "Treasure ID (required)")
	_ = pickupCmd.MarkFlagRequired("item-id") // nolint:errcheck // safe to ignore in init

	attackCmd.Flags().StringVar(&targetID, "target-id", "", "Enemy or player ID (required)")
	attackCmd.Flags().StringVar(&targetKind, "target-kind", "", "enemy or player; inferred when empty")
	_ = attackCmd.MarkFlagRequired("target-id") // nolint:errcheck // safe to ignore in init

	chatCmd.Flags().StringVar(&message, "message", "", "Message text")
}

func act(kind string, payload map[string]any) error {
	if err := requirePlayer(); err != nil {
		return err
	}

	fields := map[string]any{
		"player_id": playerID,
		"action": map[string]any{
			"action":  kind,
			"payload": payload,
			"seq":     seq,
		},
	}

	return call(fields, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		client, cleanup, err := createWorldClient()
		if err != nil {
			return nil, fmt.Errorf("failed to create client: %w", err)
		}
		defer cleanup()
		return client.Act(ctx, req)
	})
}
