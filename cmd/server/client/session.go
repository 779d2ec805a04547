package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
)

var (
	playerName string
	spawnX     float64
	spawnY     float64
	limit      int
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Join the world",
	Long:  `Add a player to the world. --x and --y pick the spawn point; otherwise the world spawn is used.`,
	RunE:  runJoin,
}

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Leave the world",
	RunE:  runLeave,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show what the player can currently see",
	RunE:  runSnapshot,
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "List the highest scores",
	RunE:  runLeaderboard,
}

func init() {
	joinCmd.Flags().StringVar(&playerName, "name", "", "Display name")
	joinCmd.Flags().Float64Var(&spawnX, "x", 0, "Spawn x")
	joinCmd.Flags().Float64Var(&spawnY, "y", 0, "Spawn y")
	leaderboardCmd.Flags().IntVar(&limit, "limit", 10, "Number of entries")
}

func runJoin(cmd *cobra.Command, _ []string) error {
	if err := requirePlayer(); err != nil {
		return err
	}

	fields := map[string]any{
		"player_id": playerID,
		"name":      playerName,
	}
	if cmd.Flags().Changed("x") || cmd.Flags().Changed("y") {
		fields["x"] = spawnX
		fields["y"] = spawnY
	}

	return call(fields, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		client, cleanup, err := createWorldClient()
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return client.Join(ctx, req)
	})
}

func runLeave(_ *cobra.Command, _ []string) error {
	if err := requirePlayer(); err != nil {
		return err
	}

	return call(map[string]any{"player_id": playerID}, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		client, cleanup, err := createWorldClient()
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return client.Leave(ctx, req)
	})
}

func runSnapshot(_ *cobra.Command, _ []string) error {
	if err := requirePlayer(); err != nil {
		return err
	}

	return call(map[string]any{"player_id": playerID}, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		client, cleanup, err := createWorldClient()
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return client.GetSnapshot(ctx, req)
	})
}

func runLeaderboard(_ *cobra.Command, _ []string) error {
	return call(map[string]any{"limit": limit}, func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		client, cleanup, err := createWorldClient()
		if err != nil {
			return nil, err
		}
		defer cleanup()
		return client.Leaderboard(ctx, req)
	})
}

// call builds the request, runs it with the configured timeout and prints
// the response
func call(fields map[string]any, do func(context.Context, *structpb.Struct) (*structpb.Struct, error)) error {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := do(ctx, req)
	if err != nil {
		err = errors.FromGRPCError(err)
		return fmt.Errorf("request failed (%s): %w", errors.GetCode(err), err)
	}
	return printResponse(resp)
}
