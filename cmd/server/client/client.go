// Package client provides test commands for the WorldService gRPC API
package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	v1alpha1 "github.com/KirkDiggler/treasure-realm/internal/handlers/api/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration

	// Shared request flags
	playerID string
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the world server",
	Long:  `Client commands let you play against a running server by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&playerID, "player-id", "", "Player ID")

	ClientCmd.AddCommand(joinCmd)
	ClientCmd.AddCommand(leaveCmd)
	ClientCmd.AddCommand(snapshotCmd)
	ClientCmd.AddCommand(leaderboardCmd)

	// Action commands
	ClientCmd.AddCommand(moveCmd)
	ClientCmd.AddCommand(pickupCmd)
	ClientCmd.AddCommand(attackCmd)
	ClientCmd.AddCommand(chatCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// createWorldClient creates a world service client
func createWorldClient() (v1alpha1.WorldServiceClient, func(), error) {
	conn, err := createConnection()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	client := v1alpha1.NewWorldServiceClient(conn)
	return client, cleanup, nil
}

func requirePlayer() error {
	if playerID == "" {
		return fmt.Errorf("--player-id is required")
	}
	return nil
}

func printResponse(resp *structpb.Struct) error {
	out, err := json.MarshalIndent(resp.AsMap(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
