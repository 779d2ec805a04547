// Package scoreboard provides the leaderboard repository. The world state is
// authoritative for scores; the scoreboard is a ranked projection of it.
package scoreboard

import (
	"context"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=scoreboardmock github.com/KirkDiggler/treasure-realm/internal/repositories/scoreboard Repository

// DefaultTopLimit is used when TopInput.Limit is not set
const DefaultTopLimit = 10

// Entry is one ranked player
type Entry struct {
	PlayerID string
	Score    int
	// Rank starts at 1 for the highest score
	Rank int
}

// RecordScoreInput contains parameters for recording a score
type RecordScoreInput struct {
	PlayerID string
	Score    int
}

// RecordScoreOutput contains the player's rank after the update
type RecordScoreOutput struct {
	Rank int
}

// TopInput contains parameters for listing the leaders
type TopInput struct {
	Limit int
}

// TopOutput contains the leaders, best first
type TopOutput struct {
	Entries []Entry
}

// RemoveInput contains parameters for removing a player
type RemoveInput struct {
	PlayerID string
}

// RemoveOutput reports whether the player was on the board
type RemoveOutput struct {
	Removed bool
}

// Repository defines the interface for leaderboard storage. Ties are ordered
// by player id, descending, the way redis orders equal scores.
type Repository interface {
	// RecordScore sets the player's score, replacing any previous value
	RecordScore(ctx context.Context, input RecordScoreInput) (*RecordScoreOutput, error)

	// Top lists the highest scores
	Top(ctx context.Context, input TopInput) (*TopOutput, error)

	// Remove drops a player from the board
	Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error)
}

func validatePlayerID(playerID string) error {
	if playerID == "" {
		return errors.InvalidArgument("player ID cannot be empty")
	}
	return nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	return limit
}
