package scoreboard

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu     sync.RWMutex
	scores map[string]int
}

// NewInMemory creates a new in-memory scoreboard
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		scores: make(map[string]int),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// RecordScore sets the player's score and returns the new rank
func (r *InMemoryRepository) RecordScore(ctx context.Context, input RecordScoreInput) (*RecordScoreOutput, error) {
	if err := validatePlayerID(input.PlayerID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.scores[input.PlayerID] = input.Score

	for _, e := range r.ranked() {
		if e.PlayerID == input.PlayerID {
			return &RecordScoreOutput{Rank: e.Rank}, nil
		}
	}
	return &RecordScoreOutput{}, nil
}

// Top lists the highest scores
func (r *InMemoryRepository) Top(ctx context.Context, input TopInput) (*TopOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.ranked()
	if limit := limitOrDefault(input.Limit); len(entries) > limit {
		entries = entries[:limit]
	}
	return &TopOutput{Entries: entries}, nil
}

// Remove drops a player from the board
func (r *InMemoryRepository) Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error) {
	if err := validatePlayerID(input.PlayerID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.scores[input.PlayerID]
	delete(r.scores, input.PlayerID)
	return &RemoveOutput{Removed: ok}, nil
}

// ranked must be called with the lock held
func (r *InMemoryRepository) ranked() []Entry {
	entries := make([]Entry, 0, len(r.scores))
	for id, score := range r.scores {
		entries = append(entries, Entry{PlayerID: id, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID > entries[j].PlayerID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
