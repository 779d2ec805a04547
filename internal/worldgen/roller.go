package worldgen

import (
	"math/rand"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
)

// SeededRoller is a dice.Roller driven by a seeded source, so a world seed
// reproduces every chance roll
type SeededRoller struct {
	rng *rand.Rand
}

// NewSeededRoller creates a roller over rng
func NewSeededRoller(rng *rand.Rand) *SeededRoller {
	return &SeededRoller{rng: rng}
}

// Roll returns a value in [1, size]
func (r *SeededRoller) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, errors.InvalidArgumentf("die size must be positive: %d", size)
	}
	return r.rng.Intn(size) + 1, nil
}

// RollN rolls count dice of the given size
func (r *SeededRoller) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, errors.InvalidArgumentf("dice count must not be negative: %d", count)
	}
	results := make([]int, count)
	for i := range results {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

var _ dice.Roller = (*SeededRoller)(nil)
