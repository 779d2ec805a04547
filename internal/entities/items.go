package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/treasure-realm/internal/geometry"
)

// Entity types reported through core.Entity
const (
	EntityTypeTreasure = "treasure"
	EntityTypeEnemy    = "enemy"
)

// TreasureCategory is the kind of treasure
type TreasureCategory string

// Treasure categories
const (
	TreasureGold   TreasureCategory = "gold"
	TreasureSilver TreasureCategory = "silver"
)

// DefaultTreasureValues is the score awarded per category
var DefaultTreasureValues = map[TreasureCategory]int{
	TreasureGold:   100,
	TreasureSilver: 50,
}

// Treasure is a collectible item. Only Collected ever changes after placement,
// and only from false to true.
type Treasure struct {
	ID string `json:"id"`
	geometry.Point
	Category  TreasureCategory `json:"type"`
	Value     int              `json:"value"`
	Collected bool             `json:"collected"`
	Indoor    bool             `json:"isIndoor"`
	// BuildingID is set iff Indoor
	BuildingID string `json:"buildingId,omitempty"`
}

// GetID returns the treasure's ID
func (t *Treasure) GetID() string {
	return t.ID
}

// GetType returns the entity type for rpg-toolkit
func (t *Treasure) GetType() string {
	return EntityTypeTreasure
}

// EnemyKind is the kind of enemy
type EnemyKind string

// Enemy kinds
const (
	EnemySkeleton EnemyKind = "skeleton"
	EnemyGoblin   EnemyKind = "goblin"
)

// EnemyMaxHP is the starting health of every enemy
const EnemyMaxHP = 100

// Enemy is a hostile creature. HP only decreases and Alive flips to false
// exactly once.
type Enemy struct {
	ID string `json:"id"`
	geometry.Point
	Kind       EnemyKind `json:"type"`
	HP         int       `json:"hp"`
	Alive      bool      `json:"alive"`
	Indoor     bool      `json:"isIndoor"`
	BuildingID string    `json:"buildingId,omitempty"`
}

// GetID returns the enemy's ID
func (e *Enemy) GetID() string {
	return e.ID
}

// GetType returns the entity type for rpg-toolkit
func (e *Enemy) GetType() string {
	return EntityTypeEnemy
}

var (
	_ core.Entity = (*Treasure)(nil)
	_ core.Entity = (*Enemy)(nil)
)
