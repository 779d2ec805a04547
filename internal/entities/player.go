package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/treasure-realm/internal/geometry"
)

// EntityTypePlayer is the core.Entity type of a player
const EntityTypePlayer = "player"

// Player is a connected participant
type Player struct {
	ID string `json:"id"`
	geometry.Point
	HP        int        `json:"hp"`
	MaxHP     int        `json:"maxHp"`
	Score     int        `json:"score"`
	Inventory []Treasure `json:"inventory"`

	// Indoor and BuildingID are derived from the position on every move
	Indoor     bool   `json:"isIndoor"`
	BuildingID string `json:"currentBuildingId,omitempty"`
}

// GetID returns the player's ID
func (p *Player) GetID() string {
	return p.ID
}

// GetType returns the entity type for rpg-toolkit
func (p *Player) GetType() string {
	return EntityTypePlayer
}

// Clone returns a copy that shares no slices with p
func (p *Player) Clone() Player {
	c := *p
	c.Inventory = make([]Treasure, len(p.Inventory))
	copy(c.Inventory, p.Inventory)
	return c
}

var _ core.Entity = (*Player)(nil)
