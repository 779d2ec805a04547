package entities

// VisibleBuilding is a building as seen by one player
type VisibleBuilding struct {
	Building
	PlayerInside bool `json:"playerInside"`
}

// VisibilitySnapshot is the part of the world one player can currently
// observe. It is recomputed on every request and never stored.
type VisibilitySnapshot struct {
	Treasures []Treasure        `json:"treasures"`
	Enemies   []Enemy           `json:"enemies"`
	Players   []Player          `json:"players"`
	Buildings []VisibleBuilding `json:"buildings"`
	Walls     []Wall            `json:"walls"`

	// PlayerInside is the id of the roofed building the requester occupies,
	// empty when outdoors
	PlayerInside string `json:"playerInside,omitempty"`
}

// NewVisibilitySnapshot returns a snapshot with empty, non-nil lists
func NewVisibilitySnapshot() *VisibilitySnapshot {
	return &VisibilitySnapshot{
		Treasures: []Treasure{},
		Enemies:   []Enemy{},
		Players:   []Player{},
		Buildings: []VisibleBuilding{},
		Walls:     []Wall{},
	}
}

// HasTreasure reports whether the snapshot lists the given treasure
func (s *VisibilitySnapshot) HasTreasure(id string) bool {
	for i := range s.Treasures {
		if s.Treasures[i].ID == id {
			return true
		}
	}
	return false
}

// HasEnemy reports whether the snapshot lists the given enemy
func (s *VisibilitySnapshot) HasEnemy(id string) bool {
	for i := range s.Enemies {
		if s.Enemies[i].ID == id {
			return true
		}
	}
	return false
}

// PlayerIDs returns the ids of the other players in view
func (s *VisibilitySnapshot) PlayerIDs() []string {
	ids := make([]string, len(s.Players))
	for i := range s.Players {
		ids[i] = s.Players[i].ID
	}
	return ids
}
