package world

import (
	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
)

// Tx is a View that may also mutate the tables. It is only valid inside a
// Write callback.
type Tx struct {
	*tables
}

// AddPlayer inserts a new player with full health and an empty inventory
func (tx *Tx) AddPlayer(playerID string, position geometry.Point, maxHP int) (*entities.Player, error) {
	if _, exists := tx.players[playerID]; exists {
		return nil, errors.AlreadyExistsf("player %s already joined", playerID)
	}

	p := &entities.Player{
		ID:        playerID,
		HP:        maxHP,
		MaxHP:     maxHP,
		Inventory: []entities.Treasure{},
	}
	tx.place(p, position)
	tx.players[playerID] = p
	return p, nil
}

// MovePlayer overwrites the player's position and refreshes its indoor state
func (tx *Tx) MovePlayer(playerID string, position geometry.Point) (*entities.Player, error) {
	p, ok := tx.players[playerID]
	if !ok {
		return nil, errors.NotFoundf("player %s not found", playerID)
	}
	tx.place(p, position)
	return p, nil
}

// RemovePlayer deletes the player from the table
func (tx *Tx) RemovePlayer(playerID string) (*entities.Player, error) {
	p, ok := tx.players[playerID]
	if !ok {
		return nil, errors.NotFoundf("player %s not found", playerID)
	}
	delete(tx.players, playerID)
	return p, nil
}

func (tx *Tx) place(p *entities.Player, position geometry.Point) {
	at, building := tx.locate(position)
	p.Point = at
	p.Indoor = building != nil
	p.BuildingID = ""
	if building != nil {
		p.BuildingID = building.ID
	}
}
