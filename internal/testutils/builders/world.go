// Package builders provides fluent builders for test worlds
package builders

import (
	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/world"
)

// TestWallThickness is the wall thickness of builder buildings
const TestWallThickness = 10

// WorldBuilder provides a fluent interface for laying out small test worlds
type WorldBuilder struct {
	cfg *world.Config
}

// NewWorldBuilder creates an empty 3000x3000 world
func NewWorldBuilder() *WorldBuilder {
	return &WorldBuilder{
		cfg: &world.Config{
			Width:  world.DefaultWidth,
			Height: world.DefaultHeight,
		},
	}
}

// WithSize sets the map size
func (b *WorldBuilder) WithSize(width, height float64) *WorldBuilder {
	b.cfg.Width = width
	b.cfg.Height = height
	return b
}

// WithSpawn overrides the default spawn point
func (b *WorldBuilder) WithSpawn(x, y float64) *WorldBuilder {
	b.cfg.Spawn = &geometry.Point{X: x, Y: y}
	return b
}

// WithHouse adds a roofed building enclosed by four solid walls
func (b *WorldBuilder) WithHouse(id string, x, y, width, height float64) *WorldBuilder {
	return b.withBuilding(id, entities.BuildingHouse, x, y, width, height, true)
}

// WithRuins adds a roofless building enclosed by four solid walls
func (b *WorldBuilder) WithRuins(id string, x, y, width, height float64) *WorldBuilder {
	return b.withBuilding(id, entities.BuildingRuins, x, y, width, height, false)
}

func (b *WorldBuilder) withBuilding(id string, kind entities.BuildingType, x, y, width, height float64, roofed bool) *WorldBuilder {
	building := &entities.Building{
		ID:       id,
		Point:    geometry.Point{X: x, Y: y},
		Width:    width,
		Height:   height,
		Type:     kind,
		DoorSide: entities.SideNone,
		HasRoof:  roofed,
	}

	fp := building.Footprint()
	t := float64(TestWallThickness)
	for _, r := range []geometry.Rect{
		{X: fp.Left(), Y: fp.Top(), Width: fp.Width, Height: t},
		{X: fp.Right() - t, Y: fp.Top(), Width: t, Height: fp.Height},
		{X: fp.Left(), Y: fp.Bottom() - t, Width: fp.Width, Height: t},
		{X: fp.Left(), Y: fp.Top(), Width: t, Height: fp.Height},
	} {
		building.Walls = append(building.Walls, entities.Wall{Rect: r, BuildingID: id})
	}

	b.cfg.Buildings = append(b.cfg.Buildings, building)
	return b
}

// WithTreasure adds an outdoor treasure worth the default value of its category
func (b *WorldBuilder) WithTreasure(id string, x, y float64, category entities.TreasureCategory) *WorldBuilder {
	b.cfg.Treasures = append(b.cfg.Treasures, &entities.Treasure{
		ID:       id,
		Point:    geometry.Point{X: x, Y: y},
		Category: category,
		Value:    entities.DefaultTreasureValues[category],
	})
	return b
}

// WithIndoorTreasure adds a treasure owned by buildingID
func (b *WorldBuilder) WithIndoorTreasure(id, buildingID string, x, y float64, category entities.TreasureCategory) *WorldBuilder {
	b.WithTreasure(id, x, y, category)
	t := b.cfg.Treasures[len(b.cfg.Treasures)-1]
	t.Indoor = true
	t.BuildingID = buildingID
	return b
}

// WithEnemy adds a live outdoor enemy at full health
func (b *WorldBuilder) WithEnemy(id string, x, y float64) *WorldBuilder {
	b.cfg.Enemies = append(b.cfg.Enemies, &entities.Enemy{
		ID:    id,
		Point: geometry.Point{X: x, Y: y},
		Kind:  entities.EnemySkeleton,
		HP:    entities.EnemyMaxHP,
		Alive: true,
	})
	return b
}

// WithIndoorEnemy adds a live enemy owned by buildingID
func (b *WorldBuilder) WithIndoorEnemy(id, buildingID string, x, y float64) *WorldBuilder {
	b.WithEnemy(id, x, y)
	e := b.cfg.Enemies[len(b.cfg.Enemies)-1]
	e.Indoor = true
	e.BuildingID = buildingID
	return b
}

// Config returns the accumulated world config
func (b *WorldBuilder) Config() *world.Config {
	return b.cfg
}

// Build creates the world state, panicking on an invalid layout
func (b *WorldBuilder) Build() *world.State {
	state, err := world.New(b.cfg)
	if err != nil {
		panic(err)
	}
	return state
}
