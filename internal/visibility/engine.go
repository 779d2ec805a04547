// Package visibility computes what one player can currently observe.
//
// Indoors a player sees only the contents of the roofed building they
// occupy. Outdoors an entity is visible when it is in range and no wall of
// a roofed building crosses the line to it. Nearby buildings are always
// listed so their outlines show before entry.
package visibility

import (
	"slices"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/world"
)

// Defaults for Config
const (
	DefaultViewRadius           = 250
	DefaultBuildingRevealMargin = 100
)

// Reader gives consistent read access to a world
type Reader interface {
	Read(fn func(world.View) error) error
}

// Config holds the engine dependencies and radii
type Config struct {
	State                Reader
	ViewRadius           float64
	BuildingRevealMargin float64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.State == nil {
		vb.RequiredField("State")
	}
	errors.ValidatePositive("ViewRadius", c.ViewRadius, vb)
	errors.ValidateNonNegative("BuildingRevealMargin", c.BuildingRevealMargin, vb)
	return vb.Build()
}

// Engine computes visibility snapshots
type Engine struct {
	state        Reader
	viewRadius   float64
	revealMargin float64
}

// New creates an engine
func New(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		state:        cfg.State,
		viewRadius:   cfg.ViewRadius,
		revealMargin: cfg.BuildingRevealMargin,
	}, nil
}

// ViewRadius returns the outdoor sight range
func (e *Engine) ViewRadius() float64 {
	return e.viewRadius
}

// ComputeVisible takes a read lock on the world and computes the snapshot
// for playerID
func (e *Engine) ComputeVisible(playerID string) (*entities.VisibilitySnapshot, error) {
	var snapshot *entities.VisibilitySnapshot
	err := e.state.Read(func(v world.View) error {
		var err error
		snapshot, err = e.Compute(v, playerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Compute builds the snapshot for playerID against an already locked view.
// Every entry is a copy; nothing in the snapshot aliases the world tables.
func (e *Engine) Compute(v world.View, playerID string) (*entities.VisibilitySnapshot, error) {
	player, ok := v.Player(playerID)
	if !ok {
		return nil, errors.NotFoundf("player %s not found", playerID)
	}

	if building, inside := v.RoofedBuildingAt(player.Point); inside {
		return e.indoor(v, player, building), nil
	}
	return e.outdoor(v, player), nil
}

// indoor shows the occupied building's contents and nothing else
func (e *Engine) indoor(v world.View, player *entities.Player, building *entities.Building) *entities.VisibilitySnapshot {
	snapshot := entities.NewVisibilitySnapshot()
	snapshot.PlayerInside = building.ID

	for _, t := range v.Treasures() {
		if t.Indoor && t.BuildingID == building.ID && !t.Collected {
			snapshot.Treasures = append(snapshot.Treasures, *t)
		}
	}

	for _, en := range v.Enemies() {
		if en.Indoor && en.BuildingID == building.ID && en.Alive {
			snapshot.Enemies = append(snapshot.Enemies, *en)
		}
	}

	for _, other := range v.Players() {
		if other.ID != player.ID && building.Contains(other.Point) {
			snapshot.Players = append(snapshot.Players, other.Clone())
		}
	}

	snapshot.Buildings = append(snapshot.Buildings, entities.VisibleBuilding{
		Building:     copyBuilding(building),
		PlayerInside: true,
	})
	snapshot.Walls = append(snapshot.Walls, building.Walls...)

	return snapshot
}

// outdoor applies range and line of sight against roofed walls
func (e *Engine) outdoor(v world.View, player *entities.Player) *entities.VisibilitySnapshot {
	snapshot := entities.NewVisibilitySnapshot()
	occluders := roofedWalls(v.Buildings())

	canSee := func(p geometry.Point) bool {
		return geometry.Distance(player.Point, p) <= e.viewRadius &&
			HasLineOfSight(player.Point, p, occluders)
	}

	for _, t := range v.Treasures() {
		if !t.Collected && !t.Indoor && canSee(t.Point) {
			snapshot.Treasures = append(snapshot.Treasures, *t)
		}
	}

	for _, en := range v.Enemies() {
		if en.Alive && !en.Indoor && canSee(en.Point) {
			snapshot.Enemies = append(snapshot.Enemies, *en)
		}
	}

	for _, other := range v.Players() {
		if other.ID == player.ID {
			continue
		}
		if _, hidden := v.RoofedBuildingAt(other.Point); hidden {
			continue
		}
		if canSee(other.Point) {
			snapshot.Players = append(snapshot.Players, other.Clone())
		}
	}

	revealRadius := e.viewRadius + e.revealMargin
	for _, b := range v.Buildings() {
		if geometry.Distance(player.Point, b.Point) > revealRadius {
			continue
		}
		snapshot.Buildings = append(snapshot.Buildings, entities.VisibleBuilding{
			Building: copyBuilding(b),
		})
		snapshot.Walls = append(snapshot.Walls, b.Walls...)
	}

	return snapshot
}

// HasLineOfSight reports whether no occluding wall crosses the segment
// from-to. Each wall is tested against its four edges.
func HasLineOfSight(from, to geometry.Point, occluders []entities.Wall) bool {
	for _, w := range occluders {
		if geometry.SegmentIntersectsRect(from, to, w.Rect) {
			return false
		}
	}
	return true
}

func roofedWalls(buildings []*entities.Building) []entities.Wall {
	var walls []entities.Wall
	for _, b := range buildings {
		if b.HasRoof {
			walls = append(walls, b.Walls...)
		}
	}
	return walls
}

func copyBuilding(b *entities.Building) entities.Building {
	c := *b
	c.Walls = slices.Clone(b.Walls)
	if b.Door != nil {
		door := *b.Door
		c.Door = &door
	}
	return c
}
