package worldgen

import (
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/idgen"
)

// Result is a generated world layout
type Result struct {
	Buildings []*entities.Building

	// Interior entities belong to a roofed building
	InteriorTreasures []*entities.Treasure
	InteriorEnemies   []*entities.Enemy

	OutdoorTreasures []*entities.Treasure
	OutdoorEnemies   []*entities.Enemy
}

// Treasures returns interior and outdoor treasures together
func (r *Result) Treasures() []*entities.Treasure {
	all := make([]*entities.Treasure, 0, len(r.InteriorTreasures)+len(r.OutdoorTreasures))
	all = append(all, r.InteriorTreasures...)
	return append(all, r.OutdoorTreasures...)
}

// Enemies returns interior and outdoor enemies together
func (r *Result) Enemies() []*entities.Enemy {
	all := make([]*entities.Enemy, 0, len(r.InteriorEnemies)+len(r.OutdoorEnemies))
	all = append(all, r.InteriorEnemies...)
	return append(all, r.OutdoorEnemies...)
}

type generator struct {
	cfg        *Config
	settings   Settings
	buildingID idgen.Generator
	treasureID idgen.Generator
	enemyID    idgen.Generator
}

// Generate builds a new world layout
func Generate(cfg *Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid worldgen config")
	}

	g := &generator{
		cfg:        cfg,
		settings:   cfg.Settings,
		buildingID: idgen.NewSequential("building"),
		treasureID: idgen.NewSequential("treasure"),
		enemyID:    idgen.NewSequential("enemy"),
	}

	result := &Result{}

	candidates := g.candidates()
	count := len(g.settings.Templates)
	if len(candidates) < count {
		g.cfg.Logger.WithFields(logrus.Fields{
			"templates":  count,
			"candidates": len(candidates),
		}).Warn("not enough grid cells for every building template")
		count = len(candidates)
	}

	for i := 0; i < count; i++ {
		building := g.building(g.settings.Templates[i], candidates[i])
		result.Buildings = append(result.Buildings, building)

		if !building.HasRoof {
			continue
		}
		treasures, enemies, err := g.interior(building)
		if err != nil {
			return nil, err
		}
		result.InteriorTreasures = append(result.InteriorTreasures, treasures...)
		result.InteriorEnemies = append(result.InteriorEnemies, enemies...)
	}

	for i := 0; i < g.settings.OutdoorTreasures; i++ {
		t, err := g.treasure(g.outdoorPoint(result.Buildings, "treasure"), nil)
		if err != nil {
			return nil, err
		}
		result.OutdoorTreasures = append(result.OutdoorTreasures, t)
	}

	for i := 0; i < g.settings.OutdoorEnemies; i++ {
		e, err := g.enemy(g.outdoorPoint(result.Buildings, "enemy"), nil)
		if err != nil {
			return nil, err
		}
		result.OutdoorEnemies = append(result.OutdoorEnemies, e)
	}

	g.cfg.Logger.WithFields(logrus.Fields{
		"buildings":          len(result.Buildings),
		"interior_treasures": len(result.InteriorTreasures),
		"interior_enemies":   len(result.InteriorEnemies),
		"outdoor_treasures":  len(result.OutdoorTreasures),
		"outdoor_enemies":    len(result.OutdoorEnemies),
	}).Info("world generated")

	return result, nil
}

// candidates returns jittered centers of the interior grid cells in random
// order. The outer ring of cells is skipped so no building touches the edge.
func (g *generator) candidates() []geometry.Point {
	s := g.settings
	cols := int(s.Width / s.CellSize)
	rows := int(s.Height / s.CellSize)

	var points []geometry.Point
	for col := 1; col < cols-1; col++ {
		for row := 1; row < rows-1; row++ {
			points = append(points, geometry.Point{
				X: (float64(col)+0.5)*s.CellSize + g.spread(s.Jitter),
				Y: (float64(row)+0.5)*s.CellSize + g.spread(s.Jitter),
			})
		}
	}

	g.cfg.Rand.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})
	return points
}

// spread returns a uniform value in [-limit, limit]
func (g *generator) spread(limit float64) float64 {
	return (g.cfg.Rand.Float64()*2 - 1) * limit
}

// pointIn returns a uniform point inside r
func (g *generator) pointIn(r geometry.Rect) geometry.Point {
	return geometry.Point{
		X: r.X + g.cfg.Rand.Float64()*r.Width,
		Y: r.Y + g.cfg.Rand.Float64()*r.Height,
	}
}

func (g *generator) building(t Template, center geometry.Point) *entities.Building {
	b := &entities.Building{
		ID:           g.buildingID.Generate(),
		Point:        center,
		Width:        t.Width,
		Height:       t.Height,
		Type:         t.Type,
		DoorSide:     t.DoorSide,
		HasRoof:      t.HasRoof,
		HasPartition: t.HasPartition,
	}

	if t.Type == entities.BuildingRuins {
		b.HasRoof = false
		b.HasPartition = false
		b.DoorSide = entities.SideNone
		b.Walls = ruinWalls(b.Footprint(), g.settings.WallThickness)
	} else {
		b.Walls, b.Door = outerWalls(b.Footprint(), b.DoorSide, g.settings.WallThickness, g.settings.DoorWidth)
		if b.HasPartition {
			b.Walls = append(b.Walls, g.partition(b.Footprint())...)
		}
	}

	for i := range b.Walls {
		b.Walls[i].BuildingID = b.ID
	}
	return b
}

// partition splits the longer axis of fp with a wall that has its own
// door-width gap
func (g *generator) partition(fp geometry.Rect) []entities.Wall {
	s := g.settings
	t := s.WallThickness
	gap := s.DoorWidth / 2

	if fp.Width >= fp.Height {
		x := fp.Center().X + g.spread(s.PartitionJitter*fp.Width)
		mid := fp.Center().Y
		return nonEmpty(
			geometry.Rect{X: x - t/2, Y: fp.Top() + t, Width: t, Height: (mid - gap) - (fp.Top() + t)},
			geometry.Rect{X: x - t/2, Y: mid + gap, Width: t, Height: (fp.Bottom() - t) - (mid + gap)},
		)
	}

	y := fp.Center().Y + g.spread(s.PartitionJitter*fp.Height)
	mid := fp.Center().X
	return nonEmpty(
		geometry.Rect{X: fp.Left() + t, Y: y - t/2, Width: (mid - gap) - (fp.Left() + t), Height: t},
		geometry.Rect{X: mid + gap, Y: y - t/2, Width: (fp.Right() - t) - (mid + gap), Height: t},
	)
}

// outerWalls returns the four edge walls of fp. The wall on doorSide is
// split around a gap of doorWidth centered on the side's midpoint.
func outerWalls(fp geometry.Rect, doorSide entities.Side, t, doorWidth float64) ([]entities.Wall, *entities.Door) {
	top := geometry.Rect{X: fp.Left(), Y: fp.Top(), Width: fp.Width, Height: t}
	bottom := geometry.Rect{X: fp.Left(), Y: fp.Bottom() - t, Width: fp.Width, Height: t}
	left := geometry.Rect{X: fp.Left(), Y: fp.Top(), Width: t, Height: fp.Height}
	right := geometry.Rect{X: fp.Right() - t, Y: fp.Top(), Width: t, Height: fp.Height}

	sides := []struct {
		side entities.Side
		rect geometry.Rect
	}{
		{entities.SideTop, top},
		{entities.SideRight, right},
		{entities.SideBottom, bottom},
		{entities.SideLeft, left},
	}

	var walls []entities.Wall
	var door *entities.Door
	for _, s := range sides {
		if s.side != doorSide {
			walls = append(walls, entities.Wall{Rect: s.rect})
			continue
		}
		segments, d := splitForDoor(s.rect, s.side, doorWidth)
		walls = append(walls, segments...)
		door = d
	}
	return walls, door
}

func splitForDoor(r geometry.Rect, side entities.Side, doorWidth float64) ([]entities.Wall, *entities.Door) {
	gap := doorWidth / 2
	door := &entities.Door{Width: doorWidth, Side: side}

	if side == entities.SideTop || side == entities.SideBottom {
		mid := r.Center().X
		door.Point = geometry.Point{X: mid, Y: r.Center().Y}
		walls := nonEmpty(
			geometry.Rect{X: r.Left(), Y: r.Y, Width: (mid - gap) - r.Left(), Height: r.Height},
			geometry.Rect{X: mid + gap, Y: r.Y, Width: r.Right() - (mid + gap), Height: r.Height},
		)
		return walls, door
	}

	mid := r.Center().Y
	door.Point = geometry.Point{X: r.Center().X, Y: mid}
	door.Rotation = 90
	walls := nonEmpty(
		geometry.Rect{X: r.X, Y: r.Top(), Width: r.Width, Height: (mid - gap) - r.Top()},
		geometry.Rect{X: r.X, Y: mid + gap, Width: r.Width, Height: r.Bottom() - (mid + gap)},
	)
	return walls, door
}

// ruinWalls returns three short disconnected fragments along the top,
// right and bottom edges of fp
func ruinWalls(fp geometry.Rect, t float64) []entities.Wall {
	return []entities.Wall{
		{Rect: geometry.Rect{X: fp.Left(), Y: fp.Top(), Width: fp.Width * 0.4, Height: t}},
		{Rect: geometry.Rect{X: fp.Right() - t, Y: fp.Top() + fp.Height*0.3, Width: t, Height: fp.Height * 0.4}},
		{Rect: geometry.Rect{X: fp.Left() + fp.Width*0.2, Y: fp.Bottom() - t, Width: fp.Width * 0.35, Height: t}},
	}
}

func nonEmpty(rects ...geometry.Rect) []entities.Wall {
	walls := make([]entities.Wall, 0, len(rects))
	for _, r := range rects {
		if r.Width > 0 && r.Height > 0 {
			walls = append(walls, entities.Wall{Rect: r})
		}
	}
	return walls
}

// interior rolls for treasures and enemies inside a roofed building
func (g *generator) interior(b *entities.Building) ([]*entities.Treasure, []*entities.Enemy, error) {
	s := g.settings
	area := b.Footprint().Inset(s.InteriorMargin)

	treasureCount, err := g.chanceCount(s.InteriorTreasureChance, s.MaxInteriorTreasures)
	if err != nil {
		return nil, nil, err
	}
	enemyCount, err := g.chanceCount(s.InteriorEnemyChance, s.MaxInteriorEnemies)
	if err != nil {
		return nil, nil, err
	}

	var treasures []*entities.Treasure
	for i := 0; i < treasureCount; i++ {
		t, err := g.treasure(g.pointIn(area), b)
		if err != nil {
			return nil, nil, err
		}
		treasures = append(treasures, t)
	}

	var enemies []*entities.Enemy
	for i := 0; i < enemyCount; i++ {
		e, err := g.enemy(g.pointIn(area), b)
		if err != nil {
			return nil, nil, err
		}
		enemies = append(enemies, e)
	}

	return treasures, enemies, nil
}

// chanceCount rolls a d100 against chance and, on success, how many of up
// to limit entities to place
func (g *generator) chanceCount(chance float64, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	roll, err := g.cfg.Roller.Roll(100)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll interior chance")
	}
	if float64(roll) > chance*100 {
		return 0, nil
	}
	n, err := g.cfg.Roller.Roll(limit)
	if err != nil {
		return 0, errors.Wrap(err, "failed to roll interior count")
	}
	return n, nil
}

// outdoorPoint samples a point that is not on any building footprint. When
// every retry lands on a building the last sample is kept.
func (g *generator) outdoorPoint(buildings []*entities.Building, kind string) geometry.Point {
	s := g.settings
	area := geometry.Rect{X: 0, Y: 0, Width: s.Width, Height: s.Height}.Inset(s.EdgeMargin)

	var p geometry.Point
	for attempt := 0; attempt <= s.MaxPlacementRetries; attempt++ {
		p = g.pointIn(area)
		if !onAnyBuilding(buildings, p) {
			return p
		}
	}

	g.cfg.Logger.WithFields(logrus.Fields{
		"kind":     kind,
		"x":        p.X,
		"y":        p.Y,
		"attempts": s.MaxPlacementRetries + 1,
	}).Warn("outdoor placement retries exhausted, keeping point on a building footprint")
	return p
}

func onAnyBuilding(buildings []*entities.Building, p geometry.Point) bool {
	for _, b := range buildings {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

func (g *generator) treasure(p geometry.Point, in *entities.Building) (*entities.Treasure, error) {
	roll, err := g.cfg.Roller.Roll(2)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll treasure category")
	}
	category := entities.TreasureSilver
	if roll == 1 {
		category = entities.TreasureGold
	}

	t := &entities.Treasure{
		ID:       g.treasureID.Generate(),
		Point:    p,
		Category: category,
		Value:    g.settings.TreasureValues[category],
	}
	if in != nil {
		t.Indoor = true
		t.BuildingID = in.ID
	}
	return t, nil
}

func (g *generator) enemy(p geometry.Point, in *entities.Building) (*entities.Enemy, error) {
	roll, err := g.cfg.Roller.Roll(2)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll enemy kind")
	}
	kind := entities.EnemyGoblin
	if roll == 1 {
		kind = entities.EnemySkeleton
	}

	e := &entities.Enemy{
		ID:    g.enemyID.Generate(),
		Point: p,
		Kind:  kind,
		HP:    entities.EnemyMaxHP,
		Alive: true,
	}
	if in != nil {
		e.Indoor = true
		e.BuildingID = in.ID
	}
	return e, nil
}
