package worldgen

import (
	"maps"
	"math/rand"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/sirupsen/logrus"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
)

// Template describes one building to place
type Template struct {
	Type         entities.BuildingType `yaml:"type"`
	Width        float64               `yaml:"width"`
	Height       float64               `yaml:"height"`
	DoorSide     entities.Side         `yaml:"door_side"`
	HasPartition bool                  `yaml:"has_partition"`
	HasRoof      bool                  `yaml:"has_roof"`
}

// DefaultTemplates returns the stock building set
func DefaultTemplates() []Template {
	return []Template{
		{Type: entities.BuildingHouse, Width: 240, Height: 180, DoorSide: entities.SideBottom, HasPartition: true, HasRoof: true},
		{Type: entities.BuildingHouse, Width: 200, Height: 160, DoorSide: entities.SideRight, HasRoof: true},
		{Type: entities.BuildingTower, Width: 140, Height: 140, DoorSide: entities.SideLeft, HasRoof: true},
		{Type: entities.BuildingTower, Width: 120, Height: 160, DoorSide: entities.SideTop, HasRoof: true},
		{Type: entities.BuildingRuins, Width: 220, Height: 160, DoorSide: entities.SideNone},
		{Type: entities.BuildingRuins, Width: 180, Height: 180, DoorSide: entities.SideNone},
		{Type: entities.BuildingShrine, Width: 160, Height: 120, DoorSide: entities.SideTop, HasRoof: true},
		{Type: entities.BuildingShrine, Width: 160, Height: 200, DoorSide: entities.SideBottom, HasPartition: true, HasRoof: true},
	}
}

// Settings holds the tunable generation parameters
type Settings struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	CellSize float64 `yaml:"cell_size"`
	Jitter   float64 `yaml:"jitter"`

	WallThickness float64 `yaml:"wall_thickness"`
	DoorWidth     float64 `yaml:"door_width"`
	// PartitionJitter bounds the partition offset as a fraction of the split axis
	PartitionJitter float64 `yaml:"partition_jitter"`

	InteriorMargin         float64 `yaml:"interior_margin"`
	InteriorTreasureChance float64 `yaml:"interior_treasure_chance"`
	InteriorEnemyChance    float64 `yaml:"interior_enemy_chance"`
	MaxInteriorTreasures   int     `yaml:"max_interior_treasures"`
	MaxInteriorEnemies     int     `yaml:"max_interior_enemies"`

	OutdoorTreasures    int     `yaml:"outdoor_treasures"`
	OutdoorEnemies      int     `yaml:"outdoor_enemies"`
	EdgeMargin          float64 `yaml:"edge_margin"`
	MaxPlacementRetries int     `yaml:"max_placement_retries"`

	Templates      []Template                        `yaml:"templates"`
	TreasureValues map[entities.TreasureCategory]int `yaml:"treasure_values"`
}

// DefaultSettings returns the stock 3000x3000 world
func DefaultSettings() Settings {
	return Settings{
		Width:                  3000,
		Height:                 3000,
		CellSize:               400,
		Jitter:                 60,
		WallThickness:          10,
		DoorWidth:              60,
		PartitionJitter:        0.15,
		InteriorMargin:         30,
		InteriorTreasureChance: 0.6,
		InteriorEnemyChance:    0.4,
		MaxInteriorTreasures:   2,
		MaxInteriorEnemies:     1,
		OutdoorTreasures:       40,
		OutdoorEnemies:         20,
		EdgeMargin:             50,
		MaxPlacementRetries:    20,
		Templates:              DefaultTemplates(),
		TreasureValues:         maps.Clone(entities.DefaultTreasureValues),
	}
}

// Validate checks the settings for values the generator cannot honor
func (s *Settings) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidatePositive("width", s.Width, vb)
	errors.ValidatePositive("height", s.Height, vb)
	errors.ValidatePositive("cell_size", s.CellSize, vb)
	errors.ValidateNonNegative("jitter", s.Jitter, vb)
	errors.ValidatePositive("wall_thickness", s.WallThickness, vb)
	errors.ValidatePositive("door_width", s.DoorWidth, vb)
	errors.ValidateProbability("partition_jitter", s.PartitionJitter, vb)
	errors.ValidateNonNegative("interior_margin", s.InteriorMargin, vb)
	errors.ValidateProbability("interior_treasure_chance", s.InteriorTreasureChance, vb)
	errors.ValidateProbability("interior_enemy_chance", s.InteriorEnemyChance, vb)
	errors.ValidateNonNegative("max_interior_treasures", float64(s.MaxInteriorTreasures), vb)
	errors.ValidateNonNegative("max_interior_enemies", float64(s.MaxInteriorEnemies), vb)
	errors.ValidateNonNegative("outdoor_treasures", float64(s.OutdoorTreasures), vb)
	errors.ValidateNonNegative("outdoor_enemies", float64(s.OutdoorEnemies), vb)
	errors.ValidateNonNegative("edge_margin", s.EdgeMargin, vb)
	errors.ValidateNonNegative("max_placement_retries", float64(s.MaxPlacementRetries), vb)

	if 2*s.Jitter >= s.CellSize {
		vb.Fieldf("jitter", "must be less than half of cell_size (%v)", s.CellSize)
	}

	// A template fitting inside cell_size-2*jitter can never touch a neighbor
	maxSide := s.CellSize - 2*s.Jitter
	for i, t := range s.Templates {
		if t.Width <= 0 || t.Height <= 0 {
			vb.Fieldf("templates", "template %d must have a positive size", i)
			continue
		}
		if t.Width > maxSide || t.Height > maxSide {
			vb.Fieldf("templates", "template %d (%vx%v) exceeds the %v placement slot", i, t.Width, t.Height, maxSide)
		}
		if t.Type != entities.BuildingRuins && t.DoorSide != entities.SideNone {
			doorSpan := t.Width
			if t.DoorSide == entities.SideLeft || t.DoorSide == entities.SideRight {
				doorSpan = t.Height
			}
			if doorSpan <= s.DoorWidth+2*s.WallThickness {
				vb.Fieldf("templates", "template %d is too narrow for a door", i)
			}
		}
	}

	for _, category := range []entities.TreasureCategory{entities.TreasureGold, entities.TreasureSilver} {
		if s.TreasureValues[category] <= 0 {
			vb.Fieldf("treasure_values", "%s must be positive", category)
		}
	}

	return vb.Build()
}

// Config holds the settings and dependencies for one generation run
type Config struct {
	Settings Settings
	Rand     *rand.Rand
	Roller   dice.Roller
	Logger   logrus.FieldLogger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Rand == nil {
		vb.RequiredField("Rand")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Logger == nil {
		vb.RequiredField("Logger")
	}
	if err := vb.Build(); err != nil {
		return err
	}

	return c.Settings.Validate()
}
