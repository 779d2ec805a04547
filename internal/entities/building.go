package entities

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/treasure-realm/internal/geometry"
)

// EntityTypeBuilding is the core.Entity type of a building
const EntityTypeBuilding = "building"

// BuildingType is the architectural variant of a building
type BuildingType string

// Building types
const (
	BuildingHouse  BuildingType = "house"
	BuildingTower  BuildingType = "tower"
	BuildingRuins  BuildingType = "ruins"
	BuildingShrine BuildingType = "shrine"
)

// Side names a building edge
type Side string

// Door sides
const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideNone   Side = "none"
)

// Wall is an axis-aligned solid rectangle
type Wall struct {
	geometry.Rect
	BuildingID string `json:"buildingId,omitempty"`
}

// Door describes the gap left in a building's door-side wall
type Door struct {
	geometry.Point
	Width    float64 `json:"width"`
	Rotation float64 `json:"rotation"`
	Side     Side    `json:"side"`
}

// Building is a generated structure. Buildings are immutable after generation.
type Building struct {
	ID string `json:"id"`
	// Point is the building's center
	geometry.Point
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
	Type         BuildingType `json:"type"`
	DoorSide     Side         `json:"doorSide"`
	HasRoof      bool         `json:"hasRoof"`
	HasPartition bool         `json:"hasPartition"`
	Walls        []Wall       `json:"walls"`
	Door         *Door        `json:"door"`
}

// Footprint returns the ground rectangle covered by the building
func (b *Building) Footprint() geometry.Rect {
	return geometry.RectFromCenter(b.Point, b.Width, b.Height)
}

// Contains reports whether p lies on the building's footprint
func (b *Building) Contains(p geometry.Point) bool {
	return geometry.PointInRect(p, b.Footprint())
}

// GetID returns the building's ID
func (b *Building) GetID() string {
	return b.ID
}

// GetType returns the entity type for rpg-toolkit
func (b *Building) GetType() string {
	return EntityTypeBuilding
}

var _ core.Entity = (*Building)(nil)
