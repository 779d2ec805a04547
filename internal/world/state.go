package world

import (
	"maps"
	"slices"
	"sync"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
)

// Defaults for a new State
const (
	DefaultWidth       = 3000
	DefaultHeight      = 3000
	DefaultPlayerMaxHP = 100
)

// DefaultSpawn is where players without a requested position appear
var DefaultSpawn = geometry.Point{X: 1500, Y: 1500}

// Config holds the layout and tuning for a new State
type Config struct {
	Width  float64
	Height float64

	Buildings []*entities.Building
	Treasures []*entities.Treasure
	Enemies   []*entities.Enemy

	// Spawn defaults to DefaultSpawn
	Spawn *geometry.Point
	// PlayerMaxHP defaults to DefaultPlayerMaxHP
	PlayerMaxHP int
}

// Validate checks the config
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidatePositive("Width", c.Width, vb)
	errors.ValidatePositive("Height", c.Height, vb)
	errors.ValidateNonNegative("PlayerMaxHP", float64(c.PlayerMaxHP), vb)

	seen := map[string]bool{}
	check := func(table, id string) {
		if id == "" {
			vb.Fieldf(table, "entity with empty id")
			return
		}
		if seen[table+"/"+id] {
			vb.Fieldf(table, "duplicate id %s", id)
		}
		seen[table+"/"+id] = true
	}
	for _, b := range c.Buildings {
		check("Buildings", b.ID)
	}
	for _, t := range c.Treasures {
		check("Treasures", t.ID)
	}
	for _, e := range c.Enemies {
		check("Enemies", e.ID)
	}

	return vb.Build()
}

// State is the authoritative world: buildings, treasures, enemies and
// connected players
type State struct {
	mu     sync.RWMutex
	tables *tables
	spawn  geometry.Point
	maxHP  int
}

// New creates a State over the given layout. The entity records are copied.
func New(cfg *Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &tables{
		bounds:    geometry.Rect{Width: cfg.Width, Height: cfg.Height},
		buildings: make([]*entities.Building, 0, len(cfg.Buildings)),
		players:   make(map[string]*entities.Player),
		treasures: make(map[string]*entities.Treasure, len(cfg.Treasures)),
		enemies:   make(map[string]*entities.Enemy, len(cfg.Enemies)),
	}
	for _, b := range cfg.Buildings {
		building := *b
		building.Walls = slices.Clone(b.Walls)
		t.buildings = append(t.buildings, &building)
	}
	for _, tr := range cfg.Treasures {
		treasure := *tr
		t.treasures[tr.ID] = &treasure
		t.treasureOrder = append(t.treasureOrder, tr.ID)
	}
	for _, e := range cfg.Enemies {
		enemy := *e
		t.enemies[e.ID] = &enemy
		t.enemyOrder = append(t.enemyOrder, e.ID)
	}

	s := &State{
		tables: t,
		spawn:  DefaultSpawn,
		maxHP:  DefaultPlayerMaxHP,
	}
	if cfg.Spawn != nil {
		s.spawn = *cfg.Spawn
	}
	if cfg.PlayerMaxHP > 0 {
		s.maxHP = cfg.PlayerMaxHP
	}
	return s, nil
}

// Join adds a player at position, or at the spawn point when position is nil
func (s *State) Join(playerID string, position *geometry.Point) (*entities.Player, error) {
	if playerID == "" {
		return nil, errors.InvalidArgument("player id is required")
	}

	at := s.spawn
	if position != nil {
		at = *position
	}

	var joined entities.Player
	err := s.Write(func(tx *Tx) error {
		p, err := tx.AddPlayer(playerID, at, s.maxHP)
		if err != nil {
			return err
		}
		joined = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &joined, nil
}

// UpdatePosition overwrites a player's position. No collision check is made.
func (s *State) UpdatePosition(playerID string, position geometry.Point) (*entities.Player, error) {
	var moved entities.Player
	err := s.Write(func(tx *Tx) error {
		p, err := tx.MovePlayer(playerID, position)
		if err != nil {
			return err
		}
		moved = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &moved, nil
}

// Remove deletes a player and returns its final record
func (s *State) Remove(playerID string) (*entities.Player, error) {
	var removed entities.Player
	err := s.Write(func(tx *Tx) error {
		p, err := tx.RemovePlayer(playerID)
		if err != nil {
			return err
		}
		removed = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

// Player returns a copy of one player
func (s *State) Player(playerID string) (*entities.Player, error) {
	var found entities.Player
	err := s.Read(func(v View) error {
		p, ok := v.Player(playerID)
		if !ok {
			return errors.NotFoundf("player %s not found", playerID)
		}
		found = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// Buildings returns the layout. Buildings never change, so the records are
// shared; callers must not modify them.
func (s *State) Buildings() []*entities.Building {
	return s.tables.buildings
}

// Bounds returns the map rectangle
func (s *State) Bounds() geometry.Rect {
	return s.tables.bounds
}

// Read runs fn under the shared lock
func (s *State) Read(fn func(View) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.tables)
}

// Write runs fn under the exclusive lock. fn must validate before mutating
// so that a returned error leaves no partial change behind.
func (s *State) Write(fn func(*Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{tables: s.tables})
}

// View is a consistent read-only view of the world. Returned records point
// into the live tables and are only valid inside the Read callback.
type View interface {
	Bounds() geometry.Rect
	Buildings() []*entities.Building
	Building(id string) (*entities.Building, bool)
	// RoofedBuildingAt returns the roofed building whose footprint contains p
	RoofedBuildingAt(p geometry.Point) (*entities.Building, bool)

	Player(id string) (*entities.Player, bool)
	Treasure(id string) (*entities.Treasure, bool)
	Enemy(id string) (*entities.Enemy, bool)

	// Players are ordered by id, treasures and enemies by placement
	Players() []*entities.Player
	Treasures() []*entities.Treasure
	Enemies() []*entities.Enemy
}

type tables struct {
	bounds    geometry.Rect
	buildings []*entities.Building

	players   map[string]*entities.Player
	treasures map[string]*entities.Treasure
	enemies   map[string]*entities.Enemy

	treasureOrder []string
	enemyOrder    []string
}

var _ View = (*tables)(nil)

func (t *tables) Bounds() geometry.Rect {
	return t.bounds
}

func (t *tables) Buildings() []*entities.Building {
	return t.buildings
}

func (t *tables) Building(id string) (*entities.Building, bool) {
	for _, b := range t.buildings {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (t *tables) RoofedBuildingAt(p geometry.Point) (*entities.Building, bool) {
	for _, b := range t.buildings {
		if b.HasRoof && b.Contains(p) {
			return b, true
		}
	}
	return nil, false
}

func (t *tables) Player(id string) (*entities.Player, bool) {
	p, ok := t.players[id]
	return p, ok
}

func (t *tables) Treasure(id string) (*entities.Treasure, bool) {
	tr, ok := t.treasures[id]
	return tr, ok
}

func (t *tables) Enemy(id string) (*entities.Enemy, bool) {
	e, ok := t.enemies[id]
	return e, ok
}

func (t *tables) Players() []*entities.Player {
	players := make([]*entities.Player, 0, len(t.players))
	for _, id := range slices.Sorted(maps.Keys(t.players)) {
		players = append(players, t.players[id])
	}
	return players
}

func (t *tables) Treasures() []*entities.Treasure {
	treasures := make([]*entities.Treasure, len(t.treasureOrder))
	for i, id := range t.treasureOrder {
		treasures[i] = t.treasures[id]
	}
	return treasures
}

func (t *tables) Enemies() []*entities.Enemy {
	enemies := make([]*entities.Enemy, len(t.enemyOrder))
	for i, id := range t.enemyOrder {
		enemies[i] = t.enemies[id]
	}
	return enemies
}

// locate clamps p to the map and reports the roofed building it falls in
func (t *tables) locate(p geometry.Point) (geometry.Point, *entities.Building) {
	p = geometry.Clamp(p, t.bounds)
	b, _ := t.RoofedBuildingAt(p)
	return p, b
}
