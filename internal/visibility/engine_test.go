package visibility_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/testutils/builders"
	"github.com/KirkDiggler/treasure-realm/internal/visibility"
	"github.com/KirkDiggler/treasure-realm/internal/world"
)

type EngineTestSuite struct {
	suite.Suite
}

func (s *EngineTestSuite) engine(state *world.State) *visibility.Engine {
	e, err := visibility.New(&visibility.Config{
		State:                state,
		ViewRadius:           visibility.DefaultViewRadius,
		BuildingRevealMargin: visibility.DefaultBuildingRevealMargin,
	})
	s.Require().NoError(err)
	return e
}

func (s *EngineTestSuite) join(state *world.State, id string, x, y float64) {
	_, err := state.Join(id, &geometry.Point{X: x, Y: y})
	s.Require().NoError(err)
}

func (s *EngineTestSuite) TestDefaultSpawnScenario() {
	state := builders.NewWorldBuilder().
		WithTreasure("gold", 1550, 1500, entities.TreasureGold).
		Build()
	_, err := state.Join("alice", nil)
	s.Require().NoError(err)

	snapshot, err := s.engine(state).ComputeVisible("alice")
	s.Require().NoError(err)

	s.Require().Len(snapshot.Treasures, 1)
	s.Assert().Equal("gold", snapshot.Treasures[0].ID)
	s.Assert().Equal(100, snapshot.Treasures[0].Value)
	s.Assert().Empty(snapshot.PlayerInside)
}

func (s *EngineTestSuite) TestIndoorOcclusion() {
	state := builders.NewWorldBuilder().
		WithHouse("house", 1000, 1000, 200, 200).
		WithHouse("neighbor", 1300, 1000, 100, 100).
		WithTreasure("outside-near", 1000, 1110, entities.TreasureGold).
		WithTreasure("outside-far", 2500, 2500, entities.TreasureSilver).
		WithEnemy("outside-enemy", 1000, 1120).
		WithIndoorTreasure("inside", "house", 1050, 1050, entities.TreasureGold).
		WithIndoorTreasure("other-house", "neighbor", 1300, 1000, entities.TreasureGold).
		WithIndoorEnemy("guard", "house", 950, 950).
		Build()
	s.join(state, "alice", 1000, 1000)
	s.join(state, "roommate", 1080, 1080)
	s.join(state, "passerby", 1000, 1130)

	snapshot, err := s.engine(state).ComputeVisible("alice")
	s.Require().NoError(err)

	s.Assert().Equal("house", snapshot.PlayerInside)
	s.Assert().True(snapshot.HasTreasure("inside"))
	s.Assert().False(snapshot.HasTreasure("outside-near"))
	s.Assert().False(snapshot.HasTreasure("outside-far"))
	s.Assert().False(snapshot.HasTreasure("other-house"))
	s.Assert().True(snapshot.HasEnemy("guard"))
	s.Assert().False(snapshot.HasEnemy("outside-enemy"))
	s.Assert().Equal([]string{"roommate"}, snapshot.PlayerIDs())

	s.Require().Len(snapshot.Buildings, 1)
	s.Assert().Equal("house", snapshot.Buildings[0].ID)
	s.Assert().True(snapshot.Buildings[0].PlayerInside)
	s.Assert().Len(snapshot.Walls, 4)
	for _, w := range snapshot.Walls {
		s.Assert().Equal("house", w.BuildingID)
	}
}

func (s *EngineTestSuite) TestIndoorExcludesResolvedEntities() {
	state := builders.NewWorldBuilder().
		WithHouse("house", 1000, 1000, 200, 200).
		WithIndoorTreasure("taken", "house", 1050, 1050, entities.TreasureGold).
		WithIndoorEnemy("dead", "house", 950, 950).
		Build()
	s.join(state, "alice", 1000, 1000)

	err := state.Write(func(tx *world.Tx) error {
		t, _ := tx.Treasure("taken")
		t.Collected = true
		e, _ := tx.Enemy("dead")
		e.Alive = false
		e.HP = 0
		return nil
	})
	s.Require().NoError(err)

	snapshot, err := s.engine(state).ComputeVisible("alice")
	s.Require().NoError(err)
	s.Assert().Empty(snapshot.Treasures)
	s.Assert().Empty(snapshot.Enemies)
}

func (s *EngineTestSuite) TestLineOfSightOcclusion() {
	state := builders.NewWorldBuilder().
		WithHouse("hut", 1500, 1500, 60, 60).
		WithEnemy("goblin", 1600, 1500).
		Build()
	s.join(state, "alice", 1400, 1500)
	engine := s.engine(state)

	snapshot, err := engine.ComputeVisible("alice")
	s.Require().NoError(err)
	s.Assert().False(snapshot.HasEnemy("goblin"), "the hut blocks the view")

	// the hut is still listed so its outline shows
	s.Require().Len(snapshot.Buildings, 1)
	s.Assert().False(snapshot.Buildings[0].PlayerInside)

	_, err = state.UpdatePosition("alice", geometry.Point{X: 1400, Y: 1400})
	s.Require().NoError(err)

	snapshot, err = engine.ComputeVisible("alice")
	s.Require().NoError(err)
	s.Assert().True(snapshot.HasEnemy("goblin"), "moving clear of the hut restores sight")
}

func (s *EngineTestSuite) TestRuinsDoNotOcclude() {
	state := builders.NewWorldBuilder().
		WithRuins("ruins", 1500, 1500, 60, 60).
		WithEnemy("goblin", 1600, 1500).
		Build()
	s.join(state, "alice", 1400, 1500)

	snapshot, err := s.engine(state).ComputeVisible("alice")
	s.Require().NoError(err)
	s.Assert().True(snapshot.HasEnemy("goblin"))
}

func (s *EngineTestSuite) TestViewRadiusBoundary() {
	state := builders.NewWorldBuilder().
		WithTreasure("edge", 1750, 1500, entities.TreasureGold).
		WithTreasure("beyond", 1500, 1750.5, entities.TreasureGold).
		Build()
	s.join(state, "alice", 1500, 1500)

	snapshot, err := s.engine(state).ComputeVisible("alice")
	s.Require().NoError(err)
	s.Assert().True(snapshot.HasTreasure("edge"))
	s.Assert().False(snapshot.HasTreasure("beyond"))
}

func (s *EngineTestSuite) TestOutdoorPlayers() {
	state := builders.NewWorldBuilder().
		WithHouse("house", 1700, 1500, 100, 100).
		Build()
	s.join(state, "alice", 1500, 1500)
	s.join(state, "bob", 1500, 1600)
	s.join(state, "hidden", 1700, 1500)
	s.join(state, "far", 500, 500)

	snapshot, err := s.engine(state).ComputeVisible("alice")
	s.Require().NoError(err)
	s.Assert().Equal([]string{"bob"}, snapshot.PlayerIDs())
}

func (s *EngineTestSuite) TestBuildingReveal() {
	state := builders.NewWorldBuilder().
		WithHouse("near", 1850, 1500, 100, 100).
		WithRuins("edge", 1500, 1850, 100, 100).
		WithHouse("far", 1500, 1149.5, 100, 100).
		Build()
	s.join(state, "alice", 1500, 1500)

	snapshot, err := s.engine(state).ComputeVisible("alice")
	s.Require().NoError(err)

	var ids []string
	for _, b := range snapshot.Buildings {
		ids = append(ids, b.ID)
	}
	s.Assert().ElementsMatch([]string{"near", "edge"}, ids)
	s.Assert().Len(snapshot.Walls, 8)
}

func (s *EngineTestSuite) TestSnapshotIsACopy() {
	state := builders.NewWorldBuilder().
		WithHouse("house", 1600, 1600, 100, 100).
		WithTreasure("gold", 1550, 1500, entities.TreasureGold).
		Build()
	s.join(state, "alice", 1500, 1500)

	snapshot, err := s.engine(state).ComputeVisible("alice")
	s.Require().NoError(err)
	s.Require().Len(snapshot.Treasures, 1)
	s.Require().Len(snapshot.Buildings, 1)

	snapshot.Treasures[0].Collected = true
	snapshot.Buildings[0].Walls[0].Width = 0

	err = state.Read(func(v world.View) error {
		t, _ := v.Treasure("gold")
		s.Assert().False(t.Collected)
		b, _ := v.Building("house")
		s.Assert().NotZero(b.Walls[0].Width)
		return nil
	})
	s.Require().NoError(err)
}

func (s *EngineTestSuite) TestUnknownPlayer() {
	state := builders.NewWorldBuilder().Build()

	_, err := s.engine(state).ComputeVisible("ghost")
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
}

func (s *EngineTestSuite) TestConfigValidation() {
	_, err := visibility.New(&visibility.Config{ViewRadius: 250})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = visibility.New(&visibility.Config{State: builders.NewWorldBuilder().Build()})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func TestHasLineOfSight(t *testing.T) {
	wall := []entities.Wall{{Rect: geometry.Rect{X: 100, Y: 0, Width: 10, Height: 200}}}

	testCases := []struct {
		name     string
		from, to geometry.Point
		expected bool
	}{
		{name: "crosses the wall", from: geometry.Point{X: 0, Y: 100}, to: geometry.Point{X: 200, Y: 100}, expected: false},
		{name: "passes above", from: geometry.Point{X: 0, Y: -10}, to: geometry.Point{X: 200, Y: -10}, expected: true},
		{name: "stops short", from: geometry.Point{X: 0, Y: 100}, to: geometry.Point{X: 90, Y: 100}, expected: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := visibility.HasLineOfSight(tc.from, tc.to, wall); got != tc.expected {
				t.Errorf("HasLineOfSight() = %v, want %v", got, tc.expected)
			}
		})
	}
}
