package game_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/treasure-realm/internal/entities"
	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/geometry"
	"github.com/KirkDiggler/treasure-realm/internal/journal"
	journalmock "github.com/KirkDiggler/treasure-realm/internal/journal/mock"
	"github.com/KirkDiggler/treasure-realm/internal/orchestrators/game"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/clock"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/logger"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
	"github.com/KirkDiggler/treasure-realm/internal/repositories/scoreboard"
	scoreboardmock "github.com/KirkDiggler/treasure-realm/internal/repositories/scoreboard/mock"
	"github.com/KirkDiggler/treasure-realm/internal/testutils/builders"
	"github.com/KirkDiggler/treasure-realm/internal/visibility"
	"github.com/KirkDiggler/treasure-realm/internal/world"
)

type recordingNotifier struct {
	mu       sync.Mutex
	notified []string
}

func (n *recordingNotifier) Notify(playerID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, playerID)
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockScoreboard *scoreboardmock.MockRepository
	mockJournal    *journalmock.MockWriter
	clock          *clock.Fixed
	notifier       *recordingNotifier
	state          *world.State
	service        game.Service
	ctx            context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockScoreboard = scoreboardmock.NewMockRepository(s.ctrl)
	s.mockJournal = journalmock.NewMockWriter(s.ctrl)
	s.clock = clock.NewFixed(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	s.notifier = &recordingNotifier{}
	s.ctx = context.Background()

	s.useWorld(builders.NewWorldBuilder().
		WithHouse("house", 1000, 1000, 200, 200).
		WithIndoorTreasure("chest", "house", 1020, 1000, entities.TreasureGold).
		WithTreasure("gold", 1550, 1500, entities.TreasureGold).
		WithTreasure("silver", 1551, 1500, entities.TreasureSilver).
		WithEnemy("skeleton", 1560, 1500).
		WithEnemy("far-skeleton", 1500, 1560.001))
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) useWorld(b *builders.WorldBuilder) {
	s.state = b.Build()

	engine, err := visibility.New(&visibility.Config{
		State:                s.state,
		ViewRadius:           visibility.DefaultViewRadius,
		BuildingRevealMargin: visibility.DefaultBuildingRevealMargin,
	})
	s.Require().NoError(err)

	service, err := game.NewOrchestrator(&game.Config{
		WorldID:    "world_1",
		State:      s.state,
		Visibility: engine,
		Scoreboard: s.mockScoreboard,
		Journal:    s.mockJournal,
		Clock:      s.clock,
		Logger:     logger.Discard(),
		Rules:      game.DefaultRules(),
		Notifier:   s.notifier,
	})
	s.Require().NoError(err)
	s.service = service
}

func (s *OrchestratorTestSuite) join(playerID string, at *geometry.Point) *protocol.Response {
	out, err := s.service.Join(s.ctx, &game.JoinInput{PlayerID: playerID, Position: at})
	s.Require().NoError(err)
	return out.Response
}

func (s *OrchestratorTestSuite) player(playerID string) *entities.Player {
	p, err := s.state.Player(playerID)
	s.Require().NoError(err)
	return p
}

func (s *OrchestratorTestSuite) expectScore(playerID string, score int) {
	s.mockScoreboard.EXPECT().
		RecordScore(gomock.Any(), scoreboard.RecordScoreInput{PlayerID: playerID, Score: score}).
		Return(&scoreboard.RecordScoreOutput{Rank: 1}, nil)
}

func (s *OrchestratorTestSuite) action(kind protocol.ActionKind, seq int64, payload any) *protocol.InboundAction {
	a, err := protocol.NewAction(kind, seq, payload)
	s.Require().NoError(err)
	return a
}

func (s *OrchestratorTestSuite) TestCollectIsIdempotent() {
	s.join("alice", nil)
	s.expectScore("alice", 100)

	first, err := s.service.Collect(s.ctx, &game.CollectInput{PlayerID: "alice", TreasureID: "gold"})
	s.Require().NoError(err)
	s.Require().True(first.Success)
	s.Assert().Equal("gold", first.Treasure.ID)
	s.Assert().True(first.Treasure.Collected)
	s.Assert().Equal(100, *first.NewScore)

	second, err := s.service.Collect(s.ctx, &game.CollectInput{PlayerID: "alice", TreasureID: "gold"})
	s.Require().NoError(err)
	s.Assert().False(second.Success)
	s.Assert().Equal(errors.CodeAlreadyResolved, second.Reason)
	s.Assert().Nil(second.NewScore)

	alice := s.player("alice")
	s.Assert().Equal(100, alice.Score)
	s.Require().Len(alice.Inventory, 1)
	s.Assert().Equal("gold", alice.Inventory[0].ID)
}

func (s *OrchestratorTestSuite) TestCollectRejections() {
	testCases := []struct {
		name       string
		playerID   string
		treasureID string
		reason     errors.Code
	}{
		{name: "just out of range", playerID: "alice", treasureID: "silver", reason: errors.CodeOutOfRange},
		{name: "unknown treasure", playerID: "alice", treasureID: "nope", reason: errors.CodeNotFound},
		{name: "empty treasure id", playerID: "alice", treasureID: "", reason: errors.CodeNotFound},
		{name: "unknown player", playerID: "ghost", treasureID: "gold", reason: errors.CodeNotFound},
		{name: "indoor treasure from outside", playerID: "alice", treasureID: "chest", reason: errors.CodeOutOfRange},
	}

	s.join("alice", nil)

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.service.Collect(s.ctx, &game.CollectInput{PlayerID: tc.playerID, TreasureID: tc.treasureID})
			s.Require().NoError(err)
			s.Assert().False(out.Success)
			s.Assert().Equal(tc.reason, out.Reason)
			s.Assert().NotEmpty(out.Message)
		})
	}

	alice := s.player("alice")
	s.Assert().Zero(alice.Score)
	s.Assert().Empty(alice.Inventory)

	err := s.state.Read(func(v world.View) error {
		for _, t := range v.Treasures() {
			s.Assert().False(t.Collected, t.ID)
		}
		return nil
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestConcurrentCollectAwardsOnce() {
	s.join("alice", nil)
	s.join("bob", &geometry.Point{X: 1560, Y: 1510})
	s.mockScoreboard.EXPECT().
		RecordScore(gomock.Any(), gomock.Any()).
		Return(&scoreboard.RecordScoreOutput{Rank: 1}, nil)

	var wg sync.WaitGroup
	results := make([]*game.CollectOutput, 2)
	for i, id := range []string{"alice", "bob"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := s.service.Collect(s.ctx, &game.CollectInput{PlayerID: id, TreasureID: "gold"})
			s.Assert().NoError(err)
			results[i] = out
		}()
	}
	wg.Wait()

	successes := 0
	for _, r := range results {
		if r.Success {
			successes++
		} else {
			s.Assert().Equal(errors.CodeAlreadyResolved, r.Reason)
		}
	}
	s.Assert().Equal(1, successes)
	s.Assert().Equal(100, s.player("alice").Score+s.player("bob").Score)
}

func (s *OrchestratorTestSuite) TestKillTakesFourHits() {
	s.join("alice", nil)
	s.expectScore("alice", 50)

	for i, hp := range []int{75, 50, 25} {
		out, err := s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "skeleton"})
		s.Require().NoError(err)
		s.Require().True(out.Success, "hit %d", i+1)
		s.Assert().Equal(protocol.TargetEnemy, out.TargetKind)
		s.Assert().False(*out.Killed)
		s.Assert().Equal(hp, *out.EnemyHP)
		s.Assert().Nil(out.NewScore)
	}

	out, err := s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "skeleton"})
	s.Require().NoError(err)
	s.Require().True(out.Success)
	s.Assert().True(*out.Killed)
	s.Assert().Equal(50, *out.NewScore)
	s.Assert().Nil(out.EnemyHP)

	again, err := s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "skeleton"})
	s.Require().NoError(err)
	s.Assert().False(again.Success)
	s.Assert().Equal(errors.CodeAlreadyResolved, again.Reason)

	s.Assert().Equal(50, s.player("alice").Score)
	err = s.state.Read(func(v world.View) error {
		e, _ := v.Enemy("skeleton")
		s.Assert().False(e.Alive)
		s.Assert().Zero(e.HP)
		return nil
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestAttackRangeIsInclusive() {
	s.join("alice", nil)

	// skeleton is exactly 60 away, far-skeleton 60.001
	hit, err := s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "skeleton"})
	s.Require().NoError(err)
	s.Assert().True(hit.Success)

	miss, err := s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "far-skeleton"})
	s.Require().NoError(err)
	s.Assert().False(miss.Success)
	s.Assert().Equal(errors.CodeOutOfRange, miss.Reason)

	err = s.state.Read(func(v world.View) error {
		e, _ := v.Enemy("far-skeleton")
		s.Assert().Equal(entities.EnemyMaxHP, e.HP)
		return nil
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestAttackPlayerIsUnclamped() {
	s.join("alice", nil)
	s.join("bob", &geometry.Point{X: 1520, Y: 1500})

	var out *game.AttackOutput
	for i := 0; i < 6; i++ {
		var err error
		out, err = s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "bob"})
		s.Require().NoError(err)
		s.Require().True(out.Success)
	}
	s.Assert().Equal(protocol.TargetPlayer, out.TargetKind)
	s.Assert().Equal(-20, *out.TargetHP)
	s.Assert().Nil(out.Killed)
	s.Assert().Equal(-20, s.player("bob").HP)

	s.Assert().Equal([]string{"bob", "bob", "bob", "bob", "bob", "bob"}, s.notifier.notified)

	snapshot, err := s.service.GetSnapshot(s.ctx, &game.GetSnapshotInput{PlayerID: "bob"})
	s.Require().NoError(err)
	damage := 0
	for _, e := range snapshot.Response.Events {
		if e.Type == protocol.EventDamageTaken {
			s.Assert().Equal("alice", e.FromID)
			s.Assert().Equal(20, e.Amount)
			damage++
		}
	}
	s.Assert().Equal(6, damage)

	// pending events are delivered once
	again, err := s.service.GetSnapshot(s.ctx, &game.GetSnapshotInput{PlayerID: "bob"})
	s.Require().NoError(err)
	s.Assert().Empty(again.Response.Events)
}

func (s *OrchestratorTestSuite) TestAttackSelfTakesDamage() {
	s.join("alice", nil)

	out, err := s.service.Attack(s.ctx, &game.AttackInput{
		PlayerID:   "alice",
		TargetID:   "alice",
		TargetKind: protocol.TargetPlayer,
	})
	s.Require().NoError(err)
	s.Require().True(out.Success)
	s.Assert().Equal(protocol.TargetPlayer, out.TargetKind)
	s.Assert().Equal(80, *out.TargetHP)
	s.Assert().Equal(80, s.player("alice").HP)
	s.Assert().Equal([]string{"alice"}, s.notifier.notified)

	// inferred kind resolves to the attacker's own player entry
	out, err = s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "alice"})
	s.Require().NoError(err)
	s.Require().True(out.Success)
	s.Assert().Equal(60, *out.TargetHP)
}

func (s *OrchestratorTestSuite) TestAttackRejections() {
	s.join("alice", nil)
	s.join("bob", &geometry.Point{X: 2000, Y: 2000})

	testCases := []struct {
		name   string
		input  *game.AttackInput
		reason errors.Code
	}{
		{
			name:   "player out of range",
			input:  &game.AttackInput{PlayerID: "alice", TargetID: "bob"},
			reason: errors.CodeOutOfRange,
		},
		{
			name:   "unknown target",
			input:  &game.AttackInput{PlayerID: "alice", TargetID: "dragon"},
			reason: errors.CodeNotFound,
		},
		{
			name:   "enemy id with player kind",
			input:  &game.AttackInput{PlayerID: "alice", TargetID: "skeleton", TargetKind: protocol.TargetPlayer},
			reason: errors.CodeNotFound,
		},
		{
			name:   "unknown kind",
			input:  &game.AttackInput{PlayerID: "alice", TargetID: "skeleton", TargetKind: "tree"},
			reason: errors.CodeInvalidArgument,
		},
		{
			name:   "unknown attacker",
			input:  &game.AttackInput{PlayerID: "ghost", TargetID: "skeleton"},
			reason: errors.CodeNotFound,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.service.Attack(s.ctx, tc.input)
			s.Require().NoError(err)
			s.Assert().False(out.Success)
			s.Assert().Equal(tc.reason, out.Reason)
		})
	}

	s.Assert().Equal(100, s.player("bob").HP)
	s.Assert().Equal(100, s.player("alice").HP)
	s.Assert().Empty(s.notifier.notified)
}

func (s *OrchestratorTestSuite) TestTargetKindInference() {
	s.useWorld(builders.NewWorldBuilder().WithEnemy("twin", 1520, 1500))
	s.join("alice", nil)
	s.join("twin", &geometry.Point{X: 1510, Y: 1500})

	out, err := s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "twin"})
	s.Require().NoError(err)
	s.Assert().Equal(protocol.TargetEnemy, out.TargetKind)

	out, err = s.service.Attack(s.ctx, &game.AttackInput{PlayerID: "alice", TargetID: "twin", TargetKind: protocol.TargetPlayer})
	s.Require().NoError(err)
	s.Assert().Equal(protocol.TargetPlayer, out.TargetKind)
	s.Assert().Equal(80, *out.TargetHP)
}

func (s *OrchestratorTestSuite) TestScoreboardFailureDoesNotUndoCollect() {
	s.join("alice", nil)
	s.mockScoreboard.EXPECT().
		RecordScore(gomock.Any(), gomock.Any()).
		Return(nil, errors.New(errors.CodeUnavailable, "redis down"))

	out, err := s.service.Collect(s.ctx, &game.CollectInput{PlayerID: "alice", TreasureID: "gold"})
	s.Require().NoError(err)
	s.Assert().True(out.Success)
	s.Assert().Equal(100, s.player("alice").Score)
}

func (s *OrchestratorTestSuite) TestMove() {
	s.join("alice", nil)

	out, err := s.service.Move(s.ctx, &game.MoveInput{PlayerID: "alice", Position: geometry.Point{X: 1010, Y: 990}})
	s.Require().NoError(err)
	s.Assert().True(out.Player.Indoor)
	s.Assert().Equal("house", out.Player.BuildingID)
	s.Assert().Equal("house", out.Visible.PlayerInside)
	s.Assert().True(out.Visible.HasTreasure("chest"))
	s.Assert().False(out.Visible.HasTreasure("gold"))

	_, err = s.service.Move(s.ctx, &game.MoveInput{PlayerID: "ghost"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestJoinScenario() {
	resp := s.join("alice", nil)

	s.Assert().Equal(int64(0), resp.Seq)
	s.Assert().Equal(s.clock.Now().UnixMilli(), resp.Timestamp)
	s.Assert().Equal(world.DefaultSpawn, resp.Player.Point)
	s.Assert().Equal(100, resp.Player.HP)
	s.Assert().True(resp.Visible.HasTreasure("gold"))
	s.Assert().Nil(resp.Result)
	s.Assert().Empty(resp.Events)

	_, err := s.service.Join(s.ctx, &game.JoinInput{PlayerID: "alice"})
	s.Assert().True(errors.IsAlreadyExists(err))
}

func (s *OrchestratorTestSuite) TestHandlePickup() {
	s.join("alice", nil)
	s.expectScore("alice", 100)
	s.mockJournal.EXPECT().
		Append(gomock.Any()).
		DoAndReturn(func(entry journal.Entry) error {
			s.Assert().Equal("world_1", entry.WorldID)
			s.Assert().Equal("alice", entry.PlayerID)
			s.Assert().Equal(protocol.ActionPickup, entry.Action)
			s.Assert().Equal(int64(3), entry.Seq)
			s.Assert().True(entry.Success)
			s.Assert().Empty(entry.Code)
			s.Assert().Len(entry.Events, 1)
			return nil
		})

	out, err := s.service.HandleAction(s.ctx, &game.HandleActionInput{
		PlayerID: "alice",
		Action:   s.action(protocol.ActionPickup, 3, protocol.PickupPayload{ItemID: "gold"}),
	})
	s.Require().NoError(err)

	resp := out.Response
	s.Assert().Equal(int64(3), resp.Seq)
	s.Require().NotNil(resp.Result)
	s.Assert().True(resp.Result.Success)
	s.Assert().Equal(100, resp.Result.Data["newScore"])
	s.Assert().Equal(100, resp.Player.Score)
	s.Assert().False(resp.Visible.HasTreasure("gold"))
	s.Assert().Equal([]protocol.GameEvent{
		{Type: protocol.EventItemCollected, ItemID: "gold", Value: 100},
	}, resp.Events)
}

func (s *OrchestratorTestSuite) TestHandleAttackKill() {
	s.join("alice", nil)
	s.expectScore("alice", 50)
	s.mockJournal.EXPECT().Append(gomock.Any()).Return(nil).Times(4)

	var resp *protocol.Response
	for seq := int64(1); seq <= 4; seq++ {
		out, err := s.service.HandleAction(s.ctx, &game.HandleActionInput{
			PlayerID: "alice",
			Action:   s.action(protocol.ActionAttack, seq, protocol.AttackPayload{TargetID: "skeleton"}),
		})
		s.Require().NoError(err)
		resp = out.Response
	}

	s.Assert().True(resp.Result.Success)
	s.Assert().Equal(true, resp.Result.Data["killed"])
	s.Assert().Equal(50, resp.Result.Data["newScore"])
	s.Assert().Equal([]protocol.GameEvent{
		{Type: protocol.EventEnemyDied, EnemyID: "skeleton"},
	}, resp.Events)
	s.Assert().False(resp.Visible.HasEnemy("skeleton"))
}

func (s *OrchestratorTestSuite) TestHandlePassThroughActions() {
	s.join("alice", nil)
	s.mockJournal.EXPECT().Append(gomock.Any()).Return(nil).Times(2)

	testCases := []struct {
		kind    protocol.ActionKind
		payload any
	}{
		{kind: protocol.ActionUse, payload: protocol.UsePayload{ItemID: "gold"}},
		{kind: protocol.ActionChat, payload: protocol.ChatPayload{Message: "hello"}},
	}

	for _, tc := range testCases {
		s.Run(string(tc.kind), func() {
			out, err := s.service.HandleAction(s.ctx, &game.HandleActionInput{
				PlayerID: "alice",
				Action:   s.action(tc.kind, 1, tc.payload),
			})
			s.Require().NoError(err)
			s.Assert().False(out.Response.Result.Success)
			s.Assert().Equal("unsupported action", out.Response.Result.Message)
			s.Assert().Equal(string(errors.CodeUnimplemented), out.Response.Result.Code)
		})
	}

	s.Assert().Zero(s.player("alice").Score)
}

func (s *OrchestratorTestSuite) TestHandleBadPayload() {
	s.join("alice", nil)
	s.mockJournal.EXPECT().Append(gomock.Any()).Return(nil)

	out, err := s.service.HandleAction(s.ctx, &game.HandleActionInput{
		PlayerID: "alice",
		Action:   &protocol.InboundAction{Action: protocol.ActionMove, Seq: 9},
	})
	s.Require().NoError(err)
	s.Assert().False(out.Response.Result.Success)
	s.Assert().Equal(string(errors.CodeInvalidArgument), out.Response.Result.Code)
	s.Assert().Equal(world.DefaultSpawn, out.Response.Player.Point)
}

func (s *OrchestratorTestSuite) TestHandleJournalFailureIsLogged() {
	s.join("alice", nil)
	s.mockJournal.EXPECT().Append(gomock.Any()).Return(errors.Internal("disk full"))

	out, err := s.service.HandleAction(s.ctx, &game.HandleActionInput{
		PlayerID: "alice",
		Action:   s.action(protocol.ActionMove, 1, protocol.MovePayload{X: 1400, Y: 1400}),
	})
	s.Require().NoError(err)
	s.Assert().True(out.Response.Result.Success)
	s.Assert().Equal(geometry.Point{X: 1400, Y: 1400}, out.Response.Player.Point)
}

func (s *OrchestratorTestSuite) TestHandleUnknownPlayer() {
	_, err := s.service.HandleAction(s.ctx, &game.HandleActionInput{
		PlayerID: "ghost",
		Action:   s.action(protocol.ActionMove, 1, protocol.MovePayload{X: 1, Y: 1}),
	})
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.service.HandleAction(s.ctx, &game.HandleActionInput{PlayerID: "ghost"})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestPlayersEnteringAndLeavingView() {
	s.join("alice", nil)

	_, err := s.service.Join(s.ctx, &game.JoinInput{
		PlayerID: "bob",
		Name:     "Bob",
		Position: &geometry.Point{X: 1600, Y: 1500},
	})
	s.Require().NoError(err)

	snapshot, err := s.service.GetSnapshot(s.ctx, &game.GetSnapshotInput{PlayerID: "alice"})
	s.Require().NoError(err)
	s.Assert().Equal([]protocol.GameEvent{
		{Type: protocol.EventPlayerEntered, PlayerID: "bob", Name: "Bob"},
	}, snapshot.Response.Events)

	s.mockJournal.EXPECT().Append(gomock.Any()).Return(nil)
	_, err = s.service.HandleAction(s.ctx, &game.HandleActionInput{
		PlayerID: "bob",
		Action:   s.action(protocol.ActionMove, 1, protocol.MovePayload{X: 2500, Y: 2500}),
	})
	s.Require().NoError(err)

	snapshot, err = s.service.GetSnapshot(s.ctx, &game.GetSnapshotInput{PlayerID: "alice"})
	s.Require().NoError(err)
	s.Assert().Equal([]protocol.GameEvent{
		{Type: protocol.EventPlayerLeft, PlayerID: "bob"},
	}, snapshot.Response.Events)
}

func (s *OrchestratorTestSuite) TestLeave() {
	s.join("alice", nil)
	s.mockScoreboard.EXPECT().
		Remove(gomock.Any(), scoreboard.RemoveInput{PlayerID: "alice"}).
		Return(&scoreboard.RemoveOutput{Removed: true}, nil)

	out, err := s.service.Leave(s.ctx, &game.LeaveInput{PlayerID: "alice"})
	s.Require().NoError(err)
	s.Assert().Equal("alice", out.Player.ID)

	_, err = s.state.Player("alice")
	s.Assert().True(errors.IsNotFound(err))

	_, err = s.service.Leave(s.ctx, &game.LeaveInput{PlayerID: "alice"})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestLeaderboard() {
	s.mockScoreboard.EXPECT().
		Top(gomock.Any(), scoreboard.TopInput{Limit: 5}).
		Return(&scoreboard.TopOutput{Entries: []scoreboard.Entry{{PlayerID: "alice", Score: 150, Rank: 1}}}, nil)

	out, err := s.service.Leaderboard(s.ctx, &game.LeaderboardInput{Limit: 5})
	s.Require().NoError(err)
	s.Require().Len(out.Entries, 1)
	s.Assert().Equal("alice", out.Entries[0].PlayerID)
}

func (s *OrchestratorTestSuite) TestNilInputs() {
	_, err := s.service.Collect(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
	_, err = s.service.Attack(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
	_, err = s.service.Join(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestConfigValidation() {
	_, err := game.NewOrchestrator(&game.Config{WorldID: "world_1"})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = game.NewOrchestrator(nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestOrchestratorTestSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}
