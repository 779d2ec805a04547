package scoreboard_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/repositories/scoreboard"
	"github.com/KirkDiggler/treasure-realm/internal/testutils"
)

// RepositoryTestSuite runs the same cases against every implementation
type RepositoryTestSuite struct {
	suite.Suite
	newRepo func() scoreboard.Repository
	cleanup func()
	repo    scoreboard.Repository
	ctx     context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	s.repo = s.newRepo()
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

func (s *RepositoryTestSuite) record(playerID string, score int) int {
	out, err := s.repo.RecordScore(s.ctx, scoreboard.RecordScoreInput{PlayerID: playerID, Score: score})
	s.Require().NoError(err)
	return out.Rank
}

func (s *RepositoryTestSuite) TestRecordScoreRanks() {
	s.Assert().Equal(1, s.record("alice", 100))
	s.Assert().Equal(1, s.record("bob", 150))
	s.Assert().Equal(3, s.record("carol", 50))

	// an update replaces the old score
	s.Assert().Equal(1, s.record("alice", 200))
}

func (s *RepositoryTestSuite) TestTop() {
	s.record("alice", 100)
	s.record("bob", 150)
	s.record("carol", 50)
	s.record("dave", 100)

	out, err := s.repo.Top(s.ctx, scoreboard.TopInput{Limit: 3})
	s.Require().NoError(err)

	s.Assert().Equal([]scoreboard.Entry{
		{PlayerID: "bob", Score: 150, Rank: 1},
		{PlayerID: "dave", Score: 100, Rank: 2},
		{PlayerID: "alice", Score: 100, Rank: 3},
	}, out.Entries)
}

func (s *RepositoryTestSuite) TestTopEmpty() {
	out, err := s.repo.Top(s.ctx, scoreboard.TopInput{})
	s.Require().NoError(err)
	s.Assert().Empty(out.Entries)
}

func (s *RepositoryTestSuite) TestRemove() {
	s.record("alice", 100)

	out, err := s.repo.Remove(s.ctx, scoreboard.RemoveInput{PlayerID: "alice"})
	s.Require().NoError(err)
	s.Assert().True(out.Removed)

	out, err = s.repo.Remove(s.ctx, scoreboard.RemoveInput{PlayerID: "alice"})
	s.Require().NoError(err)
	s.Assert().False(out.Removed)

	top, err := s.repo.Top(s.ctx, scoreboard.TopInput{})
	s.Require().NoError(err)
	s.Assert().Empty(top.Entries)
}

func (s *RepositoryTestSuite) TestEmptyPlayerID() {
	_, err := s.repo.RecordScore(s.ctx, scoreboard.RecordScoreInput{Score: 1})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = s.repo.Remove(s.ctx, scoreboard.RemoveInput{})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() scoreboard.Repository { return scoreboard.NewInMemory() },
	})
}

func TestRedisRepository(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() scoreboard.Repository {
		client, cleanup := testutils.CreateTestRedisClient(t)
		s.cleanup = cleanup

		repo, err := scoreboard.NewRedisRepository(&scoreboard.Config{
			Client:  client,
			WorldID: "world_1",
		})
		if err != nil {
			t.Fatalf("failed to create repository: %v", err)
		}
		return repo
	}
	suite.Run(t, s)
}

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	cleanup func()
	repo    scoreboard.Repository
	ctx     context.Context
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr, cleanup := testutils.CreateTestRedisServer(s.T())
	s.mr = mr
	s.cleanup = cleanup
	s.ctx = context.Background()

	repo, err := scoreboard.NewRedisRepository(&scoreboard.Config{
		Client:  client,
		WorldID: "world_1",
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestStoresSortedSetPerWorld() {
	_, err := s.repo.RecordScore(s.ctx, scoreboard.RecordScoreInput{PlayerID: "alice", Score: 150})
	s.Require().NoError(err)

	score, err := s.mr.ZScore("scoreboard:world_1", "alice")
	s.Require().NoError(err)
	s.Assert().Equal(150.0, score)
}

func (s *RedisRepositoryTestSuite) TestServerErrors() {
	s.mr.SetError("LOADING server is loading")

	_, err := s.repo.RecordScore(s.ctx, scoreboard.RecordScoreInput{PlayerID: "alice", Score: 150})
	s.Assert().Error(err)

	_, err = s.repo.Top(s.ctx, scoreboard.TopInput{})
	s.Assert().Error(err)
}

func (s *RedisRepositoryTestSuite) TestConfigValidation() {
	_, err := scoreboard.NewRedisRepository(&scoreboard.Config{WorldID: "world_1"})
	s.Assert().True(errors.IsInvalidArgument(err))

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	defer cleanup()
	_, err = scoreboard.NewRedisRepository(&scoreboard.Config{Client: client})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}
