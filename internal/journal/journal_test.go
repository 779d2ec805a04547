package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/clock"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
)

type ZstdWriterTestSuite struct {
	suite.Suite
	dir    string
	clock  *clock.Fixed
	writer *ZstdWriter
}

func (s *ZstdWriterTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.clock = clock.NewFixed(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	w, err := NewZstdWriter(&Config{Dir: s.dir, Prefix: "actions", Clock: s.clock})
	s.Require().NoError(err)
	s.writer = w
}

func (s *ZstdWriterTestSuite) TearDownTest() {
	s.Require().NoError(s.writer.Close())
}

func (s *ZstdWriterTestSuite) entry(seq int64, success bool) Entry {
	e := Entry{
		Time:     s.clock.Now(),
		WorldID:  "world_1",
		PlayerID: "alice",
		Action:   protocol.ActionPickup,
		Seq:      seq,
		Success:  success,
	}
	if success {
		e.Events = []protocol.GameEvent{{Type: protocol.EventItemCollected, ItemID: "treasure_1", Value: 100}}
	} else {
		e.Code = string(errors.CodeAlreadyResolved)
	}
	return e
}

func (s *ZstdWriterTestSuite) TestRoundTrip() {
	first := s.entry(1, true)
	second := s.entry(2, false)
	s.Require().NoError(s.writer.Append(first))
	s.Require().NoError(s.writer.Append(second))
	s.Require().NoError(s.writer.Close())

	path := s.writer.PathForHour(s.clock.Now())
	s.Assert().Equal(filepath.Join(s.dir, "actions-2026-03-14-09.jsonl.zst"), path)

	entries, err := ReadFile(path)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Assert().Equal(first, entries[0])
	s.Assert().Equal(second, entries[1])
}

func (s *ZstdWriterTestSuite) TestRotatesHourly() {
	s.Require().NoError(s.writer.Append(s.entry(1, true)))
	firstHour := s.clock.Now()

	s.clock.Advance(time.Hour)
	s.Require().NoError(s.writer.Append(s.entry(2, true)))
	s.Require().NoError(s.writer.Append(s.entry(3, true)))
	s.Require().NoError(s.writer.Close())

	older, err := ReadFile(s.writer.PathForHour(firstHour))
	s.Require().NoError(err)
	s.Assert().Len(older, 1)

	newer, err := ReadFile(s.writer.PathForHour(s.clock.Now()))
	s.Require().NoError(err)
	s.Assert().Len(newer, 2)
}

func (s *ZstdWriterTestSuite) TestReopenAppends() {
	s.Require().NoError(s.writer.Append(s.entry(1, true)))
	s.Require().NoError(s.writer.Close())

	// a restarted writer appends a second frame to the same file
	s.Require().NoError(s.writer.Append(s.entry(2, true)))
	s.Require().NoError(s.writer.Close())

	entries, err := ReadFile(s.writer.PathForHour(s.clock.Now()))
	s.Require().NoError(err)
	s.Assert().Len(entries, 2)
}

func (s *ZstdWriterTestSuite) TestOpenFileIsReadable() {
	first := s.entry(1, true)
	second := s.entry(2, false)
	s.Require().NoError(s.writer.Append(first))
	s.Require().NoError(s.writer.Append(second))

	// no Close: the entries must already be on disk
	entries, err := ReadFile(s.writer.PathForHour(s.clock.Now()))
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Assert().Equal(first, entries[0])
	s.Assert().Equal(second, entries[1])
}

func (s *ZstdWriterTestSuite) TestNoFileUntilFirstAppend() {
	files, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	s.Assert().Empty(files)
}

func (s *ZstdWriterTestSuite) TestConfigValidation() {
	_, err := NewZstdWriter(&Config{Prefix: "actions", Clock: s.clock})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = NewZstdWriter(&Config{Dir: s.dir, Prefix: "actions"})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func TestZstdWriterTestSuite(t *testing.T) {
	suite.Run(t, new(ZstdWriterTestSuite))
}

func TestNop(t *testing.T) {
	var w Writer = Nop{}
	if err := w.Append(Entry{}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}
