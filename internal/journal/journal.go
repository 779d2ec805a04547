// Package journal records every resolved action as one JSON line in an
// hourly zstd-compressed file.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/KirkDiggler/treasure-realm/internal/errors"
	"github.com/KirkDiggler/treasure-realm/internal/pkg/clock"
	"github.com/KirkDiggler/treasure-realm/internal/protocol"
)

const (
	hourLayout = "2006-01-02-15"
	fileSuffix = ".jsonl.zst"
)

// Entry is one journaled action
type Entry struct {
	Time     time.Time           `json:"time"`
	WorldID  string              `json:"worldId"`
	PlayerID string              `json:"playerId"`
	Action   protocol.ActionKind `json:"action"`
	Seq      int64               `json:"seq"`
	Success  bool                `json:"success"`
	// Code is the failure reason, empty on success
	Code   string               `json:"code,omitempty"`
	Events []protocol.GameEvent `json:"events,omitempty"`
}

//go:generate mockgen -destination=mock/mock_writer.go -package=journalmock github.com/KirkDiggler/treasure-realm/internal/journal Writer

// Writer appends journal entries
type Writer interface {
	Append(entry Entry) error
	Close() error
}

// Nop discards every entry
type Nop struct{}

// Append does nothing
func (Nop) Append(Entry) error { return nil }

// Close does nothing
func (Nop) Close() error { return nil }

// Config holds the settings for a ZstdWriter
type Config struct {
	Dir    string
	Prefix string
	Clock  clock.Clock
}

// Validate ensures all required settings are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("Dir", c.Dir, vb)
	errors.ValidateRequired("Prefix", c.Prefix, vb)
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

// ZstdWriter writes entries to {dir}/{prefix}-{yyyy-mm-dd-hh}.jsonl.zst,
// starting a new file when the UTC hour changes
type ZstdWriter struct {
	dir    string
	prefix string
	clock  clock.Clock

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

// NewZstdWriter creates a writer. Files are opened on the first Append.
func NewZstdWriter(cfg *Config) (*ZstdWriter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &ZstdWriter{
		dir:    cfg.Dir,
		prefix: cfg.Prefix,
		clock:  cfg.Clock,
	}, nil
}

var _ Writer = (*ZstdWriter)(nil)

// Append writes one entry
func (w *ZstdWriter) Append(entry Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := w.clock.Now().UTC().Format(hourLayout)
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "failed to encode journal entry")
	}
	if _, err := w.w.Write(b); err != nil {
		return errors.Wrap(err, "failed to write journal entry")
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return errors.Wrap(err, "failed to write journal entry")
	}
	if err := w.w.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush journal entry")
	}
	// push the pending block to disk so an open hour can be read back
	if err := w.enc.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush journal entry")
	}
	return nil
}

// Close flushes and closes the current file
func (w *ZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// PathForHour returns the file that holds entries written during hour
func (w *ZstdWriter) PathForHour(hour time.Time) string {
	return w.pathFor(hour.UTC().Format(hourLayout))
}

func (w *ZstdWriter) pathFor(hour string) string {
	return filepath.Join(w.dir, fmt.Sprintf("%s-%s%s", w.prefix, hour, fileSuffix))
}

func (w *ZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create journal directory")
	}
	f, err := os.OpenFile(w.pathFor(hour), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "failed to open journal file")
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to create zstd encoder")
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *ZstdWriter) closeLocked() error {
	var err error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	w.curHour = ""
	return err
}

// Read decodes every entry from a compressed journal stream
func Read(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create zstd decoder")
	}
	defer dec.Close()

	var entries []Entry
	scanner := bufio.NewScanner(dec)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed journal line")
		}
		entries = append(entries, entry)
	}
	// the current hour's file has no closing frame until the writer rotates
	if err := scanner.Err(); err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, errors.Wrap(err, "failed to read journal")
	}
	return entries, nil
}

// ReadFile decodes every entry in one journal file
func ReadFile(path string) ([]Entry, error) {
	f, err := os.Open(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, errors.Wrap(err, "failed to open journal file")
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}
