// Package backup implements the primary submission store: a single JSON array
// file that is the source of truth for every accepted submission.
//
// Reads never fail. A missing, unreadable, or malformed file reads as an empty
// list so that a damaged backup cannot break the submit or list endpoints.
//
// Writes are read-modify-write of the whole array. Existing elements are
// carried over untouched, whatever their shape. Writes are serialized by an
// in-process mutex and an advisory lock on "<path>.lock" (gofrs/flock), so
// concurrent requests and sibling processes cannot drop each other's appends.
// The new array is written to a temp file in the same directory and renamed
// over the old one.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-contact-backend/internal/domain"
)

// lockRetryDelay is how often a blocked writer re-tries the file lock.
const lockRetryDelay = 10 * time.Millisecond

// Store is the file-backed append log. It is safe for concurrent use.
type Store struct {
	path string

	mu   sync.Mutex
	lock *flock.Flock
}

// New returns a Store backed by the JSON file at path. Call Init before serving.
func New(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Init ensures the parent directory and an empty-array file exist.
// An existing file is left untouched.
func (s *Store) Init() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("backup: create dir: %w", err)
		}
	}
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		if err := os.WriteFile(s.path, []byte("[]"), 0o644); err != nil {
			return fmt.Errorf("backup: create file: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("backup: stat file: %w", err)
	}
}

// ReadAll returns every stored submission in insertion order. It always
// returns a non-nil slice and never an error. Entries that are not JSON
// objects are skipped; values of unexpected type are kept as their JSON text.
func (s *Store) ReadAll() []domain.Submission {
	elems, err := s.read()
	if err != nil {
		log.Warn().Err(err).Str("file", s.path).Msg("backup unreadable, treating as empty")
		return []domain.Submission{}
	}
	out := make([]domain.Submission, 0, len(elems))
	for i, el := range elems {
		sub, err := domain.DecodeSubmission(el)
		if err != nil {
			log.Debug().Err(err).Str("file", s.path).Int("index", i).Msg("skipping backup entry")
			continue
		}
		out = append(out, sub)
	}
	return out
}

// Count returns the number of stored submissions.
func (s *Store) Count() int { return len(s.ReadAll()) }

// Append adds sub to the end of the stored array and rewrites the file.
// Existing entries are carried over as stored, including keys and values the
// Submission type does not model. Only a file that is not a JSON array is
// replaced by a fresh one. Any failure is returned; the file is either fully
// replaced or unchanged.
func (s *Store) Append(ctx context.Context, sub domain.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("backup: lock: %w", err)
	}
	if !locked {
		return errors.New("backup: lock not acquired")
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			log.Error().Err(err).Str("file", s.path).Msg("backup unlock failed")
		}
	}()

	elems, err := s.read()
	if err != nil {
		log.Warn().Err(err).Str("file", s.path).Msg("backup unreadable, starting a new array")
		elems = nil
	}
	rec, err := encodeRecord(sub)
	if err != nil {
		return fmt.Errorf("backup: encode: %w", err)
	}
	return s.writeAll(append(elems, rec))
}

// encodeRecord marshals sub without HTML escaping, matching writeAll.
func encodeRecord(sub domain.Submission) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(sub); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

// read loads the array elements from disk. A missing or empty file is an
// empty array; anything that is not a JSON array is an error.
func (s *Store) read() ([]json.RawMessage, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, err
	}
	return elems, nil
}

// writeAll serializes elems as one array with two-space indentation and
// atomically replaces the backing file.
func (s *Store) writeAll(elems []json.RawMessage) error {
	if elems == nil {
		elems = []json.RawMessage{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(elems); err != nil {
		return fmt.Errorf("backup: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("backup: temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("backup: write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("backup: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("backup: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("backup: chmod: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return fmt.Errorf("backup: replace: %w", err)
	}
	return nil
}
