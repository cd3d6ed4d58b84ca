// Package statestore persists the previous run's snapshot as a
// human-readable JSON file. The file's shape is a durable contract across
// process invocations; see domain.Snapshot for the field layout.
package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/vicholz/airmonitor/internal/domain"
)

// Store reads and writes the snapshot state file. The job's process model is
// single-writer; overlapping invocations must be serialized externally.
type Store struct {
	path   string
	clock  clockwork.Clock
	logger *slog.Logger
}

// New creates a Store for the given state file path.
func New(path string, clock clockwork.Clock, logger *slog.Logger) *Store {
	return &Store{path: path, clock: clock, logger: logger}
}

// Load reads the snapshot persisted by the last run. A missing file is the
// first-run case and returns an empty snapshot, which evaluates as not
// alerting. A file that exists but cannot be parsed is an error: corruption
// must surface to the operator, never masquerade as a first run.
func (s *Store) Load() (domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("no previous state file, treating as first run", "path", s.path)
		return domain.Snapshot{}, nil
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read state file %s: %w", s.path, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse state file %s: %w", s.path, err)
	}

	s.logger.Debug("loaded previous state", "path", s.path, "state", string(data))
	return snap, nil
}

// Save writes the snapshot, stamping its timestamp at write time and
// overwriting any prior record. The write goes to a temp file in the same
// directory followed by a rename, so a crash mid-write cannot leave the
// state file unparseable.
func (s *Store) Save(snap domain.Snapshot) error {
	snap.Timestamp = s.clock.Now()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".airmonitor-state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	// CreateTemp files are 0600; the state file should stay operator-readable.
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file %s: %w", s.path, err)
	}

	s.logger.Debug("saved current state", "path", s.path, "state", string(data))
	return nil
}
