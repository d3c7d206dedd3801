package core

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// DefaultDatasetPath is the backing file used when none is configured.
const DefaultDatasetPath = "./data/dataset.csv"

// Store owns the in-memory quiz-answer table and its backing file.
//
// Every mutation is applied in memory and then the whole table is rewritten
// to disk. Row positions always refer to the current display order, which
// SortBy may change. Store is safe for concurrent use; each public call is
// atomic with respect to the others.
type Store struct {
	path    string
	logger  *slog.Logger
	history *History

	mu    sync.RWMutex
	table *Table
	order *SortOrder
	// digest of the file content last read or written by the store.
	digest [sha256.Size]byte
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load fallbacks and mutations.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithHistory records every mutation into h.
func WithHistory(h *History) Option {
	return func(s *Store) { s.history = h }
}

// NewStore creates a store backed by path with an empty canonical table.
// Call Load to read the file.
func NewStore(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultDatasetPath
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	s := &Store{
		path:   path,
		logger: slog.Default(),
		table:  NewTable(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the absolute path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the backing file into memory and returns a snapshot.
//
// Load always succeeds in producing a table. When the file is absent it
// returns an empty canonical table together with ErrMissingFile; when the
// file cannot be read or parsed it returns the same empty table together
// with a *ReadError. In both cases the store has already switched to the
// empty table and the error is only a warning for the caller to surface.
func (s *Store) Load() (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, data, err := s.readFile()
	if err != nil {
		s.table = NewTable(nil)
		s.order = nil
		s.digest = [sha256.Size]byte{}
		if errors.Is(err, ErrMissingFile) {
			s.logger.Warn("dataset file not found, using empty table", "path", s.path)
		} else {
			s.logger.Error("failed to read dataset, using empty table", "path", s.path, "error", err)
		}
		return s.table.Clone(), err
	}

	s.table = table
	s.order = nil
	s.digest = sha256.Sum256(data)
	s.logger.Info("dataset loaded", "path", s.path, "rows", table.Len())
	return s.table.Clone(), nil
}

// Reload is Load on behalf of a user request; it is recorded in history.
func (s *Store) Reload() (*Table, error) {
	table, err := s.Load()
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	s.record(HistoryParams{
		Action:       ActionReload,
		RowsAffected: table.Len(),
		Reason:       reason,
	})
	return table, err
}

// Refresh reloads the file only if its content differs from what the store
// last read or wrote. Unlike Load, a missing or unreadable file leaves the
// in-memory table untouched. It reports whether the table was replaced.
func (s *Store) Refresh() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, data, err := s.readFile()
	if err != nil {
		return false, err
	}
	sum := sha256.Sum256(data)
	if sum == s.digest {
		return false, nil
	}

	s.table = table
	s.order = nil
	s.digest = sum
	s.record(HistoryParams{
		Action:       ActionExternalReload,
		RowsAffected: table.Len(),
		Reason:       "dataset file changed on disk",
	})
	s.logger.Info("dataset reloaded after external change", "path", s.path, "rows", table.Len())
	return true, nil
}

// readFile reads and parses the backing file. Caller holds s.mu.
func (s *Store) readFile() (*Table, []byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, ErrMissingFile
		}
		return nil, nil, &ReadError{Path: s.path, Err: err}
	}

	table, err := ReadTable(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &ReadError{Path: s.path, Err: err}
	}
	return table, data, nil
}

// Save rewrites the backing file with the full in-memory table.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes s.table to disk. Caller holds s.mu.
func (s *Store) save() error {
	data, err := EncodeTable(s.table)
	if err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &WriteError{Path: s.path, Err: err}
	}
	s.digest = sha256.Sum256(data)
	return nil
}

// Append adds rec at the end of the table and saves.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkShape(rec); err != nil {
		return err
	}

	s.table.Rows = append(s.table.Rows, rec.Clone())
	if err := s.commit(HistoryParams{
		Action:       ActionAppend,
		Positions:    []int{len(s.table.Rows) - 1},
		Record:       rec,
		RowsAffected: 1,
	}); err != nil {
		return err
	}
	s.logger.Info("record appended", "path", s.path, "rows", len(s.table.Rows))
	return nil
}

// DeleteAt removes the rows at the given positions and saves.
// Repeated positions are removed once. If any position is out of range
// nothing is removed and an *IndexError is returned.
func (s *Store) DeleteAt(positions []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[int]bool, len(positions))
	for _, pos := range positions {
		if err := s.checkPosition(pos); err != nil {
			return err
		}
		drop[pos] = true
	}

	removed := make([]Record, 0, len(drop))
	kept := make([]Record, 0, len(s.table.Rows)-len(drop))
	for i, row := range s.table.Rows {
		if drop[i] {
			removed = append(removed, row)
			continue
		}
		kept = append(kept, row)
	}
	s.table.Rows = kept

	sorted := make([]int, 0, len(drop))
	for pos := range drop {
		sorted = append(sorted, pos)
	}
	slices.Sort(sorted)

	if err := s.commit(HistoryParams{
		Action:       ActionDelete,
		Positions:    sorted,
		Previous:     removed,
		RowsAffected: len(removed),
	}); err != nil {
		return err
	}
	s.logger.Info("records deleted", "path", s.path, "deleted", len(removed), "rows", len(kept))
	return nil
}

// UpdateAt replaces the row at pos with rec and saves.
func (s *Store) UpdateAt(pos int, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkShape(rec); err != nil {
		return err
	}
	if err := s.checkPosition(pos); err != nil {
		return err
	}

	previous := s.table.Rows[pos]
	s.table.Rows[pos] = rec.Clone()
	if err := s.commit(HistoryParams{
		Action:       ActionUpdate,
		Positions:    []int{pos},
		Record:       rec,
		Previous:     []Record{previous},
		RowsAffected: 1,
	}); err != nil {
		return err
	}
	s.logger.Info("record updated", "path", s.path, "position", pos)
	return nil
}

// Snapshot returns a deep copy of the current table in display order.
func (s *Store) Snapshot() *Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// Columns returns the header of the current table.
func (s *Store) Columns() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.table.Columns)
}

// Len returns the number of rows in the current table.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.table.Rows)
}

// Row returns a copy of the row at pos.
func (s *Store) Row(pos int) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkPosition(pos); err != nil {
		return nil, err
	}
	return s.table.Rows[pos].Clone(), nil
}

func (s *Store) checkShape(rec Record) error {
	if want := len(s.table.Columns); len(rec) != want {
		return &ShapeError{Want: want, Got: len(rec)}
	}
	return nil
}

func (s *Store) checkPosition(pos int) error {
	if pos < 0 || pos >= len(s.table.Rows) {
		return &IndexError{Position: pos, Len: len(s.table.Rows)}
	}
	return nil
}

// commit saves an in-memory mutation and records it. A failed save is
// still recorded, with the write error as the reason, since the table in
// memory has already changed. Caller holds s.mu.
func (s *Store) commit(params HistoryParams) error {
	err := s.save()
	if err != nil {
		params.Reason = "not saved: " + err.Error()
		s.logger.Error("dataset not saved", "path", s.path, "action", params.Action, "error", err)
	}
	s.record(params)
	return err
}

func (s *Store) record(params HistoryParams) {
	if s.history != nil {
		s.history.Record(params)
	}
}

// String identifies the store in logs.
func (s *Store) String() string {
	return fmt.Sprintf("Store{path: %q}", s.path)
}
