package core

// history.go keeps a bounded, in-memory log of table mutations.
//
// Each entry carries a severity:
//
//   - Low: reloads from disk
//   - Medium: single row appends and updates
//   - High: row deletions
//
// The log is informational only. It is not persisted and cannot be replayed.

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// HistoryAction represents the type of mutation being recorded.
type HistoryAction string

const (
	ActionAppend         HistoryAction = "append"
	ActionUpdate         HistoryAction = "update"
	ActionDelete         HistoryAction = "delete"
	ActionReload         HistoryAction = "reload"
	ActionExternalReload HistoryAction = "external_reload"
)

// Severity represents how destructive a recorded mutation was.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// DefaultHistorySize is the capacity used when NewHistory gets a non-positive size.
const DefaultHistorySize = 200

// HistoryEntry is a single recorded mutation.
type HistoryEntry struct {
	ID           string        `json:"id"`
	Action       HistoryAction `json:"action"`
	Severity     Severity      `json:"severity"`
	Positions    []int         `json:"positions,omitempty"`
	Record       Record        `json:"record,omitempty"`
	Previous     []Record      `json:"previous,omitempty"`
	RowsAffected int           `json:"rowsAffected"`
	Reason       string        `json:"reason,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// HistoryParams contains parameters for recording a mutation.
type HistoryParams struct {
	Action       HistoryAction
	Positions    []int
	Record       Record
	Previous     []Record
	RowsAffected int
	Reason       string
}

// History is a fixed-capacity ring of recent mutations, safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries []HistoryEntry
	next    int
	full    bool
	now     func() time.Time
}

// NewHistory creates a history that retains at most size entries.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		entries: make([]HistoryEntry, size),
		now:     time.Now,
	}
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action HistoryAction) Severity {
	switch action {
	case ActionDelete:
		return SeverityHigh
	case ActionReload, ActionExternalReload:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// Record stores a new entry, evicting the oldest one when full.
func (h *History) Record(params HistoryParams) HistoryEntry {
	entry := HistoryEntry{
		ID:           uuid.New().String(),
		Action:       params.Action,
		Severity:     determineSeverity(params.Action),
		Positions:    slices.Clone(params.Positions),
		Record:       params.Record.Clone(),
		RowsAffected: params.RowsAffected,
		Reason:       params.Reason,
	}
	for _, prev := range params.Previous {
		entry.Previous = append(entry.Previous, prev.Clone())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry.CreatedAt = h.now()
	h.entries[h.next] = entry
	h.next = (h.next + 1) % len(h.entries)
	if h.next == 0 {
		h.full = true
	}
	return entry
}

// Recent returns up to limit entries, newest first. A non-positive limit returns all.
func (h *History) Recent(limit int) []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	count := h.next
	if h.full {
		count = len(h.entries)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]HistoryEntry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (h.next - i + len(h.entries)) % len(h.entries)
		out = append(out, h.entries[idx])
	}
	return out
}

// Len returns the number of retained entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.full {
		return len(h.entries)
	}
	return h.next
}
