package core

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestDetermineSeverity(t *testing.T) {
	tests := []struct {
		action HistoryAction
		want   Severity
	}{
		{ActionAppend, SeverityMedium},
		{ActionUpdate, SeverityMedium},
		{ActionDelete, SeverityHigh},
		{ActionReload, SeverityLow},
		{ActionExternalReload, SeverityLow},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			if got := determineSeverity(tt.action); got != tt.want {
				t.Errorf("determineSeverity(%q) = %q, want %q", tt.action, got, tt.want)
			}
		})
	}
}

func TestHistoryRecord(t *testing.T) {
	h := NewHistory(5)
	fixed := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return fixed }

	rec := Record{"1", "VN"}
	entry := h.Record(HistoryParams{
		Action:       ActionAppend,
		Positions:    []int{0},
		Record:       rec,
		RowsAffected: 1,
	})

	if _, err := uuid.Parse(entry.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", entry.ID, err)
	}
	if !entry.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", entry.CreatedAt, fixed)
	}
	if entry.Severity != SeverityMedium {
		t.Errorf("Severity = %q, want medium", entry.Severity)
	}

	rec[0] = "changed"
	if h.Recent(1)[0].Record[0] != "1" {
		t.Error("entry shares memory with caller's record")
	}
}

func TestHistoryRecentWrapsAround(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Record(HistoryParams{Action: ActionUpdate, Positions: []int{i}})
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	got := h.Recent(0)
	want := []int{4, 3, 2}
	for i, e := range got {
		if e.Positions[0] != want[i] {
			t.Errorf("entry %d position = %d, want %d", i, e.Positions[0], want[i])
		}
	}

	if got := h.Recent(2); len(got) != 2 || got[0].Positions[0] != 4 {
		t.Errorf("Recent(2) = %+v", got)
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory(0)
	if got := h.Recent(10); len(got) != 0 {
		t.Errorf("Recent() on empty history = %v", got)
	}
	if len(h.entries) != DefaultHistorySize {
		t.Errorf("capacity = %d, want %d", len(h.entries), DefaultHistorySize)
	}
}
