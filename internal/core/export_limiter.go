package core

// export_limiter.go bounds how many workbook exports are built at once.
//
// A workbook is assembled in memory before it is sent, so parallel exports
// of a large table multiply memory use. Callers that cannot get a slot
// within maxWait fail with ErrExportBusy.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrExportBusy is returned when every export slot stays taken for the whole wait.
var ErrExportBusy = errors.New("export busy: too many concurrent exports")

const (
	// DefaultMaxConcurrentExports is used when the configured limit is not positive.
	DefaultMaxConcurrentExports = 2

	// DefaultExportWait is used when the configured wait is not positive.
	DefaultExportWait = 10 * time.Second
)

// ExportLimiter is a counting semaphore for export work.
type ExportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// ExportStatus is a snapshot of limiter usage.
type ExportStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// NewExportLimiter allows at most maxConcurrent exports, each waiting up to
// maxWait for a slot.
func NewExportLimiter(maxConcurrent int, maxWait time.Duration) *ExportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentExports
	}
	if maxWait <= 0 {
		maxWait = DefaultExportWait
	}
	return &ExportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. It returns ctx's error if ctx ends first and
// ErrExportBusy if the wait runs out. A nil return must be paired with Release.
func (l *ExportLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrExportBusy
	}
}

// Release returns a slot taken by Acquire.
func (l *ExportLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

// Status reports current usage for health checks.
func (l *ExportLimiter) Status() ExportStatus {
	return ExportStatus{
		Active:        int(l.active.Load()),
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}
