package core

// scan_limiter.go bounds how many image scans run at once.
//
// Recognition is the expensive step: a vision model call can take tens of
// seconds and hold a large image in memory. Callers wait up to maxWait for
// a slot and then fail with ErrTooManyScans. WaitForDrain lets shutdown
// wait for in-flight scans.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrTooManyScans is returned when no scan slot frees up within the wait time.
var ErrTooManyScans = errors.New("too many concurrent scans, please try again later")

const (
	DefaultMaxConcurrentScans = 2
	DefaultMaxWaitTime        = 30 * time.Second
)

// ScanLimiter is a counting semaphore for scan processing.
type ScanLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
	active  atomic.Int64
}

// NewScanLimiter allows at most maxConcurrent simultaneous scans.
// Non-positive arguments fall back to the defaults.
func NewScanLimiter(maxConcurrent int, maxWait time.Duration) *ScanLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentScans
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &ScanLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire blocks until a slot is free, ctx is done, or maxWait elapses.
// The caller must call Release after a nil return.
func (l *ScanLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyScans
	}
}

// TryAcquire takes a slot without blocking.
func (l *ScanLimiter) TryAcquire() bool {
	select {
	case l.slots <- struct{}{}:
		l.active.Add(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (l *ScanLimiter) Release() {
	l.active.Add(-1)
	<-l.slots
}

func (l *ScanLimiter) ActiveCount() int {
	return int(l.active.Load())
}

func (l *ScanLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no scan is active or ctx is done.
func (l *ScanLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for l.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// ScanLimiterStatus is a snapshot for the health endpoint.
type ScanLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"max_concurrent"`
}

func (l *ScanLimiter) Status() ScanLimiterStatus {
	return ScanLimiterStatus{
		Active:        l.ActiveCount(),
		Available:     l.Available(),
		MaxConcurrent: cap(l.slots),
	}
}
