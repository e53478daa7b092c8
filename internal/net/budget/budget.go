// Package budget tracks daily quota unit consumption against the video
// metadata provider. The provider bills search requests far more heavily
// than plain lookups, so consumption is counted in units rather than calls.
package budget

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrBudgetExhausted is returned when the daily quota is exceeded.
var ErrBudgetExhausted = errors.New("daily quota budget exhausted")

// ExhaustedError carries detail about quota exhaustion.
type ExhaustedError struct {
	Used    int64
	Limit   int64
	ResetAt time.Time
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("quota exhausted: %d/%d units used, resets at %s",
		e.Used, e.Limit, e.ResetAt.Format("15:04 UTC"))
}

func (e *ExhaustedError) Unwrap() error {
	return ErrBudgetExhausted
}

// Tracker tracks daily quota unit usage.
type Tracker struct {
	mu        sync.Mutex
	limit     int64
	used      int64
	resetHour int // UTC hour at which the provider resets quota
	lastReset time.Time
	now       func() time.Time
}

// NewTracker creates a tracker with the given daily unit limit. A limit of
// zero disables budget enforcement.
func NewTracker(limit int64, resetHour int) *Tracker {
	if resetHour < 0 || resetHour > 23 {
		resetHour = 0
	}

	t := &Tracker{
		limit:     limit,
		resetHour: resetHour,
		now:       time.Now,
	}
	t.lastReset = lastResetTime(t.now().UTC(), resetHour)
	return t
}

// WithClock overrides the wall clock for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	t.lastReset = lastResetTime(now().UTC(), t.resetHour)
	return t
}

func lastResetTime(now time.Time, resetHour int) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, time.UTC)
	if now.Hour() >= resetHour {
		return today
	}
	return today.AddDate(0, 0, -1)
}

func (t *Tracker) resetIfDue() {
	now := t.now().UTC()
	if now.After(t.lastReset.Add(24 * time.Hour)) {
		t.lastReset = lastResetTime(now, t.resetHour)
		t.used = 0
	}
}

// Consume charges units against the budget, failing when the charge would
// exceed the daily limit.
func (t *Tracker) Consume(units int64) error {
	if t.limit <= 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfDue()

	if t.used+units > t.limit {
		return &ExhaustedError{
			Used:    t.used,
			Limit:   t.limit,
			ResetAt: t.lastReset.Add(24 * time.Hour),
		}
	}

	t.used += units
	return nil
}

// Used returns the units consumed in the current window.
func (t *Tracker) Used() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfDue()
	return t.used
}

// Remaining returns the units left in the current window, or -1 when
// enforcement is disabled.
func (t *Tracker) Remaining() int64 {
	if t.limit <= 0 {
		return -1
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.resetIfDue()
	return t.limit - t.used
}
