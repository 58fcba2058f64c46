// Package clock supplies the reference "now" for date buckets and expiry
// highlighting, with an optional fixed override for demos and tests.
package clock

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ErrInvalidTime is returned when an override string cannot be parsed.
var ErrInvalidTime = errors.New("invalid debug time")

// Clock returns the current instant.
type Clock interface {
	Now() time.Time
}

// debugLayouts are tried in order by ParseDebugTime.
var debugLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDebugTime parses an ISO-like local date-time ("2026-02-14T23:30") in
// loc. Strings carrying an offset (RFC 3339) are accepted as well.
func ParseDebugTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range debugLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}

// Override is a Clock that reports real time in its location unless a fixed
// instant has been set.
type Override struct {
	mu    sync.RWMutex
	loc   *time.Location
	fixed *time.Time
	wall  func() time.Time
}

// New returns an Override reading the system clock in loc.
func New(loc *time.Location) *Override {
	if loc == nil {
		loc = time.Local
	}
	return &Override{loc: loc, wall: time.Now}
}

// Fixed returns an Override pinned to t.
func Fixed(t time.Time) *Override {
	o := New(t.Location())
	o.fixed = &t
	return o
}

// Now returns the override when set, otherwise real time.
func (o *Override) Now() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.fixed != nil {
		return *o.fixed
	}
	return o.wall().In(o.loc)
}

// Set parses s with ParseDebugTime and pins the clock to it. An empty string
// clears the override.
func (o *Override) Set(s string) error {
	if strings.TrimSpace(s) == "" {
		o.Clear()
		return nil
	}
	t, err := ParseDebugTime(s, o.loc)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.fixed = &t
	o.mu.Unlock()
	return nil
}

// Clear reverts to real time.
func (o *Override) Clear() {
	o.mu.Lock()
	o.fixed = nil
	o.mu.Unlock()
}

// Active reports whether a fixed instant is set.
func (o *Override) Active() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.fixed != nil
}

// Location returns the zone Now reports in.
func (o *Override) Location() *time.Location {
	return o.loc
}
