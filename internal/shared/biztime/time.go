// Package biztime holds the business timezone. Storage and transport stay in
// UTC; the business zone only decides where a calendar day starts and ends.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

// DefaultTimezone is the brokerage's local zone.
const DefaultTimezone = "America/Santiago"

const dateLayout = "2006-01-02"

var (
	bizLocation *time.Location
	mu          sync.RWMutex
)

// Init sets the business timezone. An empty tz selects DefaultTimezone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("failed to load business timezone %q: %w", tz, err)
	}
	mu.Lock()
	bizLocation = loc
	mu.Unlock()
	return nil
}

// Location returns the business timezone, falling back to UTC when the
// zone database is unavailable.
func Location() *time.Location {
	mu.RLock()
	loc := bizLocation
	mu.RUnlock()
	if loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		return time.UTC
	}
	return Location()
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns 00:00 of t's business day, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, Location()).UTC()
}

// EndOfDayUTC returns the last nanosecond of t's business day, in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	b := t.In(Location())
	return time.Date(b.Year(), b.Month(), b.Day(), 23, 59, 59, 999999999, Location()).UTC()
}

// ParseDateStartUTC accepts RFC3339 or a bare YYYY-MM-DD. A bare date means
// the start of that business day.
func ParseDateStartUTC(s string) (time.Time, error) {
	return parseBound(s, StartOfDayUTC)
}

// ParseDateEndUTC accepts RFC3339 or a bare YYYY-MM-DD. A bare date means
// the end of that business day, so a range "from=d&to=d" covers the whole day.
func ParseDateEndUTC(s string) (time.Time, error) {
	return parseBound(s, EndOfDayUTC)
}

func parseBound(s string, bound func(time.Time) time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", s)
	}
	return bound(t), nil
}
