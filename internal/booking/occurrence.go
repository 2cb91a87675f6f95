// Package booking implements the availability and booking engine: it
// expands per-weekday time slot templates into concrete weekly
// occurrences, classifies their availability for a requesting member,
// expands a booking request into a repeat chain bounded by a stop week
// and commits or cancels bookings conflict-free against concurrent
// requests.  The engine is storage-agnostic and talks to the database
// through the narrow store interfaces in stores.go.
package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Occurrence is a concrete, week-specific instantiation of a time slot
// template: one cell of the weekly grid.  Occurrences are derived on the
// fly and never persisted.
type Occurrence struct {
	ResourceID uint64    `json:"resource_id"`
	TimeSlotID uint64    `json:"time_slot_id"`
	Weekday    int       `json:"weekday"` // 0 = Monday ... 6 = Sunday
	Start      time.Time `json:"-"`
	End        time.Time `json:"-"`
	WeekStart  time.Time `json:"-"` // Monday 00:00 UTC of the owning week
	IsPast     bool      `json:"is_past"`
}

// SlotKey returns the deterministic selection token for this occurrence.
// The literal wire format "<timeSlotID>-<start>-<end>-<weekMonday>" (unix
// seconds, dash-joined) is a compatibility contract with existing clients
// and must not change.
func (o Occurrence) SlotKey() string {
	return fmt.Sprintf("%d-%d-%d-%d", o.TimeSlotID, o.Start.Unix(), o.End.Unix(), o.WeekStart.Unix())
}

// SlotKey is the decoded form of a client-submitted selection token.
type SlotKey struct {
	TimeSlotID uint64
	Start      time.Time
	End        time.Time
	WeekStart  time.Time
}

// ParseSlotKey decodes a selection token.  All four dash-separated
// fields must be integers; anything else is a malformed key.
func ParseSlotKey(s string) (SlotKey, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return SlotKey{}, fmt.Errorf("slot key %q: want 4 fields, got %d", s, len(parts))
	}
	slotID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return SlotKey{}, fmt.Errorf("slot key %q: bad time slot id: %w", s, err)
	}
	nums := make([]int64, 3)
	for i, p := range parts[1:] {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return SlotKey{}, fmt.Errorf("slot key %q: bad timestamp: %w", s, err)
		}
		nums[i] = n
	}
	return SlotKey{
		TimeSlotID: slotID,
		Start:      time.Unix(nums[0], 0).UTC(),
		End:        time.Unix(nums[1], 0).UTC(),
		WeekStart:  time.Unix(nums[2], 0).UTC(),
	}, nil
}

// WeekStartOf returns Monday 00:00:00 UTC of the week containing t.
func WeekStartOf(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	// Go counts Sunday as 0; shift so Monday is 0.
	back := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -back)
}

// IsWeekStart reports whether t is exactly a Monday at 00:00:00 UTC.
func IsWeekStart(t time.Time) bool {
	return !t.IsZero() && t.UTC().Equal(WeekStartOf(t))
}

// AddWeeks shifts t by n whole weeks.
func AddWeeks(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, 7*n)
}

// weekdayIndex maps a time.Weekday onto the grid column, Monday = 0.
func weekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
