package booking

import (
	"context"
	"testing"
	"time"
)

func TestExpandWeekYieldsEveryCell(t *testing.T) {
	s := newFixture()
	exp := NewExpander(s.slotStore(), nil, fixedClock)
	resource, _ := s.FindPublished(context.Background(), resLab)

	coll, err := exp.ExpandWeek(context.Background(), resource, testMonday)
	if err != nil {
		t.Fatalf("ExpandWeek: %v", err)
	}
	if got, want := coll.Len(), 2*7; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	occs := coll.All()
	if len(occs) != 14 {
		t.Fatalf("All() yielded %d occurrences, want 14", len(occs))
	}

	// Grouped by template order, weekday ascending within a group.
	for i, occ := range occs {
		wantSlot := slotMorning
		if i >= 7 {
			wantSlot = slotNoon
		}
		if occ.TimeSlotID != wantSlot {
			t.Errorf("occ[%d].TimeSlotID = %d, want %d", i, occ.TimeSlotID, wantSlot)
		}
		if got, want := occ.Weekday, i%7; got != want {
			t.Errorf("occ[%d].Weekday = %d, want %d", i, got, want)
		}
	}

	// Slot keys must be pairwise distinct.
	seen := make(map[string]bool)
	for _, occ := range occs {
		key := occ.SlotKey()
		if seen[key] {
			t.Errorf("duplicate slot key %q", key)
		}
		seen[key] = true
	}

	// First cell: Monday 08:00-09:00.
	first := occs[0]
	if !first.Start.Equal(testMonday.Add(8 * time.Hour)) {
		t.Errorf("first.Start = %v, want %v", first.Start, testMonday.Add(8*time.Hour))
	}
	if !first.End.Equal(testMonday.Add(9 * time.Hour)) {
		t.Errorf("first.End = %v, want %v", first.End, testMonday.Add(9*time.Hour))
	}
	if first.IsPast {
		t.Error("current week must not be flagged past")
	}
}

func TestExpandWeekHiddenWeekdays(t *testing.T) {
	s := newFixture()
	// Hide Saturday and Sunday; out-of-range entries are ignored.
	exp := NewExpander(s.slotStore(), []int{5, 6, 9}, fixedClock)
	resource, _ := s.FindPublished(context.Background(), resLab)

	coll, err := exp.ExpandWeek(context.Background(), resource, testMonday)
	if err != nil {
		t.Fatalf("ExpandWeek: %v", err)
	}
	if got, want := coll.Len(), 2*5; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	for _, occ := range coll.All() {
		if occ.Weekday >= 5 {
			t.Errorf("hidden weekday %d produced an occurrence", occ.Weekday)
		}
	}
	if got := exp.VisibleWeekdays(); len(got) != 5 || got[0] != 0 || got[4] != 4 {
		t.Errorf("VisibleWeekdays() = %v, want [0 1 2 3 4]", got)
	}
}

func TestExpandWeekPastFlag(t *testing.T) {
	s := newFixture()
	exp := NewExpander(s.slotStore(), nil, fixedClock)
	resource, _ := s.FindPublished(context.Background(), resLab)

	lastWeek := AddWeeks(testMonday, -1)
	coll, err := exp.ExpandWeek(context.Background(), resource, lastWeek)
	if err != nil {
		t.Fatalf("ExpandWeek: %v", err)
	}
	for _, occ := range coll.All() {
		if !occ.IsPast {
			t.Fatalf("occurrence %s in a past week not flagged IsPast", occ.SlotKey())
		}
	}
}

func TestSlotCollectionResetReplays(t *testing.T) {
	s := newFixture()
	exp := NewExpander(s.slotStore(), nil, fixedClock)
	resource, _ := s.FindPublished(context.Background(), resLab)

	coll, err := exp.ExpandWeek(context.Background(), resource, testMonday)
	if err != nil {
		t.Fatalf("ExpandWeek: %v", err)
	}
	first, ok := coll.Next()
	if !ok {
		t.Fatal("Next() on fresh collection returned no occurrence")
	}
	// Drain the rest, then rewind.
	for {
		if _, ok := coll.Next(); !ok {
			break
		}
	}
	coll.Reset()
	replay, ok := coll.Next()
	if !ok {
		t.Fatal("Next() after Reset returned no occurrence")
	}
	if replay.SlotKey() != first.SlotKey() {
		t.Errorf("replay yielded %q, want %q", replay.SlotKey(), first.SlotKey())
	}
}
