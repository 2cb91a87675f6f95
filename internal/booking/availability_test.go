package booking

import (
	"context"
	"testing"
	"time"

	"github.com/weekbook/resource-booking-api/internal/model"
)

func TestClassify(t *testing.T) {
	s := newFixture()
	checker := NewChecker(s, s.memberStore())

	start := testMonday.Add(8 * time.Hour)
	end := testMonday.Add(9 * time.Hour)
	s.bookings = append(s.bookings, model.Booking{
		ID: 1, ResourceID: resLab, TimeSlotID: slotMorning, MemberID: memberBob,
		StartTime: start, EndTime: end, ChainID: "c1",
	})

	t.Run("free interval", func(t *testing.T) {
		cl, err := checker.Classify(context.Background(), resLab, start.Add(24*time.Hour), end.Add(24*time.Hour), memberAnna)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if cl.Status != StatusFree {
			t.Errorf("Status = %v, want free", cl.Status)
		}
		if !cl.Editable() {
			t.Error("free interval must be editable")
		}
	})

	t.Run("booked by other", func(t *testing.T) {
		cl, err := checker.Classify(context.Background(), resLab, start, end, memberAnna)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if cl.Status != StatusBookedByOther {
			t.Errorf("Status = %v, want bookedByOther", cl.Status)
		}
		if cl.Editable() {
			t.Error("foreign booking must never be editable")
		}
		if cl.Holder != "B. Jones" {
			t.Errorf("Holder = %q, want redacted %q", cl.Holder, "B. Jones")
		}
		if cl.HolderFull != "Bob Jones" {
			t.Errorf("HolderFull = %q, want %q", cl.HolderFull, "Bob Jones")
		}
	})

	t.Run("booked by self", func(t *testing.T) {
		cl, err := checker.Classify(context.Background(), resLab, start, end, memberBob)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if cl.Status != StatusBookedBySelf {
			t.Errorf("Status = %v, want bookedBySelf", cl.Status)
		}
		if !cl.Editable() {
			t.Error("own booking must be editable")
		}
		if cl.Booking == nil || cl.Booking.ID != 1 {
			t.Error("Booking not populated for taken interval")
		}
	})

	t.Run("exact match only", func(t *testing.T) {
		// A half-overlapping interval is not an exact match and reads free.
		cl, err := checker.Classify(context.Background(), resLab, start.Add(30*time.Minute), end.Add(30*time.Minute), memberAnna)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if cl.Status != StatusFree {
			t.Errorf("Status = %v, want free for non-exact interval", cl.Status)
		}
	})
}

func TestRedactedName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Anna", "Smith", "A. Smith"},
		{"", "Smith", "Smith"},
		{"Anna", "", "A."},
	}
	for _, tc := range cases {
		m := model.Member{FirstName: tc.first, LastName: tc.last}
		if got := m.RedactedName(); got != tc.want {
			t.Errorf("RedactedName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}
