package booking

import (
	"context"
	"time"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// Status classifies the availability of one concrete interval on a
// resource for a specific requester.
type Status int

const (
	// StatusFree: no booking occupies the interval.
	StatusFree Status = iota
	// StatusBookedBySelf: the requester holds the interval; always
	// cancel-eligible.
	StatusBookedBySelf
	// StatusBookedByOther: another member holds the interval; never
	// editable by the requester.
	StatusBookedByOther
)

// String returns the wire identifier of the status.
func (s Status) String() string {
	switch s {
	case StatusFree:
		return "free"
	case StatusBookedBySelf:
		return "bookedBySelf"
	case StatusBookedByOther:
		return "bookedByOther"
	}
	return "unknown"
}

// Classification is the result of an availability check for one
// interval.  Booking and the holder fields are populated only when the
// interval is taken.  Holder carries the redacted "F. Lastname" label
// safe to show to any member; HolderFull is the full name, exposed only
// to the booking's owner.
type Classification struct {
	Status     Status
	Booking    *model.Booking
	Holder     string
	HolderFull string
}

// Editable reports whether the requester may act on the interval: free
// or self-held intervals are editable, foreign bookings never are.
func (cl Classification) Editable() bool {
	return cl.Status != StatusBookedByOther
}

// Checker answers availability questions against the booking store.
// Matching is exact-interval, not overlap based: templates are assumed
// to partition time, so an exact match is equivalent to conflict
// detection for in-grid queries.
type Checker struct {
	bookings BookingStore
	members  MemberStore
}

// NewChecker builds a Checker over the given stores.
func NewChecker(bookings BookingStore, members MemberStore) *Checker {
	return &Checker{bookings: bookings, members: members}
}

// Classify looks up the exact (resource, start, end) interval and
// reports whether it is free, held by the requester or held by someone
// else.
func (ch *Checker) Classify(ctx context.Context, resourceID uint64, start, end time.Time, requesterID uint64) (Classification, error) {
	b, err := ch.bookings.FindByExactInterval(ctx, resourceID, start, end)
	if err != nil {
		return Classification{}, err
	}
	if b == nil {
		return Classification{Status: StatusFree}, nil
	}
	cl := Classification{Booking: b}
	if b.MemberID == requesterID {
		cl.Status = StatusBookedBySelf
	} else {
		cl.Status = StatusBookedByOther
	}
	m, err := ch.members.FindByID(ctx, b.MemberID)
	if err != nil {
		return Classification{}, err
	}
	if m != nil {
		cl.Holder = m.RedactedName()
		cl.HolderFull = m.FullName()
	}
	return cl, nil
}
