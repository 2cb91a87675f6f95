package model

import "time"

// Booking records one member holding one concrete time interval on a
// resource.  Bookings created from a single submission with weekly
// repetition share a ChainID.  The (ResourceID, StartTime, EndTime)
// triple is unique in the store; the constraint is the last line of
// defense against concurrent double booking.  This struct corresponds
// to a row in the `bookings` table.
//
// Fields:
//  ID          – primary key identifier.
//  ResourceID  – booked resource.
//  TimeSlotID  – template the interval was generated from.
//  MemberID    – owner of the booking.
//  StartTime   – concrete start instant (UTC).
//  EndTime     – concrete end instant (UTC).
//  Description – free text entered by the member.
//  ChainID     – uuid shared by all repeats of one submission.
//  CreatedAt   – timestamp when the booking was created.
type Booking struct {
	ID          uint64    // bookings.id
	ResourceID  uint64    // bookings.resource_id
	TimeSlotID  uint64    // bookings.time_slot_id
	MemberID    uint64    // bookings.member_id
	StartTime   time.Time // bookings.start_time
	EndTime     time.Time // bookings.end_time
	Description string    // bookings.description
	ChainID     string    // bookings.chain_id
	CreatedAt   time.Time // bookings.created_at
}

// Weekday returns the booking's start weekday with Monday = 0, matching
// the column index used by the weekly grid.
func (b Booking) Weekday() int {
	return (int(b.StartTime.UTC().Weekday()) + 6) % 7
}
