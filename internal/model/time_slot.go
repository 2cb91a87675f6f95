package model

import (
	"fmt"
	"time"
)

// TimeSlotType is an ordered set of time slot templates, for example
// "Full hours 08:00-18:00".  Resources reference a TimeSlotType to
// define their weekly grid.  This struct corresponds to a row in the
// `time_slot_types` table.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – display name of the template set.
//  CreatedAt – timestamp when the set was created.
type TimeSlotType struct {
	ID        uint64    // time_slot_types.id
	Title     string    // time_slot_types.title
	CreatedAt time.Time // time_slot_types.created_at
}

// TimeSlot is a weekday-agnostic booking window template measured as
// second offsets from local midnight.  It is projected onto each of the
// seven weekdays of a week to produce concrete occurrences.  This
// struct corresponds to a row in the `time_slots` table.
//
// Fields:
//  ID             – primary key identifier.
//  TimeSlotTypeID – owning template set.
//  Title          – optional display label.
//  StartOffsetSec – slot start, seconds after midnight.
//  EndOffsetSec   – slot end, seconds after midnight.
//  Sorting        – position within the template set.
//  Published      – whether the template produces occurrences.
type TimeSlot struct {
	ID             uint64 // time_slots.id
	TimeSlotTypeID uint64 // time_slots.time_slot_type_id
	Title          string // time_slots.title
	StartOffsetSec int64  // time_slots.start_offset_sec
	EndOffsetSec   int64  // time_slots.end_offset_sec
	Sorting        int    // time_slots.sorting
	Published      bool   // time_slots.published
}

// StartString renders the start offset as an HH:MM clock string.
func (t TimeSlot) StartString() string { return offsetString(t.StartOffsetSec) }

// EndString renders the end offset as an HH:MM clock string.
func (t TimeSlot) EndString() string { return offsetString(t.EndOffsetSec) }

// SpanString renders "HH:MM - HH:MM" for display in the slot legend.
func (t TimeSlot) SpanString() string { return t.StartString() + " - " + t.EndString() }

func offsetString(sec int64) string {
	d := time.Duration(sec) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}
