package model

import "time"

// Resource is a single bookable unit (a room, a projector, a court).
// Each resource belongs to one ResourceType and references the
// TimeSlotType whose templates define its weekly grid.  This struct
// corresponds to a row in the `resources` table.
//
// Fields:
//  ID             – primary key identifier.
//  ResourceTypeID – owning resource type.
//  Title          – display name of the resource.
//  TimeSlotTypeID – time slot template set projected onto each week.
//  Published      – whether the resource is selectable by members.
//  CreatedAt      – timestamp when the resource was created.
type Resource struct {
	ID             uint64    // resources.id
	ResourceTypeID uint64    // resources.resource_type_id
	Title          string    // resources.title
	TimeSlotTypeID uint64    // resources.time_slot_type_id
	Published      bool      // resources.published
	CreatedAt      time.Time // resources.created_at
}
