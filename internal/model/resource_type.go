package model

import "time"

// ResourceType groups bookable resources of the same kind, for example
// "Meeting rooms" or "Lab equipment".  Only published types appear in
// the filter board.  This struct corresponds to a row in the
// `resource_types` table.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – display name of the type.
//  Published – whether the type is selectable by members.
//  CreatedAt – timestamp when the type was created.
type ResourceType struct {
	ID        uint64    // resource_types.id
	Title     string    // resource_types.title
	Published bool      // resource_types.published
	CreatedAt time.Time // resource_types.created_at
}
