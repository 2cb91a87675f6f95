package model

import "time"

// FilterState holds one browsing session's calendar selection: the
// chosen resource type, resource and active week.  It is persisted in
// the session store keyed by a caller-supplied session key so that
// several calendar instances can coexist without global state.  A zero
// ResourceTypeID or ResourceID means "none selected".
//
// Fields:
//  SessionKey     – unique key of the browsing session ("<member>:<module>").
//  ResourceTypeID – selected resource type, 0 when none.
//  ResourceID     – selected resource, 0 when none.
//  WeekStart      – Monday 00:00 UTC of the active week.
type FilterState struct {
	SessionKey     string    `json:"session_key"`
	ResourceTypeID uint64    `json:"resource_type_id"`
	ResourceID     uint64    `json:"resource_id"`
	WeekStart      time.Time `json:"week_start"`
}

// HasResource reports whether both a resource type and a resource are
// selected.  Booking operations require a full selection.
func (f FilterState) HasResource() bool {
	return f.ResourceTypeID != 0 && f.ResourceID != 0
}
