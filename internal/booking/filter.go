package booking

import (
	"context"
	"time"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// FilterStore persists per-session filter state.  The Redis-backed
// implementation lives in internal/session.
type FilterStore interface {
	// Load returns the stored state for the session key, or nil when
	// the session has no state yet.
	Load(ctx context.Context, sessionKey string) (*model.FilterState, error)
	// Save overwrites the state of the session key.
	Save(ctx context.Context, state model.FilterState) error
}

// ApplyFilter normalizes a session's calendar selection and persists
// it, overwriting prior values.  Invalid selections are reset to "none
// selected" and the requested week is clamped into the bookable
// horizon, never rejected.  Given identical inputs the operation is
// idempotent.
func (e *Engine) ApplyFilter(ctx context.Context, store FilterStore, sessionKey string, resourceTypeID, resourceID uint64, requestedWeekStart time.Time) (model.FilterState, error) {
	state := model.FilterState{SessionKey: sessionKey}

	// The resource type must exist and be published, otherwise fall
	// back to "none selected".
	if resourceTypeID != 0 {
		rt, err := e.resources.FindPublishedType(ctx, resourceTypeID)
		if err != nil {
			return model.FilterState{}, err
		}
		if rt != nil {
			state.ResourceTypeID = rt.ID
		}
	}

	// Without a type there can be no resource; with one, the resource
	// must be published and belong to the selected type.
	if state.ResourceTypeID != 0 && resourceID != 0 {
		res, err := e.resources.FindPublished(ctx, resourceID)
		if err != nil {
			return model.FilterState{}, err
		}
		if res != nil && res.ResourceTypeID == state.ResourceTypeID {
			state.ResourceID = res.ID
		}
	}

	state.WeekStart = e.horizon.Clamp(requestedWeekStart, e.now())

	if err := store.Save(ctx, state); err != nil {
		return model.FilterState{}, err
	}
	return state, nil
}
