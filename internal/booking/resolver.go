package booking

import (
	"context"
	"log"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// CancelResult reports the outcome of one cancellation: the anchor id,
// every deleted booking id and how many chain repeats were removed
// beyond the anchor.
type CancelResult struct {
	AnchorID     uint64
	DeletedIDs   []uint64
	CascadeCount int
	Messages     Messages
}

// cancelTarget pairs a booking queued for deletion with its role in the
// cascade.
type cancelTarget struct {
	b       *model.Booking
	anchor  bool
	deleted bool
}

// Cancel removes a booking owned by the requester.  When cascade is
// set it also removes every other booking that shares the anchor's
// chain id, time slot template and weekday — the same recurring slot,
// not every repeat of the submission.  Hook-vetoed entries are skipped
// and not counted as deleted; each deletion is independently safe to
// retry.
func (e *Engine) Cancel(ctx context.Context, bookingID, requesterID uint64, cascade bool) (*CancelResult, error) {
	anchor, err := e.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if anchor == nil {
		return nil, ErrBookingNotFound
	}
	if anchor.MemberID != requesterID {
		return nil, ErrNotOwner
	}

	member, err := e.members.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	targets := []*cancelTarget{{b: anchor, anchor: true}}
	if cascade {
		siblings, err := e.bookings.FindChainSiblings(ctx, anchor.ChainID, anchor.TimeSlotID, anchor.MemberID, anchor.ID)
		if err != nil {
			return nil, err
		}
		for i := range siblings {
			// Only repeats on the anchor's weekday belong to the same
			// recurring slot.
			if siblings[i].Weekday() == anchor.Weekday() {
				targets = append(targets, &cancelTarget{b: &siblings[i]})
			}
		}
	}

	resourceTitle := ""
	if res, err := e.resources.FindPublished(ctx, anchor.ResourceID); err == nil && res != nil {
		resourceTitle = res.Title
	}

	result := &CancelResult{AnchorID: anchor.ID}
	for _, t := range targets {
		if e.hooks.preCancel(ctx, member, t.b) == Skip {
			continue
		}
		affected, err := e.bookings.Delete(ctx, t.b.ID)
		if err != nil {
			log.Printf("booking: deleting booking %d failed: %v", t.b.ID, err)
			continue
		}
		if !affected {
			continue
		}
		log.Printf("booking: booking for resource %q (booking id %d) has been cancelled", resourceTitle, t.b.ID)
		result.DeletedIDs = append(result.DeletedIDs, t.b.ID)
		if !t.anchor {
			result.CascadeCount++
		}
		t.deleted = true
	}

	removed := make([]model.Booking, 0, len(targets))
	for _, t := range targets {
		if t.deleted {
			removed = append(removed, *t.b)
		}
	}
	e.hooks.postCancel(ctx, member, removed, &result.Messages)
	return result, nil
}
