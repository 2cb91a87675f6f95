package booking

import (
	"context"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// Decision is returned by pre-commit and pre-cancel hook invocations.
// Skip vetoes the single entry under inspection without affecting the
// rest of the batch.
type Decision int

const (
	// Proceed lets the engine persist or delete the entry.
	Proceed Decision = iota
	// Skip drops the entry silently; it is not counted as a failure.
	Skip
)

// Messages is handed to post-commit and post-cancel hooks so external
// collaborators can override the outward-facing confirmation or error
// message of the operation.  At most one of the two should be set.
type Messages struct {
	Confirmation string
	Error        string
}

// Hook is the extension point consumed by external collaborators
// (logging, email, audit).  Hooks are invoked in registration order.
// PreBooking runs once per candidate before it is persisted; PreCancel
// runs once per chain member before it is deleted.  The post hooks
// receive the full affected set after the batch completed.
type Hook interface {
	PreBooking(ctx context.Context, member *model.Member, candidate *Candidate) Decision
	PostBooking(ctx context.Context, member *model.Member, saved []model.Booking, msgs *Messages)
	PreCancel(ctx context.Context, member *model.Member, b *model.Booking) Decision
	PostCancel(ctx context.Context, member *model.Member, deleted []model.Booking, msgs *Messages)
}

// Hooks is an ordered hook list.  A nil or empty list is valid and
// vetoes nothing.
type Hooks []Hook

func (hs Hooks) preBooking(ctx context.Context, member *model.Member, c *Candidate) Decision {
	for _, h := range hs {
		if h.PreBooking(ctx, member, c) == Skip {
			return Skip
		}
	}
	return Proceed
}

func (hs Hooks) postBooking(ctx context.Context, member *model.Member, saved []model.Booking, msgs *Messages) {
	for _, h := range hs {
		h.PostBooking(ctx, member, saved, msgs)
	}
}

func (hs Hooks) preCancel(ctx context.Context, member *model.Member, b *model.Booking) Decision {
	for _, h := range hs {
		if h.PreCancel(ctx, member, b) == Skip {
			return Skip
		}
	}
	return Proceed
}

func (hs Hooks) postCancel(ctx context.Context, member *model.Member, deleted []model.Booking, msgs *Messages) {
	for _, h := range hs {
		h.PostCancel(ctx, member, deleted, msgs)
	}
}

// NopHook implements Hook with no-ops so collaborators can embed it and
// override only the methods they care about.
type NopHook struct{}

// PreBooking always proceeds.
func (NopHook) PreBooking(context.Context, *model.Member, *Candidate) Decision { return Proceed }

// PostBooking does nothing.
func (NopHook) PostBooking(context.Context, *model.Member, []model.Booking, *Messages) {}

// PreCancel always proceeds.
func (NopHook) PreCancel(context.Context, *model.Member, *model.Booking) Decision { return Proceed }

// PostCancel does nothing.
func (NopHook) PostCancel(context.Context, *model.Member, []model.Booking, *Messages) {}
