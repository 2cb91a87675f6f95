package service

import (
	"context"
	"time"

	"github.com/weekbook/resource-booking-api/internal/booking"
	"github.com/weekbook/resource-booking-api/internal/model"
	"github.com/weekbook/resource-booking-api/internal/queue"
)

// NotifierHook publishes a broker event after every committed booking
// chain and every cancellation.  Publish failures never veto or fail
// the operation itself; the event is best-effort.
type NotifierHook struct {
	booking.NopHook
	Resources booking.ResourceStore
	Enabled   bool
}

// NewNotifierHook builds the hook.  With enabled false the hook is a
// no-op, which keeps local development free of a broker requirement.
func NewNotifierHook(resources booking.ResourceStore, enabled bool) *NotifierHook {
	return &NotifierHook{Resources: resources, Enabled: enabled}
}

// PostBooking publishes one BookingCreatedEvent covering the whole
// saved chain.
func (h *NotifierHook) PostBooking(ctx context.Context, member *model.Member, saved []model.Booking, _ *booking.Messages) {
	if !h.Enabled || len(saved) == 0 {
		return
	}
	ev := queue.BookingCreatedEvent{
		ChainID:    saved[0].ChainID,
		MemberID:   saved[0].MemberID,
		ResourceID: saved[0].ResourceID,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if member != nil {
		ev.MemberName = member.FullName()
	}
	if res, err := h.Resources.FindPublished(ctx, ev.ResourceID); err == nil && res != nil {
		ev.ResourceTitle = res.Title
	}
	for _, b := range saved {
		ev.BookingIDs = append(ev.BookingIDs, b.ID)
		ev.Intervals = append(ev.Intervals, interval(b))
	}
	_ = PublishBookingCreated(ctx, ev)
}

// PostCancel publishes one BookingCancelledEvent covering the anchor
// and any cascade members.
func (h *NotifierHook) PostCancel(ctx context.Context, member *model.Member, deleted []model.Booking, _ *booking.Messages) {
	if !h.Enabled || len(deleted) == 0 {
		return
	}
	ev := queue.BookingCancelledEvent{
		ChainID:     deleted[0].ChainID,
		MemberID:    deleted[0].MemberID,
		ResourceID:  deleted[0].ResourceID,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	}
	if member != nil {
		ev.MemberName = member.FullName()
	}
	for _, b := range deleted {
		ev.BookingIDs = append(ev.BookingIDs, b.ID)
		ev.Intervals = append(ev.Intervals, interval(b))
	}
	_ = PublishBookingCancelled(ctx, ev)
}

func interval(b model.Booking) string {
	return b.StartTime.UTC().Format("2006-01-02 15:04") + " - " + b.EndTime.UTC().Format("15:04")
}
