package booking

import (
	"context"
	"time"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// The engine depends on these narrow read/write interfaces instead of
// concrete repositories so that the core stays storage-agnostic.  The
// MySQL implementations live in internal/repository; tests supply
// in-memory fakes.

// ResourceStore resolves published resources and their types.
type ResourceStore interface {
	// FindPublishedType returns the resource type or nil when it does
	// not exist or is unpublished.
	FindPublishedType(ctx context.Context, id uint64) (*model.ResourceType, error)
	// FindPublished returns the resource or nil when it does not exist
	// or is unpublished.
	FindPublished(ctx context.Context, id uint64) (*model.Resource, error)
	// ListPublishedTypes returns all published resource types for the
	// filter board, ordered by title.
	ListPublishedTypes(ctx context.Context) ([]model.ResourceType, error)
	// ListPublishedByType returns the published resources of one type,
	// ordered by title.
	ListPublishedByType(ctx context.Context, typeID uint64) ([]model.Resource, error)
}

// TimeSlotStore resolves the slot templates of a template set.
type TimeSlotStore interface {
	// ListPublishedByType returns published templates ordered by their
	// sorting position.
	ListPublishedByType(ctx context.Context, timeSlotTypeID uint64) ([]model.TimeSlot, error)
}

// BookingStore persists bookings.  Insert must enforce uniqueness of the
// (resource, start, end) interval and return repository.ErrSlotTaken
// when the interval is already held.
type BookingStore interface {
	// FindByExactInterval returns the booking occupying exactly
	// [start, end) on the resource, or nil when the interval is free.
	FindByExactInterval(ctx context.Context, resourceID uint64, start, end time.Time) (*model.Booking, error)
	// FindByID returns the booking or nil when it does not exist.
	FindByID(ctx context.Context, id uint64) (*model.Booking, error)
	// FindByChain returns all bookings of a repeat chain ordered by
	// start time.
	FindByChain(ctx context.Context, chainID string) ([]model.Booking, error)
	// FindChainSiblings returns the other bookings sharing the chain,
	// template and owner of a cancellation anchor.
	FindChainSiblings(ctx context.Context, chainID string, timeSlotID, memberID, excludeID uint64) ([]model.Booking, error)
	// Insert persists a booking and fills in its generated ID.
	Insert(ctx context.Context, b *model.Booking) error
	// Delete removes a booking and reports whether a row was affected,
	// so every cascade member stays independently safe to retry.
	Delete(ctx context.Context, id uint64) (bool, error)
}

// MemberStore resolves booking holders for display.
type MemberStore interface {
	// FindByID returns the member or nil when unknown.
	FindByID(ctx context.Context, id uint64) (*model.Member, error)
}
