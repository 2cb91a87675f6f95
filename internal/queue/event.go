// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published once per committed booking chain.
// It contains enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type BookingCreatedEvent struct {
	ChainID       string   `json:"chain_id"`
	MemberID      uint64   `json:"member_id"`
	MemberName    string   `json:"member_name"`
	ResourceID    uint64   `json:"resource_id"`
	ResourceTitle string   `json:"resource_title"`
	BookingIDs    []uint64 `json:"booking_ids"`
	Intervals     []string `json:"intervals"` // "2006-01-02 15:04 - 16:04" per booking
	CreatedAt     string   `json:"created_at"`
}

// BookingCancelledEvent is published once per cancellation, covering
// the anchor booking and any cascade over its repetitions.
type BookingCancelledEvent struct {
	ChainID      string   `json:"chain_id"`
	MemberID     uint64   `json:"member_id"`
	MemberName   string   `json:"member_name"`
	ResourceID   uint64   `json:"resource_id"`
	BookingIDs   []uint64 `json:"booking_ids"`
	Intervals    []string `json:"intervals"`
	CancelledAt  string   `json:"cancelled_at"`
}
