package repository

import (
	"context"
	"database/sql"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// TimeSlotRepo provides read access to time slot template sets.
type TimeSlotRepo struct {
	db *sql.DB
}

// NewTimeSlotRepo returns a TimeSlotRepo bound to the given database.
func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

// ListPublishedByType returns the published templates of one template
// set in their defined order.  The order determines the grid rows.
func (r *TimeSlotRepo) ListPublishedByType(ctx context.Context, timeSlotTypeID uint64) ([]model.TimeSlot, error) {
	const q = `SELECT id, time_slot_type_id, title, start_offset_sec, end_offset_sec, sorting, published
			   FROM time_slots
			   WHERE time_slot_type_id = ? AND published = 1
			   ORDER BY sorting, id`
	rows, err := r.db.QueryContext(ctx, q, timeSlotTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TimeSlot, 0)
	for rows.Next() {
		var t model.TimeSlot
		if err := rows.Scan(&t.ID, &t.TimeSlotTypeID, &t.Title, &t.StartOffsetSec, &t.EndOffsetSec, &t.Sorting, &t.Published); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
