package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// BookingRepo provides CRUD operations for bookings.  The bookings
// table carries a unique key on (resource_id, start_time, end_time);
// Insert converts a violation of that key into ErrSlotTaken so the
// engine can treat a lost race as a recoverable conflict.  All
// timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, resource_id, time_slot_id, member_id, start_time, end_time, description, chain_id, created_at`

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID, &b.ResourceID, &b.TimeSlotID, &b.MemberID,
		&b.StartTime, &b.EndTime, &b.Description, &b.ChainID, &b.CreatedAt,
	)
	if err != nil {
		return model.Booking{}, err
	}
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()
	return b, nil
}

// FindByExactInterval returns the booking that occupies exactly
// [start, end) on the resource, or nil when the interval is free.
// Matching is exact, not overlap based; templates partition time, so
// exact match is equivalent to conflict detection for grid queries.
func (r *BookingRepo) FindByExactInterval(ctx context.Context, resourceID uint64, start, end time.Time) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
			   WHERE resource_id = ? AND start_time = ? AND end_time = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, resourceID, start.UTC(), end.UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByID returns the booking or nil when it does not exist.
func (r *BookingRepo) FindByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByChain returns all bookings of a repeat chain ordered by start
// time.
func (r *BookingRepo) FindByChain(ctx context.Context, chainID string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
			   WHERE chain_id = ? ORDER BY start_time`
	return r.queryBookings(ctx, q, chainID)
}

// FindChainSiblings returns the other bookings sharing the chain id,
// time slot template and owner of a cancellation anchor.  The weekday
// filter that narrows the set to "same recurring slot" is applied by
// the engine, not here, because the weekday is derived data.
func (r *BookingRepo) FindChainSiblings(ctx context.Context, chainID string, timeSlotID, memberID, excludeID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
			   WHERE chain_id = ? AND time_slot_id = ? AND member_id = ? AND id != ?
			   ORDER BY start_time`
	return r.queryBookings(ctx, q, chainID, timeSlotID, memberID, excludeID)
}

// ListByResourceWeek returns all bookings of one resource inside
// [weekStart, weekStart+7d), ordered by start time.  The grid builder
// uses it to annotate a whole week in one query.
func (r *BookingRepo) ListByResourceWeek(ctx context.Context, resourceID uint64, weekStart time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
			   WHERE resource_id = ? AND start_time >= ? AND start_time < ?
			   ORDER BY start_time`
	from := weekStart.UTC()
	return r.queryBookings(ctx, q, resourceID, from, from.AddDate(0, 0, 7))
}

// Insert persists a booking and fills in its generated id and creation
// timestamp.  A duplicate interval yields ErrSlotTaken.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
			   (resource_id, time_slot_id, member_id, start_time, end_time, description, chain_id)
			   VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.ResourceID, b.TimeSlotID, b.MemberID,
		b.StartTime.UTC(), b.EndTime.UTC(), b.Description, b.ChainID,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Query back the row to pick up the DB-side creation timestamp.
	const sel = `SELECT created_at FROM bookings WHERE id = ?`
	if err := r.db.QueryRowContext(ctx, sel, b.ID).Scan(&b.CreatedAt); err != nil {
		return err
	}
	return nil
}

// Delete removes a booking.  It reports whether a row was affected so
// cascade members remain independently safe to retry.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
