package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/weekbook/resource-booking-api/internal/model"
)

// ResourceRepo provides read access to resource types and resources.
// The booking engine only ever sees published records; unpublished
// rows behave as if they did not exist.
type ResourceRepo struct {
	db *sql.DB
}

// NewResourceRepo returns a ResourceRepo bound to the given database.
func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{db: db} }

// FindPublishedType returns the resource type with the given id, or
// nil when it does not exist or is unpublished.
func (r *ResourceRepo) FindPublishedType(ctx context.Context, id uint64) (*model.ResourceType, error) {
	const q = `SELECT id, title, published, created_at
			   FROM resource_types WHERE id = ? AND published = 1`
	var rt model.ResourceType
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.Title, &rt.Published, &rt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// FindPublished returns the resource with the given id, or nil when it
// does not exist or is unpublished.
func (r *ResourceRepo) FindPublished(ctx context.Context, id uint64) (*model.Resource, error) {
	const q = `SELECT id, resource_type_id, title, time_slot_type_id, published, created_at
			   FROM resources WHERE id = ? AND published = 1`
	var res model.Resource
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.ResourceTypeID, &res.Title, &res.TimeSlotTypeID, &res.Published, &res.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListPublishedTypes returns all published resource types ordered by
// title for the filter board dropdown.
func (r *ResourceRepo) ListPublishedTypes(ctx context.Context) ([]model.ResourceType, error) {
	const q = `SELECT id, title, published, created_at
			   FROM resource_types WHERE published = 1 ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ResourceType, 0)
	for rows.Next() {
		var rt model.ResourceType
		if err := rows.Scan(&rt.ID, &rt.Title, &rt.Published, &rt.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// ListPublishedByType returns the published resources belonging to one
// resource type, ordered by title.
func (r *ResourceRepo) ListPublishedByType(ctx context.Context, typeID uint64) ([]model.Resource, error) {
	const q = `SELECT id, resource_type_id, title, time_slot_type_id, published, created_at
			   FROM resources WHERE resource_type_id = ? AND published = 1 ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q, typeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Resource, 0)
	for rows.Next() {
		var res model.Resource
		if err := rows.Scan(&res.ID, &res.ResourceTypeID, &res.Title, &res.TimeSlotTypeID, &res.Published, &res.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
