package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/weekbook/resource-booking-api/internal/model"
	"github.com/weekbook/resource-booking-api/internal/utils"
)

// MemberRepo persists members.  Emails are stored lower-cased and are
// unique.
type MemberRepo struct {
	db *sql.DB
}

// NewMemberRepo returns a MemberRepo bound to the given database.
func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

// Create registers a new member and returns the generated id.  The
// password is bcrypt-hashed with the given cost before storage.
func (r *MemberRepo) Create(ctx context.Context, email, password, firstName, lastName string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO members (email, password_hash, first_name, last_name) VALUES (?, ?, ?, ?)`,
		email, hash, firstName, lastName)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByEmail returns the member with the given email, or nil when
// unknown.
func (r *MemberRepo) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	const q = `SELECT id, email, password_hash, first_name, last_name, created_at
			   FROM members WHERE email = ?`
	var m model.Member
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&m.ID, &m.Email, &m.PasswordHash, &m.FirstName, &m.LastName, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByID returns the member with the given id, or nil when unknown.
func (r *MemberRepo) FindByID(ctx context.Context, id uint64) (*model.Member, error) {
	const q = `SELECT id, email, password_hash, first_name, last_name, created_at
			   FROM members WHERE id = ?`
	var m model.Member
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.Email, &m.PasswordHash, &m.FirstName, &m.LastName, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
