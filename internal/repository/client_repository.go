package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ClientRepo persists guest records.  Identity resolution (matching
// a booking request to an existing guest, or creating one) happens
// upstream; this repository only offers the lookups and inserts the
// handlers need.  The reservation counters on a client are bumped by
// ReservationRepo inside its transactions, not here.
type ClientRepo struct {
	db *sql.DB
}

// NewClientRepo returns a ClientRepo bound to the given database.
func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

// Create inserts a new client and populates its ID and timestamps.
func (r *ClientRepo) Create(ctx context.Context, c *model.Client) error {
	const q = `INSERT INTO clients (name, phone, email) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, c.Name, c.Phone, c.Email)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM clients WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID loads a client by primary key.
func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*model.Client, error) {
	const q = `SELECT id, name, phone, email, total_reservations, total_cancellations, created_at, updated_at
	           FROM clients WHERE id = ?`
	var c model.Client
	var email sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Phone, &email,
		&c.TotalReservations, &c.TotalCancellations, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	if email.Valid {
		e := email.String
		c.Email = &e
	}
	return &c, nil
}
