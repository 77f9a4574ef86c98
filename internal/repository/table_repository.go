package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/schedule"
)

// TableRepo provides staff-facing persistence for dining tables.
// Table numbers are globally unique; the tables table carries
// UNIQUE KEY uq_table_number (table_number) and a collision surfaces
// as ErrDuplicateTableNumber.  Deleting tables is handled outside
// the scheduling engine, so no delete is offered here; tables are
// retired by clearing is_active instead.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// Create inserts a new table and populates its ID and timestamps.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (table_number, capacity, zone, is_active) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.Zone, t.IsActive)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateTableNumber
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM tables WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// Update rewrites a table's number, capacity, zone and active flag.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables SET table_number = ?, capacity = ?, zone = ?, is_active = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.Zone, t.IsActive, t.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateTableNumber
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected is zero both for missing rows and no-op updates;
		// distinguish with an existence check.
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM tables WHERE id = ?`, t.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return schedule.ErrTableNotFound
			}
			return err
		}
	}
	const sel = `SELECT updated_at FROM tables WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.UpdatedAt)
}

// GetByID loads a table by primary key.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT id, table_number, capacity, zone, is_active, created_at, updated_at
	           FROM tables WHERE id = ?`
	var t model.Table
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.Number, &t.Capacity, &t.Zone, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, schedule.ErrTableNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll returns every table, active or not, ordered by number.
// Staff views show retired tables greyed out rather than hidden.
func (r *TableRepo) ListAll(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, table_number, capacity, zone, is_active, created_at, updated_at
	           FROM tables ORDER BY table_number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity, &t.Zone, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
