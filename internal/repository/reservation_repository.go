package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/schedule"
)

// ReservationRepo is the MySQL-backed store the scheduling engine
// writes through.  It implements schedule.Store.
//
// The reservations table carries a stored generated column
// `active_slot` that is 1 for CONFIRMED/COMPLETED rows and NULL for
// CANCELLED ones, plus UNIQUE KEY uq_active_table_slot (table_id,
// occurs_at, active_slot).  NULLs never collide in a MySQL unique
// index, so cancelled rows release their slot while at most one
// active row may hold a (table, timestamp) pair.  A concurrent
// insert or update losing that race fails with error 1062, which is
// returned as schedule.ErrSlotTaken — the authoritative conflict
// signal, regardless of what the engine's earlier read said.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, table_id, client_id, occurs_at, party_size, status, notes, zone_preference, cancellation_reason, created_at, updated_at`

// scanReservation reads one reservation row in reservationColumns order.
func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var notes, reason sql.NullString
	err := row.Scan(
		&res.ID, &res.TableID, &res.ClientID, &res.OccursAt, &res.PartySize,
		&res.Status, &notes, &res.ZonePreference, &reason,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		n := notes.String
		res.Notes = &n
	}
	if reason.Valid {
		c := reason.String
		res.CancellationReason = &c
	}
	return &res, nil
}

// GetTable loads a table by primary key.  A missing row is reported
// as schedule.ErrTableNotFound so the engine can surface NotFound.
func (r *ReservationRepo) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
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

// ListTables returns all bookable tables ordered by table number.
func (r *ReservationRepo) ListTables(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, table_number, capacity, zone, is_active, created_at, updated_at
	           FROM tables WHERE is_active = 1 ORDER BY table_number`
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

// GetReservation loads a reservation by primary key.
func (r *ReservationRepo) GetReservation(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, schedule.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// FindActiveByTableAt returns the non-cancelled reservation holding
// the exact (table, timestamp) pair, or nil when the slot is free.
// This feeds the engine's fast-path conflict check; the unique index
// remains the enforcement point.
func (r *ReservationRepo) FindActiveByTableAt(ctx context.Context, tableID uint64, at time.Time) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations
	           WHERE table_id = ? AND occurs_at = ? AND status <> 'CANCELLED'
	           LIMIT 1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, tableID, at))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListActiveByDate returns all non-cancelled reservations whose
// occurs_at falls on the given calendar day, ordered by time then
// table.  This is the input set for availability computation.
func (r *ReservationRepo) ListActiveByDate(ctx context.Context, day time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations
	           WHERE occurs_at >= ? AND occurs_at < ? AND status <> 'CANCELLED'
	           ORDER BY occurs_at, table_id`
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return r.queryReservations(ctx, q, start, start.AddDate(0, 0, 1))
}

// ListByDate returns every reservation on the day regardless of
// status, for the staff day grid.
func (r *ReservationRepo) ListByDate(ctx context.Context, day time.Time) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations
	           WHERE occurs_at >= ? AND occurs_at < ?
	           ORDER BY occurs_at, table_id`
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return r.queryReservations(ctx, q, start, start.AddDate(0, 0, 1))
}

// ListByClient returns a client's reservations, newest first.
func (r *ReservationRepo) ListByClient(ctx context.Context, clientID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + `
	           FROM reservations WHERE client_id = ?
	           ORDER BY occurs_at DESC`
	return r.queryReservations(ctx, q, clientID)
}

func (r *ReservationRepo) queryReservations(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Insert persists a new reservation and bumps the client's
// reservation counter in the same transaction.  It populates the
// generated ID and timestamps on the provided record.  A duplicate
// active slot comes back as schedule.ErrSlotTaken.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO reservations (table_id, client_id, occurs_at, party_size, status, notes, zone_preference)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.TableID, res.ClientID, res.OccursAt, res.PartySize, res.Status, res.Notes, res.ZonePreference,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return schedule.ErrSlotTaken
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	const bump = `UPDATE clients SET total_reservations = total_reservations + 1 WHERE id = ?`
	if _, err := tx.ExecContext(ctx, bump, res.ClientID); err != nil {
		return err
	}

	// Query back the row to populate timestamps and defaults.
	const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Update rewrites a reservation row in place.  When the status moves
// into CANCELLED the client's cancellation counter is bumped in the
// same transaction.  A reschedule landing on a slot another active
// row already holds violates the unique index and comes back as
// schedule.ErrSlotTaken.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var prevStatus model.Status
	const cur = `SELECT status FROM reservations WHERE id = ? FOR UPDATE`
	if err := tx.QueryRowContext(ctx, cur, res.ID).Scan(&prevStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return schedule.ErrReservationNotFound
		}
		return err
	}

	const q = `UPDATE reservations
	           SET table_id = ?, occurs_at = ?, party_size = ?, status = ?,
	               notes = ?, zone_preference = ?, cancellation_reason = ?
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q,
		res.TableID, res.OccursAt, res.PartySize, res.Status,
		res.Notes, res.ZonePreference, res.CancellationReason, res.ID,
	); err != nil {
		if isDuplicateEntry(err) {
			return schedule.ErrSlotTaken
		}
		return err
	}

	if prevStatus != model.StatusCancelled && res.Status == model.StatusCancelled {
		const bump = `UPDATE clients SET total_cancellations = total_cancellations + 1 WHERE id = ?`
		if _, err := tx.ExecContext(ctx, bump, res.ClientID); err != nil {
			return err
		}
	}

	const sel = `SELECT updated_at FROM reservations WHERE id = ?`
	if err := tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
