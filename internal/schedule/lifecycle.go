package schedule

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// Store is the persistence collaborator the engine writes through.
// Implementations must enforce a uniqueness constraint over
// (table_id, occurs_at) restricted to non-cancelled rows and report
// its violation as ErrSlotTaken; that constraint, not the engine's
// fast-path check, is what closes the race between concurrent
// bookings across processes.  Missing rows are reported as
// ErrTableNotFound / ErrReservationNotFound.
type Store interface {
	ActiveLookup

	GetTable(ctx context.Context, id uint64) (*model.Table, error)
	ListTables(ctx context.Context) ([]model.Table, error)

	GetReservation(ctx context.Context, id uint64) (*model.Reservation, error)
	ListActiveByDate(ctx context.Context, day time.Time) ([]model.Reservation, error)

	// Insert persists a new reservation and populates its ID and
	// timestamps.  Update rewrites an existing row in place.  Both
	// return ErrSlotTaken on a uniqueness violation.
	Insert(ctx context.Context, r *model.Reservation) error
	Update(ctx context.Context, r *model.Reservation) error
}

// Engine drives the reservation lifecycle.  It validates capacity
// and conflicts before every write, delegates persistence to the
// Store, and returns typed errors only: no logging, no retries, no
// alternative-slot search.  A uniqueness rejection from the store is
// passed through as ErrSlotTaken even when the fast path said the
// slot was free.
type Engine struct {
	hours OperatingHours
	store Store
	guard ConflictGuard
	now   func() time.Time
}

// NewEngine validates the operating-hours configuration once and
// returns an engine bound to the store.  An invalid configuration is
// a ConfigurationError and fatal: no engine is returned.
func NewEngine(hours OperatingHours, store Store) (*Engine, error) {
	if err := hours.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		hours: hours,
		store: store,
		guard: ConflictGuard{Hours: hours, Store: store},
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// Hours returns the configured operating hours.
func (e *Engine) Hours() OperatingHours { return e.hours }

// Slots returns the day's bookable time-of-day sequence.  The
// configuration was validated at construction, so generation cannot
// fail.
func (e *Engine) Slots() []TimeOfDay {
	slots, _ := e.hours.Slots()
	return slots
}

// ValidateConflict exposes the guard for callers that want to check
// a (table, timestamp) pair without writing, e.g. to pre-validate a
// form.  excludeID carries the reservation to ignore on reschedule
// checks; zero means none.
func (e *Engine) ValidateConflict(ctx context.Context, tableID uint64, at time.Time, excludeID uint64) error {
	return e.guard.Validate(ctx, tableID, at, excludeID)
}

// AvailabilityFor computes the availability map for a calendar day
// from the current table set and the day's active reservations.
func (e *Engine) AvailabilityFor(ctx context.Context, day time.Time) (*AvailabilityMap, error) {
	tables, err := e.store.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := e.store.ListActiveByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	return ComputeAvailability(e.hours, day, tables, reservations)
}

// CreateRequest carries the parameters of a booking.  Identity
// resolution happened upstream: ClientID references an existing
// client record.
type CreateRequest struct {
	TableID        uint64
	ClientID       uint64
	OccursAt       time.Time
	PartySize      uint32
	Notes          *string
	ZonePreference model.ZonePreference
}

// Create books a table: capacity first, then operating hours and
// collision, then persist.  The new reservation starts CONFIRMED.
// If a concurrent booking wins the slot between the guard check and
// the insert, the store's uniqueness rejection comes back as
// ErrSlotTaken; the booking is not retried.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*model.Reservation, error) {
	table, err := e.store.GetTable(ctx, req.TableID)
	if err != nil {
		return nil, err
	}
	if err := ValidateCapacity(req.PartySize, table); err != nil {
		return nil, err
	}
	if err := e.guard.Validate(ctx, req.TableID, req.OccursAt, 0); err != nil {
		return nil, err
	}
	zone := req.ZonePreference
	if zone == "" {
		zone = model.ZoneNone
	}
	r := &model.Reservation{
		TableID:        req.TableID,
		ClientID:       req.ClientID,
		OccursAt:       req.OccursAt,
		PartySize:      req.PartySize,
		Status:         model.StatusConfirmed,
		Notes:          req.Notes,
		ZonePreference: zone,
		CreatedAt:      e.now(),
	}
	if err := e.store.Insert(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// RescheduleRequest names the fields a reschedule may change.  Nil
// means "keep the current value".  Changing the party size is
// allowed and re-checked against the target table: capacity must
// hold at all times, even when only the table moves.
type RescheduleRequest struct {
	TableID   *uint64
	OccursAt  *time.Time
	PartySize *uint32
}

// Reschedule moves a CONFIRMED reservation to a new table and/or
// time, re-validating capacity and conflicts as if the old slot were
// cancelled and the new one created atomically.  The reservation's
// own row is excluded from the collision check so a no-op move does
// not reject itself.
func (e *Engine) Reschedule(ctx context.Context, id uint64, req RescheduleRequest) (*model.Reservation, error) {
	r, err := e.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransition(model.StatusConfirmed) {
		return nil, ErrInvalidTransition
	}
	tableID := r.TableID
	if req.TableID != nil {
		tableID = *req.TableID
	}
	occursAt := r.OccursAt
	if req.OccursAt != nil {
		occursAt = *req.OccursAt
	}
	partySize := r.PartySize
	if req.PartySize != nil {
		partySize = *req.PartySize
	}
	table, err := e.store.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if err := ValidateCapacity(partySize, table); err != nil {
		return nil, err
	}
	if err := e.guard.Validate(ctx, tableID, occursAt, r.ID); err != nil {
		return nil, err
	}
	r.TableID = tableID
	r.OccursAt = occursAt
	r.PartySize = partySize
	if err := e.store.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Cancel moves a CONFIRMED reservation to CANCELLED, recording the
// optional reason.  No collision check runs: cancellation always
// succeeds on a live reservation, and the slot becomes available for
// subsequent availability queries the moment the write lands.
func (e *Engine) Cancel(ctx context.Context, id uint64, reason *string) (*model.Reservation, error) {
	r, err := e.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransition(model.StatusCancelled) {
		return nil, ErrInvalidTransition
	}
	r.Status = model.StatusCancelled
	r.CancellationReason = reason
	if err := e.store.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Complete marks a CONFIRMED reservation as served.  COMPLETED rows
// keep occupying their historical slot; since completion only ever
// applies to past timestamps the slot is never re-queried for
// booking.
func (e *Engine) Complete(ctx context.Context, id uint64) (*model.Reservation, error) {
	r, err := e.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransition(model.StatusCompleted) {
		return nil, ErrInvalidTransition
	}
	r.Status = model.StatusCompleted
	if err := e.store.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}
