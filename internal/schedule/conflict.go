package schedule

import (
	"context"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ActiveLookup is the minimal read surface the conflict guard needs:
// find the active (non-cancelled) reservation holding a (table,
// timestamp) pair, or nil when the slot is free.
type ActiveLookup interface {
	FindActiveByTableAt(ctx context.Context, tableID uint64, at time.Time) (*model.Reservation, error)
}

// ConflictGuard rejects bookings that fall outside operating hours or
// collide with an existing active reservation on the same table at
// the same instant.  The collision check here is a fast path that
// produces a friendly error before touching the write path; under
// concurrent requests the storage unique index is the enforcement
// point, and its violation surfaces as the same ErrSlotTaken.
type ConflictGuard struct {
	Hours OperatingHours
	Store ActiveLookup
}

// Validate checks tableID/at for a new or moved reservation.
// excludeID names a reservation whose own row must not count as a
// collision, so a reschedule to the slot it already occupies does
// not reject itself; pass zero when creating.
func (g ConflictGuard) Validate(ctx context.Context, tableID uint64, at time.Time, excludeID uint64) error {
	if !g.Hours.Contains(TimeOfDayOf(at)) {
		return ErrOutsideOperatingHours
	}
	existing, err := g.Store.FindActiveByTableAt(ctx, tableID, at)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return ErrSlotTaken
	}
	return nil
}
