// Package schedule implements the reservation scheduling engine: slot
// generation from operating hours, per-table availability, conflict
// detection and the reservation lifecycle.  The package performs no
// I/O of its own; persistence is supplied through the Store interface
// and all failures are reported as the typed errors defined here.
package schedule

import "fmt"

// Sentinel errors returned by the engine.  Handlers compare with
// errors.Is and translate them into HTTP statuses.  Store
// implementations must return ErrSlotTaken for a storage-level
// uniqueness violation and the NotFound values for missing rows so
// that the engine surface stays uniform regardless of backend.
var (
	// ErrOutsideOperatingHours rejects a requested time that is not a
	// member of the generated slot sequence.
	ErrOutsideOperatingHours = fmt.Errorf("requested time is outside operating hours")

	// ErrSlotTaken rejects a booking that would occupy a (table,
	// timestamp) pair already held by an active reservation.  It is
	// produced both by the in-memory fast path and by the storage
	// unique index; the latter is authoritative.
	ErrSlotTaken = fmt.Errorf("table is already reserved at this time")

	// ErrCapacityExceeded rejects a party larger than the table seats.
	ErrCapacityExceeded = fmt.Errorf("party size exceeds table capacity")

	// ErrTableNotFound signals a reference to a table that does not exist.
	ErrTableNotFound = fmt.Errorf("table not found")

	// ErrReservationNotFound signals a reference to a reservation that
	// does not exist.
	ErrReservationNotFound = fmt.Errorf("reservation not found")

	// ErrInvalidTransition rejects a lifecycle operation on a
	// reservation already in a terminal state.
	ErrInvalidTransition = fmt.Errorf("reservation is in a terminal state")
)

// ConfigurationError reports invalid operating-hours configuration:
// a non-positive slot interval or a closing time at or before the
// opening time.  It is fatal to slot generation and never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid operating hours: " + e.Reason
}
