package schedule

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// ValidateCapacity rejects a party larger than the table seats.
// Zone preference is deliberately not checked here: it is advisory
// metadata recorded on the reservation, and a mismatch between the
// preferred zone and the assigned table never blocks a booking.
func ValidateCapacity(partySize uint32, table *model.Table) error {
	if partySize > table.Capacity {
		return ErrCapacityExceeded
	}
	return nil
}
