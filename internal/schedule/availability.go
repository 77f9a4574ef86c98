package schedule

import (
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// AvailabilityMap answers "is this table free at this slot" for one
// calendar day.  It is a pure aggregation over the reservation set:
// computing it twice, or feeding it the same reservations in a
// different order, yields an identical map.
type AvailabilityMap struct {
	Day    time.Time                     // calendar day the map describes
	Slots  []TimeOfDay                   // ordered bookable slots for the day
	tables map[uint64]map[TimeOfDay]bool // tableID -> slot -> free
}

// ComputeAvailability builds the per-table, per-slot availability map
// for a day.  A slot is free for a table unless an active
// (non-cancelled) reservation occupies that exact (table, slot)
// timestamp.  Reservations for other days or unknown tables are
// ignored rather than rejected; callers pass whatever the store
// returned for the date.
func ComputeAvailability(hours OperatingHours, day time.Time, tables []model.Table, reservations []model.Reservation) (*AvailabilityMap, error) {
	slots, err := hours.Slots()
	if err != nil {
		return nil, err
	}
	m := &AvailabilityMap{
		Day:    day,
		Slots:  slots,
		tables: make(map[uint64]map[TimeOfDay]bool, len(tables)),
	}
	for _, t := range tables {
		free := make(map[TimeOfDay]bool, len(slots))
		for _, s := range slots {
			free[s] = true
		}
		m.tables[t.ID] = free
	}
	y, mo, d := day.Date()
	for i := range reservations {
		r := &reservations[i]
		if !r.Active() {
			continue
		}
		ry, rmo, rd := r.OccursAt.Date()
		if ry != y || rmo != mo || rd != d {
			continue
		}
		if free, ok := m.tables[r.TableID]; ok {
			free[TimeOfDayOf(r.OccursAt)] = false
		}
	}
	return m, nil
}

// Available reports whether the table has no active reservation at
// the slot.  Unknown tables and off-grid slots report false.
func (m *AvailabilityMap) Available(tableID uint64, slot TimeOfDay) bool {
	free, ok := m.tables[tableID]
	if !ok {
		return false
	}
	return free[slot]
}

// TableIDs returns the tables covered by the map, in no particular order.
func (m *AvailabilityMap) TableIDs() []uint64 {
	ids := make([]uint64, 0, len(m.tables))
	for id := range m.tables {
		ids = append(ids, id)
	}
	return ids
}

// Occupancy returns the fraction of (table, slot) combinations that
// are occupied for the day.  A day with no tables or no slots has
// zero occupancy.  This is a derived read used for reporting, not a
// stored invariant.
func (m *AvailabilityMap) Occupancy() float64 {
	total := len(m.tables) * len(m.Slots)
	if total == 0 {
		return 0
	}
	occupied := 0
	for _, free := range m.tables {
		for _, s := range m.Slots {
			if !free[s] {
				occupied++
			}
		}
	}
	return float64(occupied) / float64(total)
}
