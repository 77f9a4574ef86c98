package schedule

import (
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func testHours(t *testing.T) OperatingHours {
	t.Helper()
	return OperatingHours{Open: mustTime(t, "18:00"), Close: mustTime(t, "22:00"), Interval: 30}
}

func testTables() []model.Table {
	return []model.Table{
		{ID: 1, Number: 1, Capacity: 2, Zone: "window"},
		{ID: 2, Number: 2, Capacity: 4, Zone: "terrace"},
		{ID: 3, Number: 3, Capacity: 6, Zone: "interior"},
	}
}

func TestComputeAvailability_EmptyDay(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m, err := ComputeAvailability(testHours(t), day, testTables(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(m.Slots))
	}
	for _, tbl := range testTables() {
		for _, s := range m.Slots {
			if !m.Available(tbl.ID, s) {
				t.Fatalf("table %d slot %s should be free on an empty day", tbl.ID, s)
			}
		}
	}
	if m.Occupancy() != 0 {
		t.Fatalf("expected zero occupancy, got %f", m.Occupancy())
	}
}

func TestComputeAvailability_BookingFlipsExactlyOneSlot(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC)
	reservations := []model.Reservation{
		{ID: 10, TableID: 2, OccursAt: at, Status: model.StatusConfirmed},
	}
	m, err := ComputeAvailability(testHours(t), day, testTables(), reservations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tbl := range testTables() {
		for _, s := range m.Slots {
			occupied := tbl.ID == 2 && s.String() == "19:00"
			if m.Available(tbl.ID, s) == occupied {
				t.Fatalf("table %d slot %s: available=%v, want %v", tbl.ID, s, m.Available(tbl.ID, s), !occupied)
			}
		}
	}
	want := 1.0 / float64(3*8)
	if m.Occupancy() != want {
		t.Fatalf("expected occupancy %f, got %f", want, m.Occupancy())
	}
}

func TestComputeAvailability_CancelledNeverBlocks(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)
	reservations := []model.Reservation{
		{ID: 11, TableID: 1, OccursAt: at, Status: model.StatusCancelled},
	}
	m, err := ComputeAvailability(testHours(t), day, testTables(), reservations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Available(1, TimeOfDayOf(at)) {
		t.Fatalf("cancelled reservation must not block its slot")
	}
}

func TestComputeAvailability_CompletedOccupiesHistoricalSlot(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	reservations := []model.Reservation{
		{ID: 12, TableID: 3, OccursAt: at, Status: model.StatusCompleted},
	}
	m, err := ComputeAvailability(testHours(t), day, testTables(), reservations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Available(3, TimeOfDayOf(at)) {
		t.Fatalf("completed reservation must keep its historical slot occupied")
	}
}

func TestComputeAvailability_OrderIndependent(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	reservations := []model.Reservation{
		{ID: 1, TableID: 1, OccursAt: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC), Status: model.StatusConfirmed},
		{ID: 2, TableID: 2, OccursAt: time.Date(2024, 6, 1, 19, 30, 0, 0, time.UTC), Status: model.StatusConfirmed},
		{ID: 3, TableID: 1, OccursAt: time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC), Status: model.StatusCancelled},
	}
	reversed := []model.Reservation{reservations[2], reservations[1], reservations[0]}

	forward, err := ComputeAvailability(testHours(t), day, testTables(), reservations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	backward, err := ComputeAvailability(testHours(t), day, testTables(), reversed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tbl := range testTables() {
		for _, s := range forward.Slots {
			if forward.Available(tbl.ID, s) != backward.Available(tbl.ID, s) {
				t.Fatalf("table %d slot %s differs under input reordering", tbl.ID, s)
			}
		}
	}
}

func TestComputeAvailability_IgnoresOtherDays(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	reservations := []model.Reservation{
		{ID: 20, TableID: 1, OccursAt: time.Date(2024, 6, 2, 19, 0, 0, 0, time.UTC), Status: model.StatusConfirmed},
	}
	m, err := ComputeAvailability(testHours(t), day, testTables(), reservations)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Available(1, mustTime(t, "19:00")) {
		t.Fatalf("reservation on another day must not block this day's slot")
	}
}
