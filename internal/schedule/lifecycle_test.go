package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// fakeStore is an in-memory Store that mirrors the behaviour the
// engine demands from real persistence: a mutex-guarded uniqueness
// check over active (table, timestamp) pairs standing in for the
// database unique index.
type fakeStore struct {
	mu           sync.Mutex
	tables       map[uint64]model.Table
	reservations map[uint64]*model.Reservation
	nextID       uint64
}

func newFakeStore(tables ...model.Table) *fakeStore {
	s := &fakeStore{
		tables:       make(map[uint64]model.Table),
		reservations: make(map[uint64]*model.Reservation),
	}
	for _, t := range tables {
		s.tables[t.ID] = t
	}
	return s
}

func (s *fakeStore) GetTable(_ context.Context, id uint64) (*model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, ErrTableNotFound
	}
	return &t, nil
}

func (s *fakeStore) ListTables(_ context.Context) ([]model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeStore) GetReservation(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *fakeStore) FindActiveByTableAt(_ context.Context, tableID uint64, at time.Time) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r := s.activeAtLocked(tableID, at, 0); r != nil {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeStore) ListActiveByDate(_ context.Context, day time.Time) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	y, m, d := day.Date()
	var out []model.Reservation
	for _, r := range s.reservations {
		ry, rm, rd := r.OccursAt.Date()
		if r.Active() && ry == y && rm == m && rd == d {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) Insert(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeAtLocked(r.TableID, r.OccursAt, 0) != nil {
		return ErrSlotTaken
	}
	s.nextID++
	r.ID = s.nextID
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *fakeStore) Update(_ context.Context, r *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.ID]; !ok {
		return ErrReservationNotFound
	}
	if r.Active() && s.activeAtLocked(r.TableID, r.OccursAt, r.ID) != nil {
		return ErrSlotTaken
	}
	cp := *r
	s.reservations[r.ID] = &cp
	return nil
}

func (s *fakeStore) activeAtLocked(tableID uint64, at time.Time, excludeID uint64) *model.Reservation {
	for _, r := range s.reservations {
		if r.ID != excludeID && r.TableID == tableID && r.Active() && r.OccursAt.Equal(at) {
			return r
		}
	}
	return nil
}

func newTestEngine(t *testing.T, store Store) *Engine {
	t.Helper()
	e, err := NewEngine(testHours(t), store)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func at(t *testing.T, clock string) time.Time {
	t.Helper()
	return mustTime(t, clock).At(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
}

func TestCreate_Confirmed(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)

	r, err := e.Create(context.Background(), CreateRequest{
		TableID: 1, ClientID: 7, OccursAt: at(t, "19:00"), PartySize: 4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID == 0 {
		t.Fatalf("expected assigned ID")
	}
	if r.Status != model.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", r.Status)
	}
	if r.ZonePreference != model.ZoneNone {
		t.Fatalf("expected default zone preference NONE, got %s", r.ZonePreference)
	}
}

func TestCreate_CapacityBoundary(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)

	if _, err := e.Create(context.Background(), CreateRequest{
		TableID: 1, ClientID: 7, OccursAt: at(t, "18:00"), PartySize: 4,
	}); err != nil {
		t.Fatalf("party size equal to capacity must succeed: %v", err)
	}
	_, err := e.Create(context.Background(), CreateRequest{
		TableID: 1, ClientID: 7, OccursAt: at(t, "18:30"), PartySize: 5,
	})
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestCreate_OutsideOperatingHours(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)

	for _, clock := range []string{"17:30", "22:00", "19:15"} {
		_, err := e.Create(context.Background(), CreateRequest{
			TableID: 1, ClientID: 7, OccursAt: at(t, clock), PartySize: 2,
		})
		if !errors.Is(err, ErrOutsideOperatingHours) {
			t.Fatalf("time %s: expected ErrOutsideOperatingHours, got %v", clock, err)
		}
	}
}

func TestCreate_SlotTaken(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)

	if _, err := e.Create(context.Background(), CreateRequest{
		TableID: 1, ClientID: 7, OccursAt: at(t, "20:00"), PartySize: 2,
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := e.Create(context.Background(), CreateRequest{
		TableID: 1, ClientID: 8, OccursAt: at(t, "20:00"), PartySize: 2,
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestCreate_TableNotFound(t *testing.T) {
	e := newTestEngine(t, newFakeStore())
	_, err := e.Create(context.Background(), CreateRequest{
		TableID: 99, ClientID: 7, OccursAt: at(t, "19:00"), PartySize: 2,
	})
	if !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestCancel_FreesSlot(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)
	ctx := context.Background()

	r, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 7, OccursAt: at(t, "19:00"), PartySize: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	m, err := e.AvailabilityFor(ctx, day)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if m.Available(1, mustTime(t, "19:00")) {
		t.Fatalf("slot should be occupied after booking")
	}

	reason := "guest called to cancel"
	cancelled, err := e.Cancel(ctx, r.ID, &reason)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
	}
	if cancelled.CancellationReason == nil || *cancelled.CancellationReason != reason {
		t.Fatalf("expected reason recorded")
	}

	m, err = e.AvailabilityFor(ctx, day)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !m.Available(1, mustTime(t, "19:00")) {
		t.Fatalf("cancellation must free the slot")
	}
	if _, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 8, OccursAt: at(t, "19:00"), PartySize: 2}); err != nil {
		t.Fatalf("rebooking a freed slot must succeed: %v", err)
	}
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)
	ctx := context.Background()

	cancelled, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 7, OccursAt: at(t, "18:00"), PartySize: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.Cancel(ctx, cancelled.ID, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	completed, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 7, OccursAt: at(t, "18:30"), PartySize: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := e.Complete(ctx, completed.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	cases := []struct {
		name string
		op   func() error
	}{
		{"cancel cancelled", func() error { _, err := e.Cancel(ctx, cancelled.ID, nil); return err }},
		{"complete cancelled", func() error { _, err := e.Complete(ctx, cancelled.ID); return err }},
		{"reschedule cancelled", func() error {
			_, err := e.Reschedule(ctx, cancelled.ID, RescheduleRequest{})
			return err
		}},
		{"complete completed", func() error { _, err := e.Complete(ctx, completed.ID); return err }},
		{"cancel completed", func() error { _, err := e.Cancel(ctx, completed.ID, nil); return err }},
	}
	for _, tc := range cases {
		if err := tc.op(); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s: expected ErrInvalidTransition, got %v", tc.name, err)
		}
	}

	// Terminal records must be left untouched by rejected transitions.
	got, err := store.GetReservation(ctx, completed.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Fatalf("rejected transition mutated the record: %s", got.Status)
	}
}

func TestReschedule_SelfExclusion(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)
	ctx := context.Background()

	r, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 7, OccursAt: at(t, "19:00"), PartySize: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Moving to the slot it already occupies must not collide with itself.
	same := at(t, "19:00")
	if _, err := e.Reschedule(ctx, r.ID, RescheduleRequest{OccursAt: &same}); err != nil {
		t.Fatalf("reschedule to own slot: %v", err)
	}
}

func TestReschedule_Collision(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)
	ctx := context.Background()

	if _, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 7, OccursAt: at(t, "19:00"), PartySize: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}
	r, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 8, OccursAt: at(t, "20:00"), PartySize: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	taken := at(t, "19:00")
	if _, err := e.Reschedule(ctx, r.ID, RescheduleRequest{OccursAt: &taken}); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
}

func TestReschedule_RechecksCapacityOnTableMove(t *testing.T) {
	store := newFakeStore(
		model.Table{ID: 1, Number: 1, Capacity: 6},
		model.Table{ID: 2, Number: 2, Capacity: 2},
	)
	e := newTestEngine(t, store)
	ctx := context.Background()

	r, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 7, OccursAt: at(t, "19:00"), PartySize: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Moving a party of five to a two-seat table must fail even though
	// the party size itself is untouched by the request.
	small := uint64(2)
	if _, err := e.Reschedule(ctx, r.ID, RescheduleRequest{TableID: &small}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestConcurrentCreate_ExactlyOneWins(t *testing.T) {
	store := newFakeStore(model.Table{ID: 3, Number: 3, Capacity: 4})
	e := newTestEngine(t, store)
	target := at(t, "19:00")

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.Create(context.Background(), CreateRequest{
				TableID: 3, ClientID: uint64(100 + i), OccursAt: target, PartySize: 2,
			})
			results[i] = err
		}(i)
	}
	wg.Wait()

	success, conflict := 0, 0
	for _, err := range results {
		switch {
		case err == nil:
			success++
		case errors.Is(err, ErrSlotTaken):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 || conflict != 1 {
		t.Fatalf("expected exactly one winner and one ErrSlotTaken, got %d/%d", success, conflict)
	}
}

func TestValidateConflict(t *testing.T) {
	store := newFakeStore(model.Table{ID: 1, Number: 1, Capacity: 4})
	e := newTestEngine(t, store)
	ctx := context.Background()

	if err := e.ValidateConflict(ctx, 1, at(t, "19:00"), 0); err != nil {
		t.Fatalf("free slot must validate: %v", err)
	}
	r, err := e.Create(ctx, CreateRequest{TableID: 1, ClientID: 7, OccursAt: at(t, "19:00"), PartySize: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.ValidateConflict(ctx, 1, at(t, "19:00"), 0); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if err := e.ValidateConflict(ctx, 1, at(t, "19:00"), r.ID); err != nil {
		t.Fatalf("excluding own reservation must validate: %v", err)
	}
}
