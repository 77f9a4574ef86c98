package model

import "time"

// Status is the closed set of reservation states.  A reservation is
// always born CONFIRMED; CANCELLED and COMPLETED are terminal and
// admit no further transitions.
type Status string

const (
	StatusConfirmed Status = "CONFIRMED" // booked and holding its slot
	StatusCancelled Status = "CANCELLED" // released; never blocks a slot
	StatusCompleted Status = "COMPLETED" // service finished; kept for history
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransition reports whether moving from s to next is a legal
// lifecycle step.  Only CONFIRMED reservations may move: into one of
// the terminal states, or back to CONFIRMED when a reschedule keeps
// the status but changes table and/or time.
func (s Status) CanTransition(next Status) bool {
	if s != StatusConfirmed {
		return false
	}
	switch next {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ZonePreference is the advisory seating-area wish recorded on a
// reservation.  It never blocks a booking; when the preferred zone
// does not match the assigned table the mismatch is simply stored.
type ZonePreference string

const (
	ZoneNone    ZonePreference = "NONE"
	ZoneTerrace ZonePreference = "TERRACE"
	ZoneIndoor  ZonePreference = "INDOOR"
	ZoneVIP     ZonePreference = "VIP"
)

// Valid reports whether z is one of the known preference values.
func (z ZonePreference) Valid() bool {
	switch z {
	case ZoneNone, ZoneTerrace, ZoneIndoor, ZoneVIP:
		return true
	}
	return false
}

// Reservation records a booking of one table at one exact timestamp.
// OccursAt is restaurant-local wall-clock time stored in UTC; the
// time-of-day component always sits on a slot boundary within
// operating hours.  At most one non-cancelled reservation may exist
// per (TableID, OccursAt) pair; the database enforces this with a
// unique index over active rows.
//
// Fields:
//  ID                 – primary key identifier.
//  TableID            – table being reserved.
//  ClientID           – guest holding the reservation.
//  OccursAt           – exact date and time of the booking.
//  PartySize          – number of guests; never exceeds table capacity.
//  Status             – CONFIRMED, CANCELLED or COMPLETED.
//  Notes              – optional free-text note from staff or guest.
//  ZonePreference     – advisory seating-area wish.
//  CancellationReason – optional reason, set when cancelled.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Reservation struct {
	ID                 uint64         // reservations.id
	TableID            uint64         // reservations.table_id
	ClientID           uint64         // reservations.client_id
	OccursAt           time.Time      // reservations.occurs_at
	PartySize          uint32         // reservations.party_size
	Status             Status         // reservations.status
	Notes              *string        // reservations.notes (nullable)
	ZonePreference     ZonePreference // reservations.zone_preference
	CancellationReason *string        // reservations.cancellation_reason (nullable)
	CreatedAt          time.Time      // reservations.created_at
	UpdatedAt          time.Time      // reservations.updated_at
}

// Active reports whether the reservation blocks its slot.  Both
// CONFIRMED and COMPLETED rows occupy their (table, timestamp) pair;
// only CANCELLED releases it.
func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}
