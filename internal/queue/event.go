// Package queue defines message payloads exchanged over the message
// broker and the background consumer that drains them.
package queue

// Event kinds published on the reservation.events queue.
const (
	KindConfirmed = "reservation.confirmed"
	KindCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is successfully
// created or cancelled.  It carries enough for a downstream notifier
// (SMS, email) to compose a message without querying the primary
// database.  Publication is fire-and-forget: a broker outage never
// fails or delays the booking itself.
type ReservationEvent struct {
	Kind           string `json:"kind"`
	ReservationID  uint64 `json:"reservation_id"`
	TableNumber    uint32 `json:"table_number"`
	ClientID       uint64 `json:"client_id"`
	ClientName     string `json:"client_name"`
	ClientPhone    string `json:"client_phone"`
	OccursAt       string `json:"occurs_at"`
	PartySize      uint32 `json:"party_size"`
	ZonePreference string `json:"zone_preference,omitempty"`
	Reason         string `json:"reason,omitempty"`
	EmittedAt      string `json:"emitted_at"`
}
