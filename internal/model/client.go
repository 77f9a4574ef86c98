package model

import "time"

// Client represents a guest who books tables.  The aggregate
// counters are bumped by the persistence layer as a side effect of
// reservation transitions; they are informational and carry no
// correctness contract for scheduling.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – guest name.
//  Phone              – contact phone number.
//  Email              – optional contact email.
//  TotalReservations  – number of reservations ever created.
//  TotalCancellations – number of reservations cancelled.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Client struct {
	ID                 uint64    // clients.id
	Name               string    // clients.name
	Phone              string    // clients.phone
	Email              *string   // clients.email (nullable)
	TotalReservations  uint32    // clients.total_reservations
	TotalCancellations uint32    // clients.total_cancellations
	CreatedAt          time.Time // clients.created_at
	UpdatedAt          time.Time // clients.updated_at
}
