package model

import "time"

// Table describes a physical dining table in the restaurant.
// Tables are uniquely identified by their table number, which is
// what staff and guests refer to; the numeric ID is the database
// primary key.  The zone tag groups tables by seating area and is
// free-form (window, terrace, VIP, interior, ...).
//
// Fields:
//  ID        – primary key identifier.
//  Number    – unique table number displayed to staff and guests.
//  Capacity  – maximum party size the table seats.
//  Zone      – seating area tag (free-form).
//  IsActive  – whether the table is currently bookable.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Table struct {
	ID        uint64    // tables.id
	Number    uint32    // tables.table_number (unique)
	Capacity  uint32    // tables.capacity
	Zone      string    // tables.zone
	IsActive  bool      // tables.is_active
	CreatedAt time.Time // tables.created_at
	UpdatedAt time.Time // tables.updated_at
}
