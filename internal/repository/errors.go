// Package repository implements MySQL persistence for tables,
// clients and reservations.  Contract errors the scheduling engine
// cares about (slot taken, table/reservation not found) are returned
// as the schedule package sentinels so the engine surface stays
// uniform; the sentinels below cover failures outside the engine's
// vocabulary.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrClientNotFound is returned when a referenced client record does
// not exist.  Handlers translate this into an HTTP 404 response.
var ErrClientNotFound = errors.New("client not found")

// ErrDuplicateTableNumber is returned when creating or renumbering a
// table would collide with an existing table number.  Handlers
// translate this into an HTTP 409 response.
var ErrDuplicateTableNumber = errors.New("table number already in use")

// isDuplicateEntry reports whether err is a MySQL 1062 duplicate-key
// violation.  The reservations unique index over active (table_id,
// occurs_at) pairs and the tables unique key on table_number both
// surface through this check.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
