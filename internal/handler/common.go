// Package handler exposes the HTTP surface over the scheduling
// engine.  Handlers bind and validate request shapes, call the
// engine or repositories, and translate typed errors into HTTP
// statuses; scheduling decisions themselves live in the schedule
// package.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/schedule"
)

// dateLayout is the wire format for calendar days.
const dateLayout = "2006-01-02"

// parseID parses a numeric path parameter, rejecting zero.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// parseDay parses a YYYY-MM-DD value into a UTC midnight timestamp.
func parseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// engineError maps scheduling and repository errors onto HTTP
// responses.  Conflicts (taken slot, terminal state, duplicate
// number) are 409; validation failures the caller can fix by picking
// another slot or table are 422; missing references are 404.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, schedule.ErrTableNotFound),
		errors.Is(err, schedule.ErrReservationNotFound),
		errors.Is(err, repository.ErrClientNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, schedule.ErrSlotTaken),
		errors.Is(err, schedule.ErrInvalidTransition),
		errors.Is(err, repository.ErrDuplicateTableNumber):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, schedule.ErrOutsideOperatingHours),
		errors.Is(err, schedule.ErrCapacityExceeded):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
}

// reservationResponse is the JSON shape for a reservation.  The
// timestamp is split into date and time fields alongside the RFC3339
// value because the booking grid works in (date, slot) coordinates.
type reservationResponse struct {
	ID                 uint64  `json:"id"`
	TableID            uint64  `json:"table_id"`
	ClientID           uint64  `json:"client_id"`
	OccursAt           string  `json:"occurs_at"`
	Date               string  `json:"date"`
	Time               string  `json:"time"`
	PartySize          uint32  `json:"party_size"`
	Status             string  `json:"status"`
	Notes              *string `json:"notes,omitempty"`
	ZonePreference     string  `json:"zone_preference"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

func toReservationResponse(r *model.Reservation) reservationResponse {
	return reservationResponse{
		ID:                 r.ID,
		TableID:            r.TableID,
		ClientID:           r.ClientID,
		OccursAt:           r.OccursAt.Format(time.RFC3339),
		Date:               r.OccursAt.Format(dateLayout),
		Time:               schedule.TimeOfDayOf(r.OccursAt).String(),
		PartySize:          r.PartySize,
		Status:             string(r.Status),
		Notes:              r.Notes,
		ZonePreference:     string(r.ZonePreference),
		CancellationReason: r.CancellationReason,
		CreatedAt:          r.CreatedAt.Format(time.RFC3339),
	}
}
