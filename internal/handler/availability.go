package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/cache"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/schedule"
)

// AvailabilityHandler serves the read side of the booking grid: the
// slot sequence, per-table availability for a day and the day's
// occupancy ratio.  Responses for a date are cached in Redis and
// invalidated by the reservation handler on every write.
type AvailabilityHandler struct {
	Hours schedule.OperatingHours
	Repo  *repository.ReservationRepo
	Cache *cache.Availability
}

// NewAvailabilityHandler constructs the handler.  Repo must be
// non-nil; Cache may be a disabled cache but not nil.
func NewAvailabilityHandler(hours schedule.OperatingHours, repo *repository.ReservationRepo, avCache *cache.Availability) *AvailabilityHandler {
	if repo == nil || avCache == nil {
		panic("nil dependency passed to NewAvailabilityHandler")
	}
	return &AvailabilityHandler{Hours: hours, Repo: repo, Cache: avCache}
}

// GetSlots handles GET /v1/slots.  It returns the day's bookable
// time-of-day sequence; the same list the admin grid renders and the
// conflict guard validates against.
func (h *AvailabilityHandler) GetSlots(c echo.Context) error {
	slots, err := h.Hours.Slots()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"open":     h.Hours.Open.String(),
		"close":    h.Hours.Close.String(),
		"interval": h.Hours.Interval,
		"slots":    out,
	})
}

// tableAvailability is one table's row in the availability grid.
type tableAvailability struct {
	TableID     uint64          `json:"table_id"`
	TableNumber uint32          `json:"table_number"`
	Capacity    uint32          `json:"capacity"`
	Zone        string          `json:"zone"`
	Slots       map[string]bool `json:"slots"` // "HH:MM" -> free
}

// availabilityResponse is the JSON shape for a day's grid.
type availabilityResponse struct {
	Date      string              `json:"date"`
	Slots     []string            `json:"slots"`
	Tables    []tableAvailability `json:"tables"`
	Occupancy float64             `json:"occupancy"`
}

// GetAvailability handles GET /v1/availability?date=YYYY-MM-DD.  It
// computes the per-table, per-slot availability map for the date
// from the active reservation set, serving from cache when a fresh
// entry exists.
func (h *AvailabilityHandler) GetAvailability(c echo.Context) error {
	dateStr := c.QueryParam("date")
	if _, err := parseDay(dateStr); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()

	if payload, ok := h.Cache.Get(ctx, dateStr); ok {
		return c.JSONBlob(http.StatusOK, payload)
	}

	resp, err := h.buildAvailability(ctx, dateStr)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode error"})
	}
	h.Cache.Set(ctx, dateStr, payload)
	return c.JSONBlob(http.StatusOK, payload)
}

// GetOccupancy handles GET /v1/occupancy?date=YYYY-MM-DD.  It
// returns the fraction of the day's (table, slot) combinations that
// are occupied; a derived read over the same availability map.
func (h *AvailabilityHandler) GetOccupancy(c echo.Context) error {
	day, err := parseDay(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	resp, err := h.buildAvailability(ctx, day.Format(dateLayout))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"date":      resp.Date,
		"occupancy": resp.Occupancy,
	})
}

func (h *AvailabilityHandler) buildAvailability(ctx context.Context, dateStr string) (*availabilityResponse, error) {
	day, err := parseDay(dateStr)
	if err != nil {
		return nil, err
	}
	tables, err := h.Repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := h.Repo.ListActiveByDate(ctx, day)
	if err != nil {
		return nil, err
	}
	m, err := schedule.ComputeAvailability(h.Hours, day, tables, reservations)
	if err != nil {
		return nil, err
	}

	slotStrs := make([]string, 0, len(m.Slots))
	for _, s := range m.Slots {
		slotStrs = append(slotStrs, s.String())
	}
	rows := make([]tableAvailability, 0, len(tables))
	for _, t := range tables { // already ordered by table number
		slots := make(map[string]bool, len(m.Slots))
		for _, s := range m.Slots {
			slots[s.String()] = m.Available(t.ID, s)
		}
		rows = append(rows, tableAvailability{
			TableID:     t.ID,
			TableNumber: t.Number,
			Capacity:    t.Capacity,
			Zone:        t.Zone,
			Slots:       slots,
		})
	}
	return &availabilityResponse{
		Date:      dateStr,
		Slots:     slotStrs,
		Tables:    rows,
		Occupancy: m.Occupancy(),
	}, nil
}
