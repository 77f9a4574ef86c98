package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/cache"
	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/notifier"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/schedule"
)

// ReservationHandler drives the reservation lifecycle over HTTP.
// Every write goes through the scheduling engine; on success the
// handler invalidates the availability cache for the touched dates
// and hands an event to the notification queue.  Publication runs in
// a goroutine and its outcome is ignored: a broker outage must never
// fail a booking.
type ReservationHandler struct {
	Engine  *schedule.Engine
	Repo    *repository.ReservationRepo
	Clients *repository.ClientRepo
	Cache   *cache.Availability
}

// NewReservationHandler constructs the handler.  All dependencies
// must be non-nil.
func NewReservationHandler(engine *schedule.Engine, repo *repository.ReservationRepo, clients *repository.ClientRepo, avCache *cache.Availability) *ReservationHandler {
	if engine == nil || repo == nil || clients == nil || avCache == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Engine: engine, Repo: repo, Clients: clients, Cache: avCache}
}

// Create handles POST /v1/reservations.  The body carries the table,
// client, date ("YYYY-MM-DD"), time ("HH:MM"), party size and the
// optional notes and zone preference.  Capacity, operating hours and
// collisions are checked by the engine; a concurrent booking losing
// the storage race receives 409 like any other taken slot.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body struct {
		TableID        uint64  `json:"table_id"`
		ClientID       uint64  `json:"client_id"`
		Date           string  `json:"date"`
		Time           string  `json:"time"`
		PartySize      uint32  `json:"party_size"`
		Notes          *string `json:"notes"`
		ZonePreference string  `json:"zone_preference"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.TableID == 0 || body.ClientID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id and client_id are required"})
	}
	if body.PartySize == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
	}
	occursAt, err := parseOccursAt(body.Date, body.Time)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	zone := model.ZonePreference(body.ZonePreference)
	if body.ZonePreference == "" {
		zone = model.ZoneNone
	}
	if !zone.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone_preference"})
	}

	ctx := c.Request().Context()
	client, err := h.Clients.GetByID(ctx, body.ClientID)
	if err != nil {
		return engineError(c, err)
	}

	r, err := h.Engine.Create(ctx, schedule.CreateRequest{
		TableID:        body.TableID,
		ClientID:       body.ClientID,
		OccursAt:       occursAt,
		PartySize:      body.PartySize,
		Notes:          body.Notes,
		ZonePreference: zone,
	})
	if err != nil {
		return engineError(c, err)
	}

	h.Cache.Invalidate(ctx, r.OccursAt.Format(dateLayout))
	h.publish(queue.KindConfirmed, r, client, "")
	return c.JSON(http.StatusCreated, echo.Map{"reservation": toReservationResponse(r)})
}

// Reschedule handles PATCH /v1/reservations/:id.  Any of table_id,
// date/time and party_size may change; omitted fields keep their
// current value.  The engine re-validates capacity and collisions,
// excluding the reservation's own row so a no-op move succeeds.
func (h *ReservationHandler) Reschedule(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		TableID   *uint64 `json:"table_id"`
		Date      *string `json:"date"`
		Time      *string `json:"time"`
		PartySize *uint32 `json:"party_size"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PartySize != nil && *body.PartySize == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "party_size must be positive"})
	}
	req := schedule.RescheduleRequest{TableID: body.TableID, PartySize: body.PartySize}

	ctx := c.Request().Context()
	var oldDate string
	if body.Date != nil || body.Time != nil {
		// Date and time travel together on the wire; fill the missing
		// half from the current reservation.
		current, err := h.Repo.GetReservation(ctx, id)
		if err != nil {
			return engineError(c, err)
		}
		oldDate = current.OccursAt.Format(dateLayout)
		date := oldDate
		clock := schedule.TimeOfDayOf(current.OccursAt).String()
		if body.Date != nil {
			date = *body.Date
		}
		if body.Time != nil {
			clock = *body.Time
		}
		occursAt, err := parseOccursAt(date, clock)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		req.OccursAt = &occursAt
	}

	r, err := h.Engine.Reschedule(ctx, id, req)
	if err != nil {
		return engineError(c, err)
	}

	newDate := r.OccursAt.Format(dateLayout)
	if oldDate != "" && oldDate != newDate {
		h.Cache.Invalidate(ctx, oldDate, newDate)
	} else {
		h.Cache.Invalidate(ctx, newDate)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": toReservationResponse(r)})
}

// Cancel handles POST /v1/reservations/:id/cancel.  The optional
// body carries a free-text reason.  Cancellation has no collision
// check and frees the slot the moment the write lands.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Reason *string `json:"reason"`
	}
	// An empty body is a cancellation without reason.
	_ = c.Bind(&body)

	ctx := c.Request().Context()
	r, err := h.Engine.Cancel(ctx, id, body.Reason)
	if err != nil {
		return engineError(c, err)
	}

	h.Cache.Invalidate(ctx, r.OccursAt.Format(dateLayout))
	reason := ""
	if r.CancellationReason != nil {
		reason = *r.CancellationReason
	}
	client, cerr := h.Clients.GetByID(ctx, r.ClientID)
	if cerr == nil {
		h.publish(queue.KindCancelled, r, client, reason)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": toReservationResponse(r)})
}

// Complete handles POST /v1/reservations/:id/complete (staff only).
// It marks the visit as served; the historical slot stays occupied
// and no notification is emitted.
func (h *ReservationHandler) Complete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	r, err := h.Engine.Complete(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": toReservationResponse(r)})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	r, err := h.Repo.GetReservation(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": toReservationResponse(r)})
}

// ListByDate handles GET /v1/reservations?date=YYYY-MM-DD (staff).
// It returns every reservation on the day regardless of status, the
// raw material for the day grid.
func (h *ReservationHandler) ListByDate(c echo.Context) error {
	day, err := parseDay(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	items, err := h.Repo.ListByDate(c.Request().Context(), day)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]reservationResponse, 0, len(items))
	for i := range items {
		out = append(out, toReservationResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListByClient handles GET /v1/clients/:id/reservations.
func (h *ReservationHandler) ListByClient(c echo.Context) error {
	clientID, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	ctx := c.Request().Context()
	if _, err := h.Clients.GetByID(ctx, clientID); err != nil {
		return engineError(c, err)
	}
	items, err := h.Repo.ListByClient(ctx, clientID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]reservationResponse, 0, len(items))
	for i := range items {
		out = append(out, toReservationResponse(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// publish hands a reservation event to the notification queue from a
// goroutine with its own timeout, detached from the request context.
func (h *ReservationHandler) publish(kind string, r *model.Reservation, client *model.Client, reason string) {
	table, err := h.Repo.GetTable(context.Background(), r.TableID)
	if err != nil {
		return
	}
	ev := queue.ReservationEvent{
		Kind:           kind,
		ReservationID:  r.ID,
		TableNumber:    table.Number,
		ClientID:       client.ID,
		ClientName:     client.Name,
		ClientPhone:    client.Phone,
		OccursAt:       r.OccursAt.Format(time.RFC3339),
		PartySize:      r.PartySize,
		ZonePreference: string(r.ZonePreference),
		Reason:         reason,
		EmittedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = notifier.Publish(ctx, ev)
	}()
}

// parseOccursAt combines a date and a wall-clock time into the
// reservation timestamp.
func parseOccursAt(date, clock string) (time.Time, error) {
	day, err := parseDay(date)
	if err != nil {
		return time.Time{}, err
	}
	t, err := schedule.ParseTimeOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	return t.At(day), nil
}
