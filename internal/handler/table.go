package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// TableHandler exposes the staff-only table admin endpoints.  Tables
// are never deleted through the API; retiring one clears is_active so
// history keeps pointing at a real row.
type TableHandler struct {
	Repo *repository.TableRepo
}

// NewTableHandler constructs the handler.
func NewTableHandler(repo *repository.TableRepo) *TableHandler {
	if repo == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Repo: repo}
}

// tableResponse is the JSON shape for a dining table.
type tableResponse struct {
	ID        uint64 `json:"id"`
	Number    uint32 `json:"table_number"`
	Capacity  uint32 `json:"capacity"`
	Zone      string `json:"zone"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTableResponse(t *model.Table) tableResponse {
	return tableResponse{
		ID:        t.ID,
		Number:    t.Number,
		Capacity:  t.Capacity,
		Zone:      t.Zone,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /v1/tables.  A duplicate table number is a 409.
func (h *TableHandler) Create(c echo.Context) error {
	var body struct {
		Number   uint32 `json:"table_number"`
		Capacity uint32 `json:"capacity"`
		Zone     string `json:"zone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number must be positive"})
	}
	if body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	t := &model.Table{
		Number:   body.Number,
		Capacity: body.Capacity,
		Zone:     body.Zone,
		IsActive: true,
	}
	if err := h.Repo.Create(c.Request().Context(), t); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"table": toTableResponse(t)})
}

// Update handles PATCH /v1/tables/:id.  Omitted fields keep their
// current value; the row is loaded first so partial updates work.
func (h *TableHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Number   *uint32 `json:"table_number"`
		Capacity *uint32 `json:"capacity"`
		Zone     *string `json:"zone"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Capacity != nil && *body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	if body.Number != nil && *body.Number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number must be positive"})
	}

	ctx := c.Request().Context()
	t, err := h.Repo.GetByID(ctx, id)
	if err != nil {
		return engineError(c, err)
	}
	if body.Number != nil {
		t.Number = *body.Number
	}
	if body.Capacity != nil {
		t.Capacity = *body.Capacity
	}
	if body.Zone != nil {
		t.Zone = *body.Zone
	}
	if body.IsActive != nil {
		t.IsActive = *body.IsActive
	}
	if err := h.Repo.Update(ctx, t); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"table": toTableResponse(t)})
}

// List handles GET /v1/tables.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.Repo.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]tableResponse, 0, len(tables))
	for i := range tables {
		out = append(out, toTableResponse(&tables[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
