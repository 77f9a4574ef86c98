package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// ClientHandler exposes guest record endpoints.
type ClientHandler struct {
	Repo *repository.ClientRepo
}

// NewClientHandler constructs the handler.
func NewClientHandler(repo *repository.ClientRepo) *ClientHandler {
	if repo == nil {
		panic("nil repository passed to NewClientHandler")
	}
	return &ClientHandler{Repo: repo}
}

// clientResponse is the JSON shape for a guest record, including the
// lifetime booking counters kept by the reservation transactions.
type clientResponse struct {
	ID                 uint64  `json:"id"`
	Name               string  `json:"name"`
	Phone              string  `json:"phone"`
	Email              *string `json:"email,omitempty"`
	TotalReservations  uint32  `json:"total_reservations"`
	TotalCancellations uint32  `json:"total_cancellations"`
	CreatedAt          string  `json:"created_at"`
}

func toClientResponse(cl *model.Client) clientResponse {
	return clientResponse{
		ID:                 cl.ID,
		Name:               cl.Name,
		Phone:              cl.Phone,
		Email:              cl.Email,
		TotalReservations:  cl.TotalReservations,
		TotalCancellations: cl.TotalCancellations,
		CreatedAt:          cl.CreatedAt.Format(time.RFC3339),
	}
}

// Create handles POST /v1/clients.  Name and phone are required;
// phone is how the front desk reaches a guest about their booking.
func (h *ClientHandler) Create(c echo.Context) error {
	var body struct {
		Name  string  `json:"name"`
		Phone string  `json:"phone"`
		Email *string `json:"email"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and phone are required"})
	}
	cl := &model.Client{Name: body.Name, Phone: body.Phone, Email: body.Email}
	if err := h.Repo.Create(c.Request().Context(), cl); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"client": toClientResponse(cl)})
}

// Get handles GET /v1/clients/:id.
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cl, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"client": toClientResponse(cl)})
}
