package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tourneyhub/internal/middleware"
	"tourneyhub/internal/model"
	"tourneyhub/internal/service"
)

// EventHandler serves the event registry.
type EventHandler struct {
	eventService service.EventService
}

// NewEventHandler creates a new event handler.
func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEventRequest represents a new tournament or raffle. Range and prize
// consistency rules are checked by the registry.
type CreateEventRequest struct {
	Name        string           `json:"name" validate:"required"`
	Type        model.EventType  `json:"type" validate:"required"`
	Game        string           `json:"game" validate:"required"`
	GameMode    string           `json:"gameMode"`
	PrizeType   model.PrizeType  `json:"prizeType" validate:"required"`
	PrizeMoney  *decimal.Decimal `json:"prizeMoney" swaggertype:"number"`
	PrizeObject *string          `json:"prizeObject"`
	Fee         *decimal.Decimal `json:"fee" validate:"required" swaggertype:"number"`
	Slots       int              `json:"slots" validate:"required"`
	EventDate   time.Time        `json:"eventDate" validate:"required"`
	Description string           `json:"description"`
}

// SetStatusRequest toggles the publish flag.
type SetStatusRequest struct {
	Published *bool `json:"published" validate:"required"`
}

// ListAll godoc
// @Summary List all events
// @Tags events
// @Produce json
// @Success 200 {array} model.Event
// @Failure 403 {object} errors.ErrorResponse
// @Router /events [get]
func (h *EventHandler) ListAll(c echo.Context) error {
	events, err := h.eventService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// ListPublished godoc
// @Summary List published events
// @Tags events
// @Produce json
// @Success 200 {array} model.Event
// @Router /events/published [get]
func (h *EventHandler) ListPublished(c echo.Context) error {
	events, err := h.eventService.ListPublished(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Create godoc
// @Summary Create an event
// @Description New events start unpublished.
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "Event data"
// @Success 201 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	session := middleware.SessionFrom(c)
	event, err := h.eventService.Create(c.Request().Context(), service.CreateEventInput{
		Name:        req.Name,
		Type:        req.Type,
		Game:        req.Game,
		GameMode:    req.GameMode,
		PrizeType:   req.PrizeType,
		PrizeMoney:  req.PrizeMoney,
		PrizeObject: req.PrizeObject,
		Fee:         *req.Fee,
		Slots:       req.Slots,
		EventDate:   req.EventDate,
		Description: req.Description,
	}, session.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

// SetStatus godoc
// @Summary Publish or unpublish an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body SetStatusRequest true "Publish flag"
// @Success 200 {object} model.Event
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /events/{id}/status [put]
func (h *EventHandler) SetStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req SetStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	event, err := h.eventService.SetPublished(c.Request().Context(), id, *req.Published)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}
