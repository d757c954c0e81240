package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tourneyhub/internal/service"
)

// ModerationHandler exposes the message safety check.
type ModerationHandler struct {
	moderationService service.ModerationService
}

// NewModerationHandler creates a new moderation handler.
func NewModerationHandler(moderationService service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

// ModerationRequest carries the message to screen.
type ModerationRequest struct {
	Message string `json:"message" validate:"required"`
}

// Check godoc
// @Summary Check a forum message
// @Tags moderation
// @Accept json
// @Produce json
// @Param request body ModerationRequest true "Message (1-500 characters)"
// @Success 200 {object} moderation.Verdict
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /moderation/check [post]
func (h *ModerationHandler) Check(c echo.Context) error {
	var req ModerationRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	verdict, err := h.moderationService.Check(c.Request().Context(), req.Message)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, verdict)
}
