package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	apperrors "tourneyhub/internal/errors"
	"tourneyhub/internal/middleware"
	"tourneyhub/internal/model"
	"tourneyhub/internal/service"
)

// PaymentHandler serves the payment ledger.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// DecideRequest represents a validation decision.
type DecideRequest struct {
	Status model.PaymentStatus `json:"status" validate:"required,oneof=approved rejected"`
}

// PaymentResponse wraps a payment with a confirmation message.
type PaymentResponse struct {
	Message string         `json:"message"`
	Payment *model.Payment `json:"payment"`
}

// Submit godoc
// @Summary Submit payment evidence
// @Tags payments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Receipt (JPEG, PNG, WEBP, GIF or PDF)"
// @Param eventId formData string true "Event ID"
// @Param amount formData string true "Amount paid; must equal the event fee"
// @Success 201 {object} PaymentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /payments/submit [post]
func (h *PaymentHandler) Submit(c echo.Context) error {
	fields := map[string]string{}

	eventID, err := uuid.Parse(strings.TrimSpace(c.FormValue("eventId")))
	if err != nil {
		fields["eventId"] = "must be a valid UUID"
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(c.FormValue("amount")))
	if err != nil {
		fields["amount"] = "must be a decimal number"
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fields["file"] = "is required"
	}
	if len(fields) > 0 {
		return apperrors.Validation("missing or invalid fields", fields)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	session := middleware.SessionFrom(c)
	payment, err := h.paymentService.Submit(c.Request().Context(), service.SubmitInput{
		UserID:   session.ID,
		Username: session.Username,
		EventID:  eventID,
		Amount:   amount,
		Evidence: file,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, PaymentResponse{Message: "Evidence submitted successfully", Payment: payment})
}

// ListPending godoc
// @Summary List pending payments
// @Tags payments
// @Produce json
// @Success 200 {array} model.Payment
// @Failure 403 {object} errors.ErrorResponse
// @Router /payments/pending [get]
func (h *PaymentHandler) ListPending(c echo.Context) error {
	payments, err := h.paymentService.ListPending(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

// Decide godoc
// @Summary Approve or reject a payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body DecideRequest true "Decision"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /payments/{id}/validate [put]
func (h *PaymentHandler) Decide(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req DecideRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	session := middleware.SessionFrom(c)
	payment, err := h.paymentService.Decide(c.Request().Context(), id, req.Status, session.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PaymentResponse{
		Message: fmt.Sprintf("Payment %s successfully", payment.Status),
		Payment: payment,
	})
}

// Summary godoc
// @Summary Ledger totals
// @Tags payments
// @Produce json
// @Success 200 {object} model.PaymentSummary
// @Failure 403 {object} errors.ErrorResponse
// @Router /payments/summary [get]
func (h *PaymentHandler) Summary(c echo.Context) error {
	summary, err := h.paymentService.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
