package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	reqdto "sessionpass/internal/handler/dto/request"
	resdto "sessionpass/internal/handler/dto/response"
	"sessionpass/internal/handler/httperr"
	"sessionpass/internal/pkg/errs"
	"sessionpass/internal/usecase/commands"
	"sessionpass/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Create payment
// @Description Create a gateway payment for a tariff purchase
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.CreatePaymentRequest true "Payment request"
// @Success 200 {object} resdto.CreatePaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /api/payment [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var req reqdto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_request", "value, userId, orderId, returnUrl and tariffId are required", nil)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_request", "userId must be a valid UUID", nil)
		return
	}
	tariffID, err := uuid.Parse(req.TariffID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_request", "tariffId must be a valid UUID", nil)
		return
	}

	result, err := h.paymentCommands.CreatePayment(c.Request.Context(), commands.CreatePaymentInput{
		AmountValue: req.Value,
		UserID:      userID,
		TariffID:    tariffID,
		OrderID:     req.OrderID,
		ReturnURL:   req.ReturnURL,
	})
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "user_not_found", "User not found", nil)
		case errs.Is(err, errs.ErrTariffNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "tariff_not_found", "Tariff not found", nil)
		case errs.Is(err, errs.ErrGatewayUnavailable):
			httperr.AbortWithError(c, http.StatusBadGateway, err, "gateway_error", "Payment gateway request failed", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "server_error", "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCreatePaymentResult(result))
}

// @Summary Payment gateway notification
// @Description Webhook endpoint for gateway payment-status events
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentNotificationRequest true "Gateway notification"
// @Success 200 {object} resdto.NotificationAckResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/payment/notification [post]
func (h *PaymentHandler) Notification(c *gin.Context) {
	// The gateway payload carries many fields beyond the ones modeled here,
	// so decode leniently instead of binding with unknown fields disallowed.
	var req reqdto.PaymentNotificationRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_request", "Malformed notification payload", nil)
		return
	}
	if req.Event == "" || req.Object.ID == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errors.New("missing event or object.id"),
			"invalid_request", "Malformed notification payload", nil)
		return
	}

	evt := commands.GatewayEvent{
		PaymentID: req.Object.ID,
		Status:    req.Object.Status,
		Paid:      req.Object.Paid,
	}
	if req.Object.CapturedAt != nil {
		if t, err := time.Parse(time.RFC3339, *req.Object.CapturedAt); err == nil {
			evt.CapturedAt = &t
		}
	}
	if raw, ok := req.Object.Metadata["userId"]; ok {
		if id, err := uuid.Parse(raw); err == nil {
			evt.UserID = &id
		}
	}
	if raw, ok := req.Object.Metadata["tariffId"]; ok {
		if id, err := uuid.Parse(raw); err == nil {
			evt.TariffID = &id
		}
	}

	if err := h.paymentCommands.HandleGatewayEvent(c.Request.Context(), evt); err != nil {
		switch {
		case errs.Is(err, errs.ErrPaymentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "payment_not_found", "Unknown payment", nil)
		default:
			// Non-success tells the gateway to redeliver later.
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "server_error", "Failed to record payment event", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.NotificationAckResponse{Status: "ok"})
}

// @Summary Payment status
// @Description Fetch the current status of a payment
// @Tags payments
// @Produce json
// @Param paymentId path string true "Payment ID"
// @Success 200 {object} resdto.PaymentStatusResponse
// @Failure 404 {object} httperr.Response
// @Router /api/payment/{paymentId}/status [get]
func (h *PaymentHandler) Status(c *gin.Context) {
	paymentID := c.Param("paymentId")

	view, err := h.paymentQueries.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrPaymentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "payment_not_found", "Payment not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "server_error", "Internal server error", nil)
		}
		return
	}

	resp, err := resdto.FromPaymentView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "server_error", "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}
