package api

import (
	"net/http"

	reqdto "sessionpass/internal/handler/dto/request"
	resdto "sessionpass/internal/handler/dto/response"
	"sessionpass/internal/handler/httperr"
	"sessionpass/internal/pkg/errs"
	"sessionpass/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SubscriptionHandler struct {
	subscriptionCommands commands.SubscriptionCommands
}

func NewSubscriptionHandler(subscriptionCommands commands.SubscriptionCommands) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionCommands: subscriptionCommands,
	}
}

// @Summary Generate redemption QR code
// @Description Issue a short-lived single-use code against the user's active subscription
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body reqdto.GenerateQRRequest true "QR generation request"
// @Success 200 {object} resdto.GenerateQRResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/subscription/generate-qr [post]
func (h *SubscriptionHandler) GenerateQR(c *gin.Context) {
	var req reqdto.GenerateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_request", "userId is required", nil)
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_request", "userId must be a valid UUID", nil)
		return
	}

	result, err := h.subscriptionCommands.IssueCode(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrNoActiveSubscription):
			httperr.AbortWithError(c, http.StatusNotFound, err, "no_active_subscription", "User has no active subscription", nil)
		case errs.Is(err, errs.ErrInsufficientSessions):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "no_sessions_left", "No sessions left on subscription", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "server_error", "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromIssueCodeResult(result))
}

// @Summary Validate redemption QR code
// @Description Redeem a scanned code, consuming one session atomically
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param request body reqdto.ValidateQRRequest true "QR validation request"
// @Success 200 {object} resdto.ValidateQRResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/subscription/validate-qr [post]
func (h *SubscriptionHandler) ValidateQR(c *gin.Context) {
	var req reqdto.ValidateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_request", "qrCode and adminId are required", nil)
		return
	}

	adminID, err := uuid.Parse(req.AdminID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "invalid_request", "adminId must be a valid UUID", nil)
		return
	}

	result, err := h.subscriptionCommands.ValidateCode(c.Request.Context(), req.QRCode, adminID)
	if err != nil {
		switch {
		case errs.Is(err, errs.ErrCodeNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "invalid_qr", "QR code not found", nil)
		case errs.Is(err, errs.ErrCodeExpired):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "qr_expired", "QR code has expired", nil)
		case errs.Is(err, errs.ErrCodeAlreadyUsed):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "qr_already_used", "QR code has already been used", nil)
		case errs.Is(err, errs.ErrInsufficientSessions):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "no_sessions_left", "No sessions left on subscription", nil)
		case errs.Is(err, errs.ErrOperatorNotAuthorized):
			httperr.AbortWithError(c, http.StatusForbidden, err, "admin_not_found", "Admin is not authorized", nil)
		case errs.Is(err, errs.ErrSubscriptionNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "subscription_not_found", "Subscription not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "server_error", "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromValidateCodeResult(result))
}
