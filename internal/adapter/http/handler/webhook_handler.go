package handler

import (
	"encoding/json"
	"time"

	"supplier-payout-gateway/internal/adapter/http/dto"
	"supplier-payout-gateway/internal/core/domain"
	"supplier-payout-gateway/internal/core/ports"
	"supplier-payout-gateway/pkg/apperror"
	"supplier-payout-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WebhookHandler receives transfer status notifications from the payout provider.
type WebhookHandler struct {
	dispatcher ports.EventDispatcher
	log        zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(dispatcher ports.EventDispatcher, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher, log: log}
}

// Receive handles POST /api/v1/webhooks/cashfree. Notifications for unknown
// transfers and duplicates are acknowledged with 200 so the sender stops
// retrying; storage failures answer 5xx so it retries.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload dto.TransferWebhook
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		response.Error(c, apperror.Validation("malformed notification payload"))
		return
	}

	transferID, cfTransferID, status, utr, reason := payload.Normalized()
	if transferID == "" && cfTransferID == "" {
		response.Error(c, apperror.Validation("notification carries no transfer reference"))
		return
	}
	if status == "" {
		response.Error(c, apperror.Validation("notification carries no status"))
		return
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), domain.TransferNotification{
		TransferID:       transferID,
		RemoteTransferID: cfTransferID,
		RawStatus:        status,
		UTR:              utr,
		FailureReason:    reason,
		Source:           domain.SourceWebhook,
		ReceivedAt:       time.Now().UTC(),
	})
	if err != nil {
		h.log.Error().Err(err).Str("transfer_id", transferID).Str("cf_transfer_id", cfTransferID).Msg("notification handling failed")
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NotificationResponse{
		Status:      "ok",
		Disposition: string(result.Disposition),
		RequestID:   result.RequestID,
	})
}
