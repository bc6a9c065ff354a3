package handler

import (
	"errors"
	"io"
	"net/http"

	domainerr "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// WebhookHandler admits gateway notifications
type WebhookHandler struct {
	gate            usecase.WebhookUseCase
	signatureHeader string
	maxBodyBytes    int64
	logger          coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(gate usecase.WebhookUseCase, signatureHeader string, maxBodyBytes int64, logger coreport.Logger) *WebhookHandler {
	if signatureHeader == "" {
		signatureHeader = "x-paystack-signature"
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 1 << 20
	}
	return &WebhookHandler{
		gate:            gate,
		signatureHeader: signatureHeader,
		maxBodyBytes:    maxBodyBytes,
		logger:          logger,
	}
}

// Paystack handles POST /wallet/paystack/webhook. The signature covers the raw
// body, so it is read before any decoding.
func (h *WebhookHandler) Paystack(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("Webhook body too large", map[string]any{
				"limit": h.maxBodyBytes,
			})
		}
		_ = c.Error(domainerr.ErrMalformedPayload)
		return
	}

	result, err := h.gate.Process(c.Request.Context(), body, c.GetHeader(h.signatureHeader))
	if err != nil {
		// Authentication and validation errors keep their 4xx status; anything
		// else is a 500 so the gateway redelivers
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{
		Status:  string(result.Status),
		Message: result.Message,
	})
}
