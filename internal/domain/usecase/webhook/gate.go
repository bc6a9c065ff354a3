package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/usecase"
)

// Gateway event names handled by the gate
const (
	EventChargeSuccess    = "charge.success"
	EventTransferSuccess  = "transfer.success"
	EventTransferFailed   = "transfer.failed"
	EventTransferReversed = "transfer.reversed"
)

// Acknowledgement messages
const (
	MessageApplied          = "Webhook processed"
	MessageAlreadyProcessed = "Transaction already processed"
	MessageNotMonitored     = "Event type not monitored"
	MessageNotFound         = "Transaction not found"
)

// Metric results
const (
	resultApplied  = "applied"
	resultIgnored  = "ignored"
	resultRejected = "rejected"
	resultNotFound = "not_found"
	resultConflict = "conflict"
	resultFailed   = "failed"
	eventUnknown   = "unknown"
)

// Payload is the notification body
type Payload struct {
	Event string      `json:"event"`
	Data  PayloadData `json:"data"`
}

// PayloadData carries the fields of the event the ledger reads
type PayloadData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// Gate admits signed gateway notifications and applies them to the wallet engine
type Gate struct {
	wallet   usecase.WalletUseCase
	verifier *Verifier
	metrics  coreport.Metrics
	logger   coreport.Logger
}

var _ usecase.WebhookUseCase = (*Gate)(nil)

// NewGate creates a new Gate
func NewGate(wallet usecase.WalletUseCase, verifier *Verifier, metrics coreport.Metrics, logger coreport.Logger) *Gate {
	return &Gate{
		wallet:   wallet,
		verifier: verifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Process verifies, parses and applies a notification.
// Not-found and conflicting events are acknowledged with status error and a nil error,
// so the gateway stops redelivering them. Any returned error should be redelivered
// unless it is an authentication or validation error.
func (g *Gate) Process(ctx context.Context, body []byte, signature string) (*usecase.WebhookResult, error) {
	if err := g.verifier.Verify(body, signature); err != nil {
		g.metrics.RecordWebhook(eventUnknown, resultRejected)
		g.logger.Warn("Webhook signature rejected", map[string]any{
			"error": err.Error(),
		})
		return nil, err
	}

	payload, err := Parse(body)
	if err != nil {
		g.metrics.RecordWebhook(eventUnknown, resultRejected)
		return nil, err
	}

	result, err := g.dispatch(ctx, payload)
	if err != nil {
		return g.failure(payload, err)
	}

	g.metrics.RecordWebhook(payload.Event, metricResult(result.Status))
	g.logger.Info("Webhook processed", map[string]any{
		"event":     payload.Event,
		"reference": payload.Data.Reference,
		"status":    string(result.Status),
	})
	return result, nil
}

// Parse decodes the body. Recognized events must carry a reference.
func Parse(body []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrMalformedPayload, err.Error())
	}
	if recognized(payload.Event) && payload.Data.Reference == "" {
		return nil, fmt.Errorf("%w: %s event without reference", errs.ErrMalformedPayload, payload.Event)
	}
	return &payload, nil
}

func recognized(event string) bool {
	switch event {
	case EventChargeSuccess, EventTransferSuccess, EventTransferFailed, EventTransferReversed:
		return true
	}
	return false
}

func (g *Gate) dispatch(ctx context.Context, payload *Payload) (*usecase.WebhookResult, error) {
	var (
		confirmation *usecase.Confirmation
		err          error
	)

	switch payload.Event {
	case EventChargeSuccess:
		confirmation, err = g.wallet.ConfirmDeposit(ctx, payload.Data.Reference, payload.Data.Amount)
	case EventTransferSuccess:
		confirmation, err = g.wallet.SettleWithdrawal(ctx, payload.Data.Reference)
	case EventTransferFailed, EventTransferReversed:
		confirmation, err = g.wallet.ReverseWithdrawal(ctx, payload.Data.Reference, reversalReason(payload))
	default:
		g.logger.Debug("Ignoring webhook event", map[string]any{
			"event": payload.Event,
		})
		return &usecase.WebhookResult{Status: usecase.WebhookIgnored, Message: MessageNotMonitored}, nil
	}
	if err != nil {
		return nil, err
	}

	if confirmation.Outcome == usecase.OutcomeAlreadyProcessed {
		return &usecase.WebhookResult{Status: usecase.WebhookIgnored, Message: MessageAlreadyProcessed}, nil
	}
	return &usecase.WebhookResult{Status: usecase.WebhookSuccess, Message: MessageApplied}, nil
}

func reversalReason(payload *Payload) string {
	if payload.Data.Reason != "" {
		return payload.Data.Reason
	}
	if payload.Event == EventTransferReversed {
		return "payout reversed at provider"
	}
	return ""
}

// failure acknowledges errors that redelivery cannot fix and surfaces the rest
func (g *Gate) failure(payload *Payload, err error) (*usecase.WebhookResult, error) {
	fields := map[string]any{
		"event":     payload.Event,
		"reference": payload.Data.Reference,
		"error":     err.Error(),
	}

	switch {
	case errs.IsNotFoundError(err):
		g.metrics.RecordWebhook(payload.Event, resultNotFound)
		g.logger.Warn("Webhook for unknown transaction", fields)
		return &usecase.WebhookResult{Status: usecase.WebhookError, Message: MessageNotFound}, nil
	case errs.IsConflictError(err):
		g.metrics.RecordWebhook(payload.Event, resultConflict)
		g.logger.Warn("Webhook conflicts with stored transaction", fields)
		return &usecase.WebhookResult{Status: usecase.WebhookError, Message: errs.PublicMessage(err)}, nil
	}

	g.metrics.RecordWebhook(payload.Event, resultFailed)
	var consistency *errs.ConsistencyError
	if errors.As(err, &consistency) {
		for k, v := range consistency.LogFields() {
			fields[k] = v
		}
	}
	g.logger.Error("Webhook processing failed", fields)
	return nil, err
}

func metricResult(status usecase.WebhookStatus) string {
	if status == usecase.WebhookSuccess {
		return resultApplied
	}
	return resultIgnored
}
