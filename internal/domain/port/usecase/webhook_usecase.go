package usecase

import (
	"context"
)

// WebhookStatus is the acknowledgement returned to the gateway
type WebhookStatus string

const (
	WebhookSuccess WebhookStatus = "success"
	WebhookIgnored WebhookStatus = "ignored"
	WebhookError   WebhookStatus = "error"
)

// WebhookResult is the body returned to the gateway
type WebhookResult struct {
	Status  WebhookStatus
	Message string
}

// WebhookUseCase admits signed gateway notifications
type WebhookUseCase interface {
	// Process verifies the signature over the raw body, parses it and applies recognized events
	Process(ctx context.Context, body []byte, signature string) (*WebhookResult, error)
}
