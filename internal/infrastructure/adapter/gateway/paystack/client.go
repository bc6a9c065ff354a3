// Package paystack implements the payment gateway ports against the Paystack REST API.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/gateway"
)

// DefaultBaseURL is the production API root
const DefaultBaseURL = "https://api.paystack.co"

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 1 << 20

// Config contains client settings
type Config struct {
	BaseURL     string
	SecretKey   string
	CallbackURL string
	Currency    string
	Timeout     time.Duration
}

// Client talks to Paystack over HTTPS
type Client struct {
	config     Config
	httpClient *http.Client
	logger     coreport.Logger
}

var (
	_ gateway.PaymentGateway = (*Client)(nil)
	_ gateway.BankDirectory  = (*Client)(nil)
)

// NewClient creates a new Client
func NewClient(config Config, logger coreport.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Currency == "" {
		config.Currency = "NGN"
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// envelope is the wrapper around every Paystack response
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// do sends a request and decodes data into out. Non-2xx and status=false
// responses become ErrProviderUnavailable tagged with the operation.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: encoding request: %s", errs.ErrProviderUnavailable, operation, err.Error())
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", errs.ErrProviderUnavailable, operation, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Paystack request failed", map[string]any{
			"operation": operation,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrProviderUnavailable, operation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: reading response: %s", errs.ErrProviderUnavailable, operation, err.Error())
	}

	c.logger.Debug("Paystack response", map[string]any{
		"operation":   operation,
		"status_code": resp.StatusCode,
		"elapsed_ms":  time.Since(start).Milliseconds(),
	})

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := http.StatusText(resp.StatusCode)
		if decodeErr == nil && env.Message != "" {
			message = env.Message
		}
		c.logger.Warn("Paystack rejected request", map[string]any{
			"operation":   operation,
			"status_code": resp.StatusCode,
			"message":     message,
		})
		return nil, fmt.Errorf("%w: %s: http %d: %s", errs.ErrProviderUnavailable, operation, resp.StatusCode, message)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %s: decoding response: %s", errs.ErrProviderUnavailable, operation, decodeErr.Error())
	}
	if !env.Status {
		return nil, fmt.Errorf("%w: %s: %s", errs.ErrProviderUnavailable, operation, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("%w: %s: decoding data: %s", errs.ErrProviderUnavailable, operation, err.Error())
		}
	}
	return &env, nil
}

// InitializeDeposit opens a hosted checkout. Amount is in kobo.
func (c *Client) InitializeDeposit(ctx context.Context, email string, amount int64, reference string) (*gateway.DepositCheckout, error) {
	request := map[string]any{
		"email":     email,
		"amount":    amount,
		"reference": reference,
	}
	if c.config.CallbackURL != "" {
		request["callback_url"] = c.config.CallbackURL
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if _, err := c.do(ctx, "initialize_deposit", http.MethodPost, "/transaction/initialize", request, &data); err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: initialize_deposit: missing authorization_url", errs.ErrProviderUnavailable)
	}
	if data.Reference == "" {
		data.Reference = reference
	}

	return &gateway.DepositCheckout{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// VerifyDeposit fetches the checkout state
func (c *Client) VerifyDeposit(ctx context.Context, reference string) (*gateway.DepositVerification, error) {
	var data struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
		Amount    int64  `json:"amount"`
	}
	path := "/transaction/verify/" + url.PathEscape(reference)
	if _, err := c.do(ctx, "verify_deposit", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	if data.Reference == "" {
		data.Reference = reference
	}

	return &gateway.DepositVerification{
		Reference: data.Reference,
		Status:    strings.ToLower(data.Status),
		Amount:    data.Amount,
	}, nil
}

// RegisterPayoutRecipient creates a NUBAN transfer recipient
func (c *Client) RegisterPayoutRecipient(ctx context.Context, name, accountNumber, bankCode string) (*gateway.PayoutRecipient, error) {
	request := map[string]any{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       c.config.Currency,
	}

	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if _, err := c.do(ctx, "register_recipient", http.MethodPost, "/transferrecipient", request, &data); err != nil {
		return nil, err
	}
	return &gateway.PayoutRecipient{RecipientCode: data.RecipientCode}, nil
}

// InitiatePayout moves amount from the merchant balance to the recipient
func (c *Client) InitiatePayout(ctx context.Context, amount int64, recipientCode, reference, reason string) (*gateway.PayoutResult, error) {
	request := map[string]any{
		"source":    "balance",
		"amount":    amount,
		"recipient": recipientCode,
		"reference": reference,
		"reason":    reason,
	}

	var data struct {
		TransferCode string `json:"transfer_code"`
		Status       string `json:"status"`
	}
	env, err := c.do(ctx, "initiate_payout", http.MethodPost, "/transfer", request, &data)
	if err != nil {
		return nil, err
	}

	status := strings.ToLower(data.Status)
	return &gateway.PayoutResult{
		Accepted:     status != "failed" && status != "reversed",
		TransferCode: data.TransferCode,
		Status:       status,
		Message:      env.Message,
	}, nil
}

// ListBanks lists the banks of a country
func (c *Client) ListBanks(ctx context.Context, country string) ([]gateway.Bank, error) {
	query := url.Values{}
	if country != "" {
		query.Set("country", country)
	}
	path := "/bank"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var data []struct {
		Name string `json:"name"`
		Code string `json:"code"`
		Slug string `json:"slug"`
	}
	if _, err := c.do(ctx, "list_banks", http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}

	banks := make([]gateway.Bank, 0, len(data))
	for _, b := range data {
		banks = append(banks, gateway.Bank{Name: b.Name, Code: b.Code, Slug: b.Slug})
	}
	return banks, nil
}

// ResolveAccount looks up the holder of a bank account
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*gateway.ResolvedAccount, error) {
	query := url.Values{}
	query.Set("account_number", accountNumber)
	query.Set("bank_code", bankCode)

	var data struct {
		AccountNumber string `json:"account_number"`
		AccountName   string `json:"account_name"`
		BankID        int64  `json:"bank_id"`
	}
	if _, err := c.do(ctx, "resolve_account", http.MethodGet, "/bank/resolve?"+query.Encode(), nil, &data); err != nil {
		return nil, err
	}

	return &gateway.ResolvedAccount{
		AccountNumber: data.AccountNumber,
		AccountName:   data.AccountName,
		BankID:        data.BankID,
	}, nil
}
