package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	if ErrInsufficientFunds.Error() != "insufficient funds" {
		t.Errorf("ErrInsufficientFunds has unexpected message: %s", ErrInsufficientFunds.Error())
	}
	if ErrInvalidAmount.Error() != "amount must be positive" {
		t.Errorf("ErrInvalidAmount has unexpected message: %s", ErrInvalidAmount.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InsufficientFunds", ErrInsufficientFunds, CodeInsufficientFunds},
		{"InvalidAmount", ErrInvalidAmount, CodeInvalidAmount},
		{"SelfTransfer", ErrSelfTransfer, CodeSelfTransfer},
		{"TransactionNotFound", ErrTransactionNotFound, CodeTransactionNotFound},
		{"UnknownError", errors.New("unknown error"), CodeInternalServer},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrPINAlreadySet), CodePINAlreadySet},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		kind       Kind
		httpStatus int
	}{
		{"Validation", ErrInvalidPINFormat, KindValidation, http.StatusBadRequest},
		{"Authentication", ErrInvalidSignature, KindAuthentication, http.StatusUnauthorized},
		{"Authorization", ErrMissingPermission, KindAuthorization, http.StatusForbidden},
		{"NotFound", ErrRecipientNotFound, KindNotFound, http.StatusNotFound},
		{"Conflict", ErrAmountMismatch, KindConflict, http.StatusConflict},
		{"InsufficientFunds", ErrInsufficientFunds, KindInsufficientFunds, http.StatusBadRequest},
		{"Provider", ErrProviderTransfer, KindExternalProvider, http.StatusBadGateway},
		{"Consistency", ErrCompensationFailed, KindInternalConsistency, http.StatusInternalServerError},
		{"Unclassified", errors.New("boom"), KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tc.err)
			if got := KindOf(wrapped); got != tc.kind {
				t.Errorf("KindOf(%v) = %v, want %v", wrapped, got, tc.kind)
			}
			if got := HTTPStatus(wrapped); got != tc.httpStatus {
				t.Errorf("HTTPStatus(%v) = %d, want %d", wrapped, got, tc.httpStatus)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	wrapped := fmt.Errorf("select failed: pq: relation missing: %w", ErrWalletNotFound)
	if got := PublicMessage(wrapped); got != "wallet not found" {
		t.Errorf("PublicMessage() = %q, want %q", got, "wallet not found")
	}
	if got := PublicMessage(errors.New("raw driver error")); got != "internal server error" {
		t.Errorf("PublicMessage() = %q, want generic message", got)
	}
}

func TestProviderError(t *testing.T) {
	cause := fmt.Errorf("%w: timeout", ErrProviderTransfer)
	providerErr := NewProviderError("initiate_payout", "wth-1", 5000, true, cause)

	if !errors.Is(providerErr, ErrProviderTransfer) {
		t.Error("ProviderError should unwrap to ErrProviderTransfer")
	}
	if KindOf(providerErr) != KindExternalProvider {
		t.Errorf("KindOf(ProviderError) = %v, want %v", KindOf(providerErr), KindExternalProvider)
	}

	var pe *ProviderError
	if !errors.As(providerErr, &pe) {
		t.Fatal("errors.As should find *ProviderError")
	}
	fields := pe.LogFields()
	if fields["step"] != "initiate_payout" {
		t.Errorf("LogFields step = %v, want initiate_payout", fields["step"])
	}
	if fields["compensated"] != true {
		t.Errorf("LogFields compensated = %v, want true", fields["compensated"])
	}
	if fields["error_code"] != CodeProviderTransfer {
		t.Errorf("LogFields error_code = %v, want %d", fields["error_code"], CodeProviderTransfer)
	}
}

func TestConsistencyError(t *testing.T) {
	err := NewConsistencyError("withdraw_compensate", "wth-2", 700, errors.New("connection reset"))

	if !errors.Is(err, ErrCompensationFailed) {
		t.Error("ConsistencyError should match ErrCompensationFailed")
	}
	if ErrorCode(err) != CodeCompensationFailed {
		t.Errorf("ErrorCode(ConsistencyError) = %d, want %d", ErrorCode(err), CodeCompensationFailed)
	}

	var ce *ConsistencyError
	if !errors.As(err, &ce) {
		t.Fatal("errors.As should find *ConsistencyError")
	}
	if ce.LogFields()["alert"] != "manual_reconciliation_required" {
		t.Errorf("LogFields alert = %v", ce.LogFields()["alert"])
	}
}

func TestHelpers(t *testing.T) {
	if !IsNotFoundError(fmt.Errorf("x: %w", ErrUserNotFound)) {
		t.Error("IsNotFoundError should be true for ErrUserNotFound")
	}
	if IsNotFoundError(ErrSelfTransfer) {
		t.Error("IsNotFoundError should be false for ErrSelfTransfer")
	}
	if !IsConflictError(ErrIdempotencyKeyReused) {
		t.Error("IsConflictError should be true for ErrIdempotencyKeyReused")
	}
	if !IsInsufficientFundsError(fmt.Errorf("debit: %w", ErrInsufficientFunds)) {
		t.Error("IsInsufficientFundsError should be true for wrapped ErrInsufficientFunds")
	}
}
