package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the caller. Every sentinel in this package has exactly one kind.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
	KindInsufficientFunds
	KindExternalProvider
	KindInternalConsistency
)

// String returns the stable name used in logs and API payloads
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindAuthentication:
		return "AUTHENTICATION_ERROR"
	case KindAuthorization:
		return "AUTHORIZATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindInsufficientFunds:
		return "INSUFFICIENT_FUNDS"
	case KindExternalProvider:
		return "EXTERNAL_PROVIDER_ERROR"
	case KindInternalConsistency:
		return "INTERNAL_CONSISTENCY_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus is the response status used for errors of this kind
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInsufficientFunds:
		return http.StatusBadRequest
	case KindExternalProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount         = 4001
	CodeInvalidPINFormat      = 4002
	CodeInvalidDuration       = 4003
	CodeInvalidWalletNumber   = 4004
	CodeInvalidPagination     = 4005
	CodeMalformedPayload      = 4006
	CodeInvalidRequest        = 4007
	CodeInvalidMetadata       = 4008
	CodeAmountOverflow        = 4009
	CodeUnauthenticated       = 4010
	CodeInvalidSignature      = 4011
	CodeMissingSignature      = 4012
	CodeInvalidPIN            = 4013
	CodeMissingPermission     = 4030
	CodeTransactionForbidden  = 4031
	CodeWalletNotFound        = 4040
	CodeUserNotFound          = 4041
	CodeTransactionNotFound   = 4042
	CodeRecipientNotFound     = 4043
	CodeAccountNotResolved    = 4044
	CodeSelfTransfer          = 4090
	CodePINAlreadySet         = 4091
	CodeAmountMismatch        = 4092
	CodeDuplicateReference    = 4093
	CodeDuplicateUser         = 4094
	CodeIdempotencyKeyReused  = 4095
	CodeOperationInProgress   = 4096
	CodeInvalidTransition     = 4097
	CodeReferenceTypeMismatch = 4098
	CodePINNotSet             = 4099
	CodePayoutAfterRefund     = 4100
	CodeInsufficientFunds     = 4220

	// 5xxx - Server errors
	CodeInternalServer        = 5000
	CodeDatabaseConnection    = 5001
	CodeConstraintViolation   = 5002
	CodeCompensationFailed    = 5003
	CodeCommitFailed          = 5004
	CodeWalletNumberExhausted = 5005
	CodeProviderInitialize    = 5020
	CodeProviderVerify        = 5021
	CodeProviderRegistration  = 5022
	CodeProviderTransfer      = 5023
	CodeProviderUnavailable   = 5024
)

// domainError is a sentinel carrying its kind and code
type domainError struct {
	kind    Kind
	code    int
	message string
}

func (e *domainError) Error() string {
	return e.message
}

func newError(kind Kind, code int, message string) error {
	return &domainError{kind: kind, code: code, message: message}
}

// Base error types
var (
	// ErrInvalidAmount is returned when an amount is zero or negative
	ErrInvalidAmount = newError(KindValidation, CodeInvalidAmount, "amount must be positive")

	// ErrAmountOverflow is returned when a credit would overflow the balance
	ErrAmountOverflow = newError(KindValidation, CodeAmountOverflow, "amount is too large and would cause overflow")

	// ErrInvalidPINFormat is returned when a PIN is not 4 to 6 digits
	ErrInvalidPINFormat = newError(KindValidation, CodeInvalidPINFormat, "PIN must be 4 to 6 digits")

	// ErrInvalidDuration is returned for expiry strings such as "1X" or "D1"
	ErrInvalidDuration = newError(KindValidation, CodeInvalidDuration, "invalid duration format")

	// ErrInvalidWalletNumber is returned when a wallet number is not 10 digits
	ErrInvalidWalletNumber = newError(KindValidation, CodeInvalidWalletNumber, "wallet number must be 10 digits")

	// ErrInvalidPagination is returned for skip < 0 or limit outside 1..100
	ErrInvalidPagination = newError(KindValidation, CodeInvalidPagination, "invalid pagination parameters")

	// ErrMalformedPayload is returned when a webhook body cannot be parsed
	ErrMalformedPayload = newError(KindValidation, CodeMalformedPayload, "malformed payload")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = newError(KindValidation, CodeInvalidRequest, "invalid request")

	// ErrInvalidMetadata is returned when metadata carries keys not recognized for the transaction type
	ErrInvalidMetadata = newError(KindValidation, CodeInvalidMetadata, "invalid transaction metadata")

	// ErrUnauthenticated is returned for a missing or invalid credential
	ErrUnauthenticated = newError(KindAuthentication, CodeUnauthenticated, "authentication required")

	// ErrMissingSignature is returned when the webhook signature header is absent
	ErrMissingSignature = newError(KindAuthentication, CodeMissingSignature, "missing signature header")

	// ErrInvalidSignature is returned when the webhook signature does not match the body
	ErrInvalidSignature = newError(KindAuthentication, CodeInvalidSignature, "invalid signature")

	// ErrInvalidPIN is returned when the supplied PIN does not match the stored hash
	ErrInvalidPIN = newError(KindAuthentication, CodeInvalidPIN, "invalid transaction PIN")

	// ErrMissingPermission is returned when the principal lacks the required permission
	ErrMissingPermission = newError(KindAuthorization, CodeMissingPermission, "missing permission")

	// ErrTransactionAccessDenied is returned when a user reads a transaction owned by another wallet
	ErrTransactionAccessDenied = newError(KindAuthorization, CodeTransactionForbidden, "not authorized to view this transaction")

	// ErrWalletNotFound is returned when the wallet doesn't exist
	ErrWalletNotFound = newError(KindNotFound, CodeWalletNotFound, "wallet not found")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = newError(KindNotFound, CodeUserNotFound, "user not found")

	// ErrTransactionNotFound is returned when no transaction has the given reference
	ErrTransactionNotFound = newError(KindNotFound, CodeTransactionNotFound, "transaction not found")

	// ErrRecipientNotFound is returned when no wallet has the recipient wallet number
	ErrRecipientNotFound = newError(KindNotFound, CodeRecipientNotFound, "recipient wallet not found")

	// ErrAccountNotResolved is returned when the bank cannot name an account holder
	ErrAccountNotResolved = newError(KindNotFound, CodeAccountNotResolved, "could not resolve account, check number and bank")

	// ErrSelfTransfer is returned when sender and recipient are the same wallet
	ErrSelfTransfer = newError(KindConflict, CodeSelfTransfer, "cannot transfer to yourself")

	// ErrPINNotSet is returned when a PIN-guarded operation runs before a PIN exists
	ErrPINNotSet = newError(KindConflict, CodePINNotSet, "transaction PIN not set")

	// ErrPINAlreadySet is returned when a user tries to set a PIN twice
	ErrPINAlreadySet = newError(KindConflict, CodePINAlreadySet, "PIN already set")

	// ErrAmountMismatch is returned when the gateway reports a different amount than recorded
	ErrAmountMismatch = newError(KindConflict, CodeAmountMismatch, "amount paid does not match transaction amount")

	// ErrDuplicateReference is returned when a transaction reference already exists
	ErrDuplicateReference = newError(KindConflict, CodeDuplicateReference, "transaction reference already exists")

	// ErrDuplicateUser is returned when trying to create a user that already exists
	ErrDuplicateUser = newError(KindConflict, CodeDuplicateUser, "user already exists")

	// ErrIdempotencyKeyReused is returned when a key is replayed with a different request
	ErrIdempotencyKeyReused = newError(KindConflict, CodeIdempotencyKeyReused, "idempotency key reused with a different request")

	// ErrOperationInProgress is returned when a key is replayed while the first request is still running
	ErrOperationInProgress = newError(KindConflict, CodeOperationInProgress, "operation with this idempotency key is in progress")

	// ErrInvalidStatusTransition is returned when a terminal transaction is moved again
	ErrInvalidStatusTransition = newError(KindConflict, CodeInvalidTransition, "invalid transaction status transition")

	// ErrReferenceTypeMismatch is returned when a reference belongs to a different transaction type
	ErrReferenceTypeMismatch = newError(KindConflict, CodeReferenceTypeMismatch, "reference belongs to a different transaction type")

	// ErrPayoutAfterRefund is returned when the gateway confirms a payout whose hold was already credited back
	ErrPayoutAfterRefund = newError(KindConflict, CodePayoutAfterRefund, "payout confirmed after the withdrawal was refunded")

	// ErrInsufficientFunds is returned when a wallet cannot cover a debit
	ErrInsufficientFunds = newError(KindInsufficientFunds, CodeInsufficientFunds, "insufficient funds")

	// ErrProviderInitialization is returned when the gateway refuses to start a checkout
	ErrProviderInitialization = newError(KindExternalProvider, CodeProviderInitialize, "payment initialization failed")

	// ErrProviderVerification is returned when the gateway cannot verify a deposit
	ErrProviderVerification = newError(KindExternalProvider, CodeProviderVerify, "payment verification failed")

	// ErrProviderRegistration is returned when the gateway rejects a payout recipient
	ErrProviderRegistration = newError(KindExternalProvider, CodeProviderRegistration, "failed to register bank account with provider")

	// ErrProviderTransfer is returned when the gateway fails to initiate a payout
	ErrProviderTransfer = newError(KindExternalProvider, CodeProviderTransfer, "transfer failed at provider")

	// ErrProviderUnavailable is returned by gateway clients for transport or envelope failures
	ErrProviderUnavailable = newError(KindExternalProvider, CodeProviderUnavailable, "payment provider unavailable")

	// ErrCompensationFailed is returned when a reversing credit could not be committed
	ErrCompensationFailed = newError(KindInternalConsistency, CodeCompensationFailed, "compensation failed; manual reconciliation required")

	// ErrCommitFailed is returned when an atomic unit could not be committed
	ErrCommitFailed = newError(KindInternalConsistency, CodeCommitFailed, "failed to commit transaction")

	// ErrWalletNumberExhausted is returned when no free wallet number was found
	ErrWalletNumberExhausted = newError(KindInternal, CodeWalletNumberExhausted, "could not allocate a unique wallet number")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = newError(KindInternal, CodeInternalServer, "internal server error")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = newError(KindInternal, CodeDatabaseConnection, "database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = newError(KindInternal, CodeConstraintViolation, "database constraint violation")
)

// KindOf returns the kind of the first classified error in the chain
func KindOf(err error) Kind {
	var de *domainError
	if errors.As(err, &de) {
		return de.kind
	}
	return KindInternal
}

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	var de *domainError
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternalServer
}

// HTTPStatus returns the response status for err
func HTTPStatus(err error) int {
	return KindOf(err).HTTPStatus()
}

// PublicMessage returns the sentinel message for classified errors and a generic one otherwise.
// Wrapped context such as SQL text never reaches the caller.
func PublicMessage(err error) string {
	var de *domainError
	if errors.As(err, &de) {
		return de.message
	}
	return ErrInternalServer.Error()
}

// ProviderError records a failed gateway call together with what was done about it
type ProviderError struct {
	Step        string
	Reference   string
	Amount      int64
	Compensated bool
	Err         error
}

// Error implements the error interface for ProviderError
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider step %s failed for reference %s (amount: %d, compensated: %t): %v",
		e.Step, e.Reference, e.Amount, e.Compensated, e.Err)
}

// Unwrap returns the underlying error
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *ProviderError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "provider_error",
		"step":        e.Step,
		"reference":   e.Reference,
		"amount":      e.Amount,
		"compensated": e.Compensated,
		"error":       e.Err.Error(),
		"error_code":  ErrorCode(e.Err),
	}
}

// NewProviderError creates a detailed gateway failure
func NewProviderError(step, reference string, amount int64, compensated bool, err error) error {
	return &ProviderError{
		Step:        step,
		Reference:   reference,
		Amount:      amount,
		Compensated: compensated,
		Err:         err,
	}
}

// ConsistencyError is raised when the ledger could not be brought back to a consistent state
type ConsistencyError struct {
	Operation string
	Reference string
	Amount    int64
	Cause     error
}

// Error implements the error interface
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s for %s (amount: %d) left the ledger inconsistent: %v",
		e.Operation, e.Reference, e.Amount, e.Cause)
}

// Is reports ErrCompensationFailed so callers can match on the sentinel
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrCompensationFailed
}

// Unwrap returns the classified sentinel so KindOf and ErrorCode resolve to it
func (e *ConsistencyError) Unwrap() error {
	return ErrCompensationFailed
}

// LogFields returns a map of fields for structured logging
func (e *ConsistencyError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "consistency_error",
		"operation":  e.Operation,
		"reference":  e.Reference,
		"amount":     e.Amount,
		"cause":      e.Cause.Error(),
		"alert":      "manual_reconciliation_required",
		"error_code": CodeCompensationFailed,
	}
}

// NewConsistencyError creates an error that demands manual reconciliation
func NewConsistencyError(operation, reference string, amount int64, cause error) error {
	return &ConsistencyError{
		Operation: operation,
		Reference: reference,
		Amount:    amount,
		Cause:     cause,
	}
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsConflictError checks if the error is a conflict
func IsConflictError(err error) bool {
	return KindOf(err) == KindConflict
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}
