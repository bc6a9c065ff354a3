package entity

import (
	"fmt"
	"sort"
	"strings"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
)

// Metadata is the key-value context attached to a transaction.
// Each transaction type accepts only the keys listed in recognizedMetadataKeys.
type Metadata map[string]string

// Recognized metadata keys
const (
	// deposit
	MetaAuthorizationURL = "authorization_url"
	MetaAccessCode       = "access_code"
	MetaAmountPaid       = "amount_paid"

	// transfer
	MetaDirection    = "direction"
	MetaCounterparty = "counterparty"

	// withdrawal
	MetaBankCode      = "bank_code"
	MetaAccountNumber = "account_number"
	MetaAccountName   = "account_name"
	MetaRecipientCode = "recipient_code"
	MetaTransferCode  = "transfer_code"
	MetaFailureStep   = "failure_step"

	// shared
	MetaGatewayStatus = "gateway_status"
	MetaFailureReason = "failure_reason"
)

// Transfer directions
const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

var recognizedMetadataKeys = map[TransactionType][]string{
	TypeDeposit: {
		MetaAuthorizationURL, MetaAccessCode, MetaAmountPaid, MetaGatewayStatus, MetaFailureReason,
	},
	TypeTransfer: {
		MetaDirection, MetaCounterparty,
	},
	TypeWithdrawal: {
		MetaBankCode, MetaAccountNumber, MetaAccountName, MetaRecipientCode, MetaTransferCode,
		MetaFailureStep, MetaFailureReason, MetaGatewayStatus,
	},
}

// RecognizedMetadataKeys returns the documented keys for a transaction type
func RecognizedMetadataKeys(t TransactionType) []string {
	keys := append([]string(nil), recognizedMetadataKeys[t]...)
	sort.Strings(keys)
	return keys
}

// Validate rejects keys the transaction type does not recognize
func (m Metadata) Validate(t TransactionType) error {
	allowed := recognizedMetadataKeys[t]
	var unknown []string
	for key := range m {
		if !contains(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: %s does not accept %s", errs.ErrInvalidMetadata, t, strings.Join(unknown, ", "))
	}
	if dir, ok := m[MetaDirection]; ok && dir != DirectionSent && dir != DirectionReceived {
		return fmt.Errorf("%w: direction %q", errs.ErrInvalidMetadata, dir)
	}
	return nil
}

// Merge returns a copy of m with extra applied on top. Empty values are skipped.
func (m Metadata) Merge(extra Metadata) Metadata {
	out := make(Metadata, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// TransferMetadata builds the context of one transfer leg
func TransferMetadata(direction, counterpartyWalletNumber string) Metadata {
	return Metadata{MetaDirection: direction, MetaCounterparty: counterpartyWalletNumber}
}

// WithdrawalMetadata builds the destination context of a payout
func WithdrawalMetadata(bankCode, accountNumber, accountName string) Metadata {
	return Metadata{
		MetaBankCode:      bankCode,
		MetaAccountNumber: accountNumber,
		MetaAccountName:   accountName,
	}
}

// FailureMetadata records why and where an operation failed
func FailureMetadata(step, reason string) Metadata {
	return Metadata{MetaFailureStep: step, MetaFailureReason: reason}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
