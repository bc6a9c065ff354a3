package entity

import (
	"fmt"
	"math"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
)

// MoneyUtils contains utility functions for handling monetary values.
// Amounts are always integers in the minor currency unit (kobo for NGN).

// MinorUnitsPerMajor is the number of minor units in one major unit
const MinorUnitsPerMajor = 100

// ValidatePositiveAmount rejects zero and negative amounts
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: got %d", errs.ErrInvalidAmount, amount)
	}
	return nil
}

// AddChecked returns a+b or ErrAmountOverflow when the sum leaves the int64 range
func AddChecked(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errs.ErrAmountOverflow
	}
	return a + b, nil
}

// FormatMinorUnits converts an integer amount to a decimal string for logs and receipts
// For example:
// - 1015 becomes "10.15"
// - -5 becomes "-0.05"
func FormatMinorUnits(amount int64) string {
	isNegative := amount < 0
	var magnitude uint64
	if isNegative {
		magnitude = uint64(-(amount + 1)) + 1
	} else {
		magnitude = uint64(amount)
	}

	amountStr := fmt.Sprintf("%d", magnitude)

	// Ensure minimum length
	for len(amountStr) < 3 {
		amountStr = "0" + amountStr
	}

	decimalPos := len(amountStr) - 2
	wholePart := amountStr[:decimalPos]
	decimalPart := amountStr[decimalPos:]

	if isNegative {
		return "-" + wholePart + "." + decimalPart
	}
	return wholePart + "." + decimalPart
}
