package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errs "github.com/amirhossein-jamali/wallet-ledger/internal/domain/error"
)

// ExpiryUnit is one of the accepted expiry units
type ExpiryUnit byte

// Expiry units. A month is 30 days and a year is 365 days.
const (
	ExpiryHour  ExpiryUnit = 'H'
	ExpiryDay   ExpiryUnit = 'D'
	ExpiryMonth ExpiryUnit = 'M'
	ExpiryYear  ExpiryUnit = 'Y'
)

// Expiry is a parsed duration such as "1D" or "2Y"
type Expiry struct {
	Magnitude int
	Unit      ExpiryUnit
}

// ParseExpiry parses <magnitude><unit>, for example "1H", "30D", "1Y"
func ParseExpiry(s string) (Expiry, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Expiry{}, fmt.Errorf("%w: %q", errs.ErrInvalidDuration, s)
	}

	unit := ExpiryUnit(s[len(s)-1])
	switch unit {
	case ExpiryHour, ExpiryDay, ExpiryMonth, ExpiryYear:
	default:
		return Expiry{}, fmt.Errorf("%w: unknown unit %q", errs.ErrInvalidDuration, string(unit))
	}

	digits := s[:len(s)-1]
	if !isDigits(digits, 1, 4) {
		return Expiry{}, fmt.Errorf("%w: bad magnitude %q", errs.ErrInvalidDuration, digits)
	}
	magnitude, err := strconv.Atoi(digits)
	if err != nil || magnitude <= 0 {
		return Expiry{}, fmt.Errorf("%w: bad magnitude %q", errs.ErrInvalidDuration, digits)
	}

	return Expiry{Magnitude: magnitude, Unit: unit}, nil
}

// Duration converts the expiry to a time.Duration
func (e Expiry) Duration() time.Duration {
	day := 24 * time.Hour
	m := time.Duration(e.Magnitude)
	switch e.Unit {
	case ExpiryHour:
		return m * time.Hour
	case ExpiryDay:
		return m * day
	case ExpiryMonth:
		return m * 30 * day
	case ExpiryYear:
		return m * 365 * day
	}
	return 0
}

// ExpiresAt returns the instant the expiry ends when counted from t
func (e Expiry) ExpiresAt(t time.Time) time.Time {
	return t.Add(e.Duration())
}

// String formats the expiry back to its input form
func (e Expiry) String() string {
	return strconv.Itoa(e.Magnitude) + string(e.Unit)
}
