package metrics

import (
	"time"

	coreport "github.com/amirhossein-jamali/wallet-ledger/internal/domain/port/core"
)

// Noop discards every measurement
type Noop struct{}

var _ coreport.Metrics = Noop{}

// NewNoop creates a new Noop
func NewNoop() Noop { return Noop{} }

func (Noop) RecordOperation(string, string) {}
func (Noop) RecordCompensation(string, string) {}
func (Noop) RecordWebhook(string, string) {}
func (Noop) ObserveGatewayCall(string, string, time.Duration) {}
