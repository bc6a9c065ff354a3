package core

import "time"

// Metrics records operational counters for money movement
type Metrics interface {
	// RecordOperation counts a finished engine operation by result
	RecordOperation(operation, result string)
	// RecordCompensation counts a compensating credit by step and result
	RecordCompensation(step, result string)
	// RecordWebhook counts an admitted or rejected webhook event
	RecordWebhook(event, result string)
	// ObserveGatewayCall records the latency of a gateway call
	ObserveGatewayCall(operation, result string, elapsed time.Duration)
}
