package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-ledger/internal/infrastructure/adapter/database"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus(t *testing.T) {
	p := NewPrometheus()

	p.RecordOperation("transfer", "success")
	p.RecordOperation("transfer", "success")
	p.RecordOperation("withdraw", "failed")
	p.RecordCompensation("initiate_payout", "success")
	p.RecordWebhook("charge.success", "applied")
	p.ObserveGatewayCall("initialize_deposit", "success", 120*time.Millisecond)
	p.RecordPoolStats(database.ConnectionPoolMetrics{OpenConnections: 7, InUse: 3, WaitCount: 2})
	p.ObserveHTTPRequest("POST", "/wallet/transfer", "200", 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.operationsTotal.WithLabelValues("transfer", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.operationsTotal.WithLabelValues("withdraw", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.compensationsTotal.WithLabelValues("initiate_payout", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.webhookEventsTotal.WithLabelValues("charge.success", "applied")))
	assert.Equal(t, 7.0, testutil.ToFloat64(p.dbOpenConnections))
	assert.Equal(t, 3.0, testutil.ToFloat64(p.dbInUseConnections))
	assert.Equal(t, 1, testutil.CollectAndCount(p.gatewayCallSeconds))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.httpRequestsTotal.WithLabelValues("POST", "/wallet/transfer", "200")))

	t.Run("Handler exposes the registry", func(t *testing.T) {
		server := httptest.NewServer(p.Handler())
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `wallet_ledger_operations_total{operation="transfer",result="success"} 2`)
		assert.Contains(t, string(body), "wallet_ledger_gateway_call_duration_seconds_bucket")
		assert.Contains(t, string(body), "go_goroutines")
	})

	t.Run("Registries are independent", func(t *testing.T) {
		other := NewPrometheus()
		assert.Equal(t, 0.0, testutil.ToFloat64(other.operationsTotal.WithLabelValues("transfer", "success")))
	})
}
