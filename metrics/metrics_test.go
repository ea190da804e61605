package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ecommerce-api/models"
)

func TestMetrics_OrderCounters(t *testing.T) {
	m := New()
	m.OrderCreated()
	m.OrderCreated()
	m.OrderStatusChanged(models.StatusCancelled)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderStatusChanges.WithLabelValues("CANCELLED")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderCreated()
		m.OrderStatusChanged(models.StatusDelivered)
		m.ObserveRequest("GET", "/api/orders", 200, time.Millisecond)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.OrderCreated()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "orders_created_total 1")
	assert.Contains(t, string(body), "go_goroutines")
}
