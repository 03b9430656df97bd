package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("Success - domain counters", func(t *testing.T) {
		m := New()

		m.CartAdded()
		m.CartAdded()
		m.OrderPlaced(120.5)
		m.StatusUpdated("SHIPPED")
		m.EnhanceFailed("GenerateReview")

		assert.Equal(t, 2.0, testutil.ToFloat64(m.CartAdds))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.OrdersPlaced))
		assert.Equal(t, 120.5, testutil.ToFloat64(m.OrderRevenue))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusUpdates.WithLabelValues("SHIPPED")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.EnhanceFailures.WithLabelValues("GenerateReview")))
	})

	t.Run("Success - instances are independent", func(t *testing.T) {
		a, b := New(), New()
		a.CartAdded()
		assert.Equal(t, 0.0, testutil.ToFloat64(b.CartAdds))
	})

	t.Run("Success - handler exposes registry", func(t *testing.T) {
		m := New()
		m.ObserveRequest("/api/cart", http.StatusOK, 12*time.Millisecond)

		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body, _ := io.ReadAll(rec.Body)
		assert.Contains(t, string(body), `storefront_http_requests_total{route="/api/cart",status="200"} 1`)
	})
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	assert.GreaterOrEqual(t, timer.Duration(), time.Duration(0))
}
