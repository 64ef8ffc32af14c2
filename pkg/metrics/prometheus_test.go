package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestHandlerFunc_CountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p := NewPrometheus(NewPrometheusOptions{Subsystem: "test"})

	r := gin.New()
	r.Use(p.HandlerFunc())
	r.POST("/api/v1/admin/payment/record", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/payment/record", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	require.Equal(t, 2.0, counterValue(t, p.reqCnt.WithLabelValues("200", "POST", "/api/v1/admin/payment/record", "")))
}

func TestBusinessCounters(t *testing.T) {
	p := NewPrometheus(NewPrometheusOptions{Subsystem: "test"})

	p.LedgerOp("record", "cash", 100, nil)
	p.LedgerOp("record", "cash", 100, errors.New("over limit"))
	p.SubscriptionsWritten("create", "pack", 1)
	p.SubscriptionsWritten("create", "individual", 0)
	p.Reminder("published")
	p.ObserveProcess("ledger", "record", time.Now())

	require.Equal(t, 1.0, counterValue(t, p.ledgerOps.WithLabelValues("record", "ok")))
	require.Equal(t, 1.0, counterValue(t, p.ledgerOps.WithLabelValues("record", "error")))
	require.Equal(t, 1.0, counterValue(t, p.subscriptions.WithLabelValues("create", "pack")))
	require.Equal(t, 1.0, counterValue(t, p.reminders.WithLabelValues("published")))

	w := httptest.NewRecorder()
	p.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, w.Body.String(), "test_ledger_ops_total")
}

func TestNilPrometheusIsNoop(t *testing.T) {
	var p *Prometheus
	p.LedgerOp("record", "cash", 1, nil)
	p.SubscriptionsWritten("create", "pack", 1)
	p.Reminder("published")
	p.ObserveProcess("a", "b", time.Now())
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}
