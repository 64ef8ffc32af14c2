package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var reqCnt = &Metric{
	ID:          "reqCnt",
	Name:        "req_total",
	Description: "How many HTTP requests processed, partitioned by status code and HTTP method.",
	Type:        "counter_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

var reqDur = &Metric{
	ID:          "reqDur",
	Name:        "req_dur_ms",
	Description: "The HTTP request latencies in milliseconds.",
	Type:        "histogram_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

var resSz = &Metric{
	ID:          "resSz",
	Name:        "resp_sz_bytes",
	Description: "The HTTP response sizes in bytes.",
	Type:        "summary_vec",
	Args:        []string{"code", "method", "url", "ref"},
}

const defaultMetricPath = "/metrics"

// Prometheus owns a private registry with the HTTP and business collectors.
// A nil *Prometheus is valid and records nothing.
type Prometheus struct {
	registry *prometheus.Registry

	reqCnt        *prometheus.CounterVec
	reqDur        *prometheus.HistogramVec
	resSz         *prometheus.SummaryVec
	bpDur         *prometheus.HistogramVec
	ledgerOps     *prometheus.CounterVec
	ledgerAmount  *prometheus.SummaryVec
	subscriptions *prometheus.CounterVec
	reminders     *prometheus.CounterVec

	MetricsPath string
	// URLLabelFn maps a request to its "url" label; defaults to the matched route template.
	URLLabelFn func(c *gin.Context) string
}

type NewPrometheusOptions struct {
	Subsystem   string
	MetricsPath string
	Logger      *zap.SugaredLogger
}

func NewPrometheus(options NewPrometheusOptions) *Prometheus {
	p := &Prometheus{
		registry:    prometheus.NewRegistry(),
		MetricsPath: options.MetricsPath,
		URLLabelFn: func(c *gin.Context) string {
			if fp := c.FullPath(); fp != "" {
				return fp
			}
			return "unmatched"
		},
	}
	if p.MetricsPath == "" {
		p.MetricsPath = defaultMetricPath
	}
	p.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	for _, def := range []*Metric{reqCnt, reqDur, resSz, MetricsBusinessProcess, MetricsLedgerOps, MetricsLedgerAmount, MetricsSubscriptions, MetricsReminders} {
		metric := NewMetric(def, options.Subsystem)
		if err := p.registry.Register(metric); err != nil && options.Logger != nil {
			options.Logger.Errorf("%s could not be registered in Prometheus, err=%v", def.Name, err)
		}
		switch def {
		case reqCnt:
			p.reqCnt = metric.(*prometheus.CounterVec)
		case reqDur:
			p.reqDur = metric.(*prometheus.HistogramVec)
		case resSz:
			p.resSz = metric.(*prometheus.SummaryVec)
		case MetricsBusinessProcess:
			p.bpDur = metric.(*prometheus.HistogramVec)
		case MetricsLedgerOps:
			p.ledgerOps = metric.(*prometheus.CounterVec)
		case MetricsLedgerAmount:
			p.ledgerAmount = metric.(*prometheus.SummaryVec)
		case MetricsSubscriptions:
			p.subscriptions = metric.(*prometheus.CounterVec)
		case MetricsReminders:
			p.reminders = metric.(*prometheus.CounterVec)
		}
	}
	return p
}

func New(log *zap.SugaredLogger) *Prometheus {
	return NewPrometheus(NewPrometheusOptions{Subsystem: "clubdesk", Logger: log})
}

// Registry exposes the private registry, mainly for tests.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// HandlerFunc defines handler function for middleware
func (p *Prometheus) HandlerFunc() gin.HandlerFunc {
	return func(c *gin.Context) {
		if p == nil || c.Request.URL.Path == p.MetricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		url := p.URLLabelFn(c)
		ref := c.Request.Header.Get(RefererKey)

		p.reqDur.WithLabelValues(status, c.Request.Method, url, ref).Observe(MillisecondsSince(start))
		p.reqCnt.WithLabelValues(status, c.Request.Method, url, ref).Inc()
		p.resSz.WithLabelValues(status, c.Request.Method, url, ref).Observe(float64(c.Writer.Size()))
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveProcess records the latency of a business step started at start.
func (p *Prometheus) ObserveProcess(typ, subtype string, start time.Time) {
	if p == nil {
		return
	}
	p.bpDur.WithLabelValues(typ, subtype).Observe(MillisecondsSince(start))
}

// LedgerOp counts a ledger mutation and, on success, the amount written.
func (p *Prometheus) LedgerOp(op, method string, amount float64, err error) {
	if p == nil {
		return
	}
	p.ledgerOps.WithLabelValues(op, outcome(err)).Inc()
	if err == nil && amount > 0 {
		p.ledgerAmount.WithLabelValues(op, method).Observe(amount)
	}
}

func (p *Prometheus) SubscriptionsWritten(op, kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.subscriptions.WithLabelValues(op, kind).Add(float64(n))
}

func (p *Prometheus) Reminder(result string) {
	if p == nil {
		return
	}
	p.reminders.WithLabelValues(result).Inc()
}

var Module = fx.Options(
	fx.Provide(New),
)
