package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HistogramBuckets are latency buckets in milliseconds.
var HistogramBuckets = []float64{
	5, 10, 25, 50, 75, 100, 150, 200, 300, 400, 500,
	750, 1000, 1500, 2000, 3000, 5000, 10000, 30000,
}

// Metric is a definition for the name, description, type and labels of a collector.
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric associates prometheus.Collector based on Metric.Type
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	var metric prometheus.Collector
	switch m.Type {
	case "counter_vec":
		metric = prometheus.NewCounterVec(
			prometheus.CounterOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description},
			m.Args,
		)
	case "gauge_vec":
		metric = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description},
			m.Args,
		)
	case "histogram_vec":
		metric = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description, Buckets: HistogramBuckets},
			m.Args,
		)
	case "summary_vec":
		metric = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{Subsystem: subsystem, Name: m.Name, Help: m.Description},
			m.Args,
		)
	}
	return metric
}

var MetricsBusinessProcess = &Metric{
	ID:          "bpDur",
	Name:        "bp_dur",
	Description: "process latency in milliseconds",
	Type:        "histogram_vec",
	Args:        []string{"type", "subtype"},
}

var MetricsLedgerOps = &Metric{
	ID:          "ledgerOps",
	Name:        "ledger_ops_total",
	Description: "Installment ledger mutations, partitioned by operation and outcome.",
	Type:        "counter_vec",
	Args:        []string{"op", "outcome"},
}

var MetricsLedgerAmount = &Metric{
	ID:          "ledgerAmount",
	Name:        "ledger_amount",
	Description: "Installment amounts written to the ledger.",
	Type:        "summary_vec",
	Args:        []string{"op", "method"},
}

var MetricsSubscriptions = &Metric{
	ID:          "subscriptions",
	Name:        "subscriptions_total",
	Description: "Subscriptions written, partitioned by operation and kind.",
	Type:        "counter_vec",
	Args:        []string{"op", "kind"},
}

var MetricsReminders = &Metric{
	ID:          "reminders",
	Name:        "reminders_total",
	Description: "Expiry reminders handed to the publisher, partitioned by outcome.",
	Type:        "counter_vec",
	Args:        []string{"outcome"},
}

const (
	RefererKey = "X-Referer"
)

// MillisecondsSince returns the elapsed time since start in milliseconds.
func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
