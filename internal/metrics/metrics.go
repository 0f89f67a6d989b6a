// Package metrics exposes Prometheus counters for bridge calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "walletbridge"

// Recorder records bridge activity. A nil *Recorder records nothing.
type Recorder struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	items    *prometheus.CounterVec
}

// NewRecorder registers the collectors with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Bridge calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "Bridge call latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_items_total",
			Help:      "Bulk import items by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.calls, r.duration, r.items)
	return r
}

// ObserveCall counts one finished call.
func (r *Recorder) ObserveCall(op string, success bool, d time.Duration) {
	if r == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	r.calls.WithLabelValues(op, outcome).Inc()
	r.duration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveImport counts the items of one bulk import.
func (r *Recorder) ObserveImport(imported, failed int) {
	if r == nil {
		return
	}
	r.items.WithLabelValues("imported").Add(float64(imported))
	r.items.WithLabelValues("failed").Add(float64(failed))
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
