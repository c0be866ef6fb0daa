package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	upstreamLatency *prometheus.HistogramVec
	upstreamErrors  *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	lastPrice       *prometheus.GaugeVec
	fallbacks       prometheus.Counter
	events          *prometheus.CounterVec
}

// New creates a Prometheus recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stocktrack",
				Subsystem: "upstream",
				Name:      "latency_seconds",
				Help:      "Latency of calls to external providers",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "operation"},
		),
		upstreamErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stocktrack",
				Subsystem: "upstream",
				Name:      "errors_total",
				Help:      "Failed calls to external providers",
			},
			[]string{"service", "operation"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocktrack_errors_total",
				Help: "Total number of errors returned by use cases",
			},
			[]string{"kind"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocktrack_last_price",
				Help: "Last quoted price for a ticker",
			},
			[]string{"ticker"},
		),
		fallbacks: f.NewCounter(
			prometheus.CounterOpts{
				Name: "stocktrack_watchlist_enrichment_fallbacks_total",
				Help: "Watchlist items returned with the unknown-name placeholder",
			},
		),
		events: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocktrack_events_published_total",
				Help: "Domain events handed to the publisher",
			},
			[]string{"type", "result"},
		),
	}
}

// ObserveUpstream records latency and failure of one external call.
func (r *Recorder) ObserveUpstream(service, operation string, d time.Duration, err error) {
	r.upstreamLatency.WithLabelValues(service, operation).Observe(d.Seconds())
	if err != nil {
		r.upstreamErrors.WithLabelValues(service, operation).Inc()
	}
}

// RecordError records an error occurrence by kind.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a ticker.
func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

// RecordEnrichmentFallback counts a watchlist item that fell back to the placeholder name.
func (r *Recorder) RecordEnrichmentFallback() {
	r.fallbacks.Inc()
}

// RecordEvent counts a published domain event.
func (r *Recorder) RecordEvent(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.events.WithLabelValues(eventType, result).Inc()
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) ObserveUpstream(string, string, time.Duration, error) {}
func (Nop) RecordError(string)                                   {}
func (Nop) RecordLastPrice(string, float64)                      {}
func (Nop) RecordEnrichmentFallback()                            {}
func (Nop) RecordEvent(string, error)                            {}
