package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"MarketAnalyst/internal/model"
)

// Report outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Registry holds all Prometheus metrics for MarketAnalyst. A nil *Registry
// ignores every observation.
type Registry struct {
	registry *prometheus.Registry

	ReportsGenerated *prometheus.CounterVec
	ReportDuration   prometheus.Histogram
	ReportPoints     prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
}

// NewRegistry creates a registry with the report metrics and the Go runtime
// collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		ReportsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyst_reports_generated_total",
				Help: "Total number of report generations by outcome",
			},
			[]string{"outcome"},
		),

		ReportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analyst_report_duration_seconds",
				Help:    "Time to fetch a document and generate its report",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
		),

		ReportPoints: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analyst_report_points",
				Help:    "Number of valid observations behind each report",
				Buckets: []float64{1, 10, 26, 50, 100, 200, 252, 500, 1000, 2500, 5000},
			},
		),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyst_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}

	r.registry.MustRegister(
		r.ReportsGenerated,
		r.ReportDuration,
		r.ReportPoints,
		r.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveReport records one report generation.
func (r *Registry) ObserveReport(rep *model.Report, err error, d time.Duration) {
	if r == nil {
		return
	}
	r.ReportDuration.Observe(d.Seconds())
	switch {
	case err != nil:
		r.ReportsGenerated.WithLabelValues(OutcomeError).Inc()
	case rep == nil || rep.Metrics == nil:
		r.ReportsGenerated.WithLabelValues(OutcomeEmpty).Inc()
	default:
		r.ReportsGenerated.WithLabelValues(OutcomeOK).Inc()
		r.ReportPoints.Observe(float64(len(rep.Metrics.Drawdowns.Series)))
	}
}

// ObserveRequest counts one served HTTP request.
func (r *Registry) ObserveRequest(route, code string) {
	if r == nil {
		return
	}
	r.HTTPRequests.WithLabelValues(route, code).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
