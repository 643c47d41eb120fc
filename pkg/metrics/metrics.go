package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes Prometheus metrics for the API and the refresh jobs.
type Recorder struct {
	httpRequests  *prometheus.CounterVec
	scansTotal    *prometheus.CounterVec
	scanDuration  *prometheus.HistogramVec
	missionsTotal *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		httpRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdeck_http_requests_total",
				Help: "Total number of HTTP requests by path and status",
			},
			[]string{"path", "status"},
		),
		scansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdeck_scans_total",
				Help: "Total number of environment scans by outcome",
			},
			[]string{"outcome"},
		),
		scanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fleetdeck_scan_duration_seconds",
				Help:    "Duration of environment scans in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"ticker"},
		),
		missionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleetdeck_missions_total",
				Help: "Total number of mission lifecycle operations",
			},
			[]string{"operation"},
		),
	}
}

// RecordHTTPRequest records one handled HTTP request.
func (r *Recorder) RecordHTTPRequest(path, status string) {
	r.httpRequests.WithLabelValues(path, status).Inc()
}

// RecordScan records one environment scan outcome ("ok" or "error").
func (r *Recorder) RecordScan(outcome string) {
	r.scansTotal.WithLabelValues(outcome).Inc()
}

// RecordScanDuration records how long one scan took.
func (r *Recorder) RecordScanDuration(ticker string, seconds float64) {
	r.scanDuration.WithLabelValues(ticker).Observe(seconds)
}

// RecordMissionOp records a mission lifecycle operation (create, log, start, ...).
func (r *Recorder) RecordMissionOp(op string) {
	r.missionsTotal.WithLabelValues(op).Inc()
}
