// Package metrics exposes calculation and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "auditcalc_"

var (
	registerOnce sync.Once

	calculations      *prometheus.CounterVec
	calculationErrors *prometheus.CounterVec
	solverIterations  *prometheus.HistogramVec
	reportExports     *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
)

// Init registers the metrics with the default registry. Calling it more
// than once is harmless.
func Init() {
	registerOnce.Do(func() {
		calculations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculations_total",
				Help: "Total entries calculated by utility and measurement method",
			},
			[]string{"utility", "method"},
		)
		calculationErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculation_errors_total",
				Help: "Total rejected calculations by utility and error kind",
			},
			[]string{"utility", "kind"},
		)
		solverIterations = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "solver_iterations",
				Help:    "Fixed-point iterations needed by the heat loss solver",
				Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128},
			},
			[]string{"model"},
		)
		reportExports = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_exports_total",
				Help: "Total report exports by format and result",
			},
			[]string{"format", "result"},
		)
		httpDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "status"},
		)

		prometheus.MustRegister(
			calculations,
			calculationErrors,
			solverIterations,
			reportExports,
			httpDuration,
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncCalculation counts one calculated entry.
func IncCalculation(utility, method string) {
	if calculations != nil {
		calculations.WithLabelValues(utility, orUnknown(method)).Inc()
	}
}

// IncCalculationError counts one rejected calculation.
func IncCalculationError(utility, kind string) {
	if calculationErrors != nil {
		calculationErrors.WithLabelValues(utility, orUnknown(kind)).Inc()
	}
}

// ObserveSolverIterations records how many iterations a heat loss model took.
func ObserveSolverIterations(model string, n int) {
	if solverIterations != nil {
		solverIterations.WithLabelValues(model).Observe(float64(n))
	}
}

// IncReportExport counts one report export.
func IncReportExport(format string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	if reportExports != nil {
		reportExports.WithLabelValues(format, result).Inc()
	}
}

// ObserveHTTPRequest records the latency of one request.
func ObserveHTTPRequest(path string, status int, duration time.Duration) {
	if httpDuration != nil {
		httpDuration.WithLabelValues(path, strconv.Itoa(status)).Observe(duration.Seconds())
	}
}

// Recorder forwards calculation events from the audit evaluator.
type Recorder struct{}

func (Recorder) Calculation(utility, method string)    { IncCalculation(utility, method) }
func (Recorder) CalculationError(utility, kind string) { IncCalculationError(utility, kind) }
func (Recorder) SolverIterations(model string, n int)  { ObserveSolverIterations(model, n) }

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
