package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/auditcalc/pkg/audit"
)

var _ audit.Recorder = Recorder{}

func TestCounters(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(calculations.WithLabelValues("water", "bucket"))
	Recorder{}.Calculation("water", "bucket")
	Recorder{}.Calculation("water", "bucket")
	assert.Equal(t, before+2, testutil.ToFloat64(calculations.WithLabelValues("water", "bucket")))

	beforeErr := testutil.ToFloat64(calculationErrors.WithLabelValues("pipes", "unknown"))
	Recorder{}.CalculationError("pipes", "")
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(calculationErrors.WithLabelValues("pipes", "unknown")))

	beforeExport := testutil.ToFloat64(reportExports.WithLabelValues("pdf", "error"))
	IncReportExport("pdf", errors.New("disk full"))
	assert.Equal(t, beforeExport+1, testutil.ToFloat64(reportExports.WithLabelValues("pdf", "error")))
}

func TestHistograms(t *testing.T) {
	Init()
	Recorder{}.SolverIterations("pipe", 4)
	ObserveHTTPRequest("/api/water", http.StatusOK, 3*time.Millisecond)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(solverIterations, metricPrefix+"solver_iterations"), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(httpDuration, metricPrefix+"http_request_duration_seconds"), 1)
}

func TestHandlerServesMetrics(t *testing.T) {
	Init()
	IncCalculation("electricity", "multimeter")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `auditcalc_calculations_total{method="multimeter",utility="electricity"}`))
}
