package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/containers", 200, time.Millisecond)
	m.IncRollupFailure("item.update")
	m.IncFeedSourceFailure("invoices")
	m.ObserveAggregateOperation("op", "success", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("nil handler status: want=503 got=%d", rec.Code)
	}
}

func TestMetricsCountersAndHandler(t *testing.T) {
	m := New()
	m.IncFeedSourceFailure("invoices")
	m.IncFeedSourceFailure("invoices")
	m.IncRollupFailure("sheet.delete")
	m.AddAuditRecords("containers", "UPDATE", 2)

	if got := testutil.ToFloat64(m.feedSourceFailures.WithLabelValues("invoices")); got != 2 {
		t.Fatalf("feed failures: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.auditRecords.WithLabelValues("containers", "UPDATE")); got != 2 {
		t.Fatalf("audit records: want=2 got=%v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: want=200 got=%d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cl_rollup_failures_total") {
		t.Fatalf("metrics body missing rollup failures counter")
	}
}
