package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.ObserveDecision("enterprise", "approve", "ok")
	m.ObserveDecision("enterprise", "approve", "ok")
	m.ObserveEffectFailure("email")
	m.ObserveChecklistFallback()
	m.ObserveSubmission("educator")

	if got := testutil.ToFloat64(m.Decisions.WithLabelValues("enterprise", "approve", "ok")); got != 2 {
		t.Fatalf("decisions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EffectFailures.WithLabelValues("email")); got != 1 {
		t.Fatalf("effect failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ChecklistFallback); got != 1 {
		t.Fatalf("fallback = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Submissions.WithLabelValues("educator")); got != 1 {
		t.Fatalf("submissions = %v, want 1", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveDecision("a", "b", "c")
	m.ObserveEffectFailure("email")
	m.ObserveChecklistFallback()
	m.ObserveSubmission("x")
}

func TestNewIsIsolated(t *testing.T) {
	// separate registries: building twice must not panic on duplicate registration
	_ = New()
	_ = New()
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.ObserveDecision("educator", "reject", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if rec.Code != http.StatusOK || !strings.Contains(string(body), `review_decisions_total{action="reject",kind="educator",outcome="ok"} 1`) {
		t.Fatalf("unexpected exposition (code %d): %s", rec.Code, body)
	}
}
