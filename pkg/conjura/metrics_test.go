package conjura

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountOutcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	rec := &recorder{resp: jsonResponse(http.StatusOK, `{"data":1}`)}
	c := newTestClient(t, rec)
	c.metrics = m

	if _, err := c.Invoke(context.Background(), "/a", MethodGet, "a", nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	rec.resp = jsonResponse(http.StatusBadRequest, `{"error":{"code":"X","message":"m","status":400}}`)
	_ = c.Summon(context.Background(), "/a", MethodGet, "a", nil, nil)

	rec.err = errors.New("down")
	_ = c.Whisper(context.Background(), "/a", MethodPost, nil)

	checks := []struct {
		facade, outcome string
	}{
		{facadeInvoke, outcomeData},
		{facadeSummon, outcomeBackendError},
		{facadeWhisper, outcomeFailed},
	}
	for _, ck := range checks {
		if got := testutil.ToFloat64(m.callsTotal.WithLabelValues(ck.facade, ck.outcome)); got != 1 {
			t.Fatalf("%s/%s = %v, want 1", ck.facade, ck.outcome, got)
		}
	}
}

func TestMetricsInvokeErrorEnvelope(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewMetrics(registry)

	rec := &recorder{resp: jsonResponse(http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"gone","status":404}}`)}
	c := newTestClient(t, rec)
	c.metrics = m

	if _, err := c.Invoke(context.Background(), "/a", MethodGet, "a", nil); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if _, err := InvokeWith[user](context.Background(), c, "/a", MethodGet, "a", nil); err != nil {
		t.Fatalf("InvokeWith: %v", err)
	}

	if got := testutil.ToFloat64(m.callsTotal.WithLabelValues(facadeInvoke, outcomeBackendError)); got != 2 {
		t.Fatalf("invoke/backend_error = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.callsTotal.WithLabelValues(facadeInvoke, outcomeData)); got != 0 {
		t.Fatalf("invoke/data = %v, want 0", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.observe(facadeInvoke, outcomeData)
}
