package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/noah-isme/kasir-api/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("kasir", []float64{1, 10}, registry)

	router := chi.NewRouter()
	router.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	router.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/health/ready", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}

	samples := testutil.CollectAndCount(metrics.ReqDur)
	if samples == 0 {
		t.Fatalf("expected histogram sample")
	}

	if metrics.InFlight != nil {
		if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
			t.Fatalf("expected no in-flight requests, got %v", val)
		}
	}
}

func TestStatusRecorderDefaults(t *testing.T) {
	rr := httptest.NewRecorder()
	recorder := obs.NewStatusRecorder(rr)
	if _, err := recorder.Write([]byte("body")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if recorder.Status() != http.StatusOK {
		t.Fatalf("expected implicit 200, got %d", recorder.Status())
	}
	if recorder.BytesWritten() != 4 {
		t.Fatalf("expected 4 bytes written, got %d", recorder.BytesWritten())
	}
}

func TestParseBucketsCSV(t *testing.T) {
	buckets := obs.ParseBucketsCSV("5, 10,25")
	if len(buckets) != 3 || buckets[0] != 5 || buckets[2] != 25 {
		t.Fatalf("unexpected buckets %v", buckets)
	}
	if got := obs.ParseBucketsCSV(""); got != nil {
		t.Fatalf("expected nil for empty csv, got %v", got)
	}
	if got := obs.ParseBucketsCSV("abc,1"); len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected invalid entries skipped, got %v", got)
	}
}
