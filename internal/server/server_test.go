package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rickgao/binance-spread/internal/metrics"
	"github.com/rickgao/binance-spread/internal/poller"
)

type staticStatus poller.Status

func (s staticStatus) Status() poller.Status { return poller.Status(s) }

func testConfig() Config {
	return Config{
		Port:        8080,
		MetricsPath: "/metrics",
		HealthPath:  "/health",
		FeedPath:    "/ws",
	}
}

func TestServerMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	reg.Set("ETHUSDT", 0.5)

	srv := New(testConfig(), reg.Handler(), nil, staticStatus{}, nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `absolute_delta_value{symbol="ETHUSDT"} 0.5`) {
		t.Errorf("metrics body missing gauge:\n%s", body)
	}
}

func TestServerHealth(t *testing.T) {
	tests := []struct {
		name       string
		status     poller.Status
		wantStatus string
	}{
		{"before first cycle", poller.Status{}, "starting"},
		{"after a cycle", poller.Status{Cycles: 3, LastCycle: time.Now()}, "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(testConfig(), http.NotFoundHandler(), nil, staticStatus(tt.status), nil)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			var got healthResponse
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Cycles != tt.status.Cycles {
				t.Errorf("Cycles = %d, want %d", got.Cycles, tt.status.Cycles)
			}
		})
	}
}

func TestServerFeedRoute(t *testing.T) {
	called := false
	feed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	srv := New(testConfig(), http.NotFoundHandler(), feed, staticStatus{}, nil)
	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ws", nil))
	if !called {
		t.Error("feed handler not routed")
	}

	noFeed := New(testConfig(), http.NotFoundHandler(), nil, staticStatus{}, nil)
	rec := httptest.NewRecorder()
	noFeed.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled feed status = %d, want 404", rec.Code)
	}
}
