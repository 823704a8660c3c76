package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/piiquante/sauce-service/internal/config"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/sauces", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/sauces", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/sauces", "GET", "NOT_FOUND")

	snap := m.Snapshot()
	key := "/api/sauces|GET|200"
	if snap.Requests[key] != 2 {
		t.Fatalf("requests = %v", snap.Requests)
	}
	if snap.AvgLatencyMSec[key] != 20 {
		t.Fatalf("avg latency = %v", snap.AvgLatencyMSec)
	}
	if snap.Errors["/api/sauces|GET|NOT_FOUND"] != 1 {
		t.Fatalf("errors = %v", snap.Errors)
	}
}

func TestNilMetricsIgnored(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
}

func TestRequestLoggerOmitsHeaders(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/api/sauces/:id", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/api/sauces/abc", nil)
	req.Header.Set("Authorization", "Bearer secret-token-value")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d", len(entries))
	}
	for _, f := range entries[0].Context {
		if f.String == "Bearer secret-token-value" || f.Key == "authorization" {
			t.Fatalf("authorization leaked into log field %q", f.Key)
		}
	}
	if metrics.Snapshot().Requests["/api/sauces/:id|GET|200"] != 1 {
		t.Fatalf("metrics = %v", metrics.Snapshot().Requests)
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "nonsense"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	if !logger.Core().Enabled(zap.InfoLevel) || logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("expected info level")
	}
}
