package service_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sprockets/x/cmdutil"
	"github.com/sprockets/x/cmdutil/service"
	"github.com/sprockets/x/metrics/testmetrics"
	"github.com/sprockets/x/testing/testlog"
)

type widgetHandler struct{}

func (widgetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

func TestNewNoConfig(t *testing.T) {
	setupStandardConfig(t)
	t.Setenv("STATSD_HOST", "127.0.0.1")

	s := service.New(nil, service.SkipSignals())
	defer s.MetricsProvider.Stop()

	if s.Logger == nil {
		t.Fatal("standard logger not configured")
	}
	if s.MetricsProvider == nil {
		t.Fatal("standard metrics provider not configured")
	}
	if s.Statsd == nil {
		t.Fatal("statsd client not configured")
	}
	if got := s.Statsd.Prefix(); got != "sprockets" {
		t.Fatalf("statsd prefix = %q, want sprockets", got)
	}
	if got := s.StatsdConfig.Addr(); got != "127.0.0.1:8125" {
		t.Fatalf("statsd addr = %q, want 127.0.0.1:8125", got)
	}
}

func TestNewCustomConfig(t *testing.T) {
	setupStandardConfig(t)
	t.Setenv("TEST_VAL", "1m")

	var cfg struct {
		Val time.Duration `env:"TEST_VAL"`
	}
	s := service.New(&cfg, service.WithMetricsProvider(testmetrics.NewProvider(t)), service.SkipSignals())

	if s.App != "test-app" {
		t.Fatalf("App = %q, want test-app", s.App)
	}
	if cfg.Val != time.Minute {
		t.Fatalf("cfg.Val = %v want %v", cfg.Val, time.Minute)
	}
}

func TestNewWithL2met(t *testing.T) {
	setupStandardConfig(t)
	t.Setenv("METRICS_ENABLE_L2MET", "true")

	p := testmetrics.NewProvider(t)
	s := service.New(nil, service.WithMetricsProvider(p), service.SkipSignals())

	if s.MetricsProvider == p {
		t.Fatal("want statsd metrics fanned out to l2met")
	}

	s.Statsd.Incr("sprockets", "counters", "jobs")
	p.CheckCounter("sprockets.counters.jobs", 1)
}

func TestNewWithRuntimeMetrics(t *testing.T) {
	setupStandardConfig(t)
	t.Setenv("METRICS_ENABLE_RUNTIME", "true")
	t.Setenv("METRICS_RUNTIME_INTERVAL", "1ms")

	p := testmetrics.NewProvider(t)
	s := service.New(nil, service.WithMetricsProvider(p), service.SkipSignals())
	s.Add(cmdutil.ServerFunc(func() error {
		time.Sleep(20 * time.Millisecond)
		return nil
	}))

	s.Run()

	p.CheckGaugeNonZero("sprockets.gauges.runtime.goroutines")
	p.CheckStopped()
}

func TestReporterUsesEnvironment(t *testing.T) {
	setupStandardConfig(t)
	t.Setenv("STATSD_PREFIX", "widgets")
	t.Setenv("STATSD_USE_HOSTNAME", "no")

	p := testmetrics.NewProvider(t)
	s := service.New(nil, service.WithMetricsProvider(p), service.SkipSignals())

	h := s.Reporter().Handler(widgetHandler{})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PUT", "/widgets/1", nil))

	p.CheckObservationCount("widgets.timers.service_test.widgetHandler.PUT.201", 1)
	p.CheckObservationsMinMax("widgets.timers.service_test.widgetHandler.PUT.201", 0, 1000)
	p.CheckCounter("widgets.counters.service_test.widgetHandler.PUT.201", 1)
	if got := s.Statsd.Prefix(); got != "widgets" {
		t.Fatalf("statsd prefix = %q, want widgets", got)
	}
}

func TestHandlerCounter(t *testing.T) {
	setupStandardConfig(t)
	t.Setenv("STATSD_PREFIX", "widgets")

	p := testmetrics.NewProvider(t)
	s := service.New(nil, service.WithMetricsProvider(p), service.SkipSignals())

	h := s.Reporter().Handler(widgetHandler{}, s.HandlerCounter())
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PUT", "/widgets/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PUT", "/widgets/2", nil))

	p.CheckCardinalityCounter("widgets.sets.handlers", 1)
}

func TestRunStopsMetricsProvider(t *testing.T) {
	setupStandardConfig(t)

	p := testmetrics.NewProvider(t)
	s := service.New(nil, service.WithMetricsProvider(p), service.SkipSignals())
	s.Add(cmdutil.ServerFunc(func() error { return nil }))

	s.Run()

	p.CheckStopped()
}

func TestReportPanic(t *testing.T) {
	logger, hook := testlog.New()

	defer func() {
		if p := recover(); p == nil {
			t.Fatal("expected ReportPanic to repanic")
		}

		entries := hook.Entries()
		if want, got := 1, len(entries); want != got {
			t.Fatalf("want hook entries to be %d, got %d", want, got)
		}
		if want, got := "test message", entries[0].Message; want != got {
			t.Errorf("want hook entry message to be %q, got %q", want, got)
		}
	}()

	func() {
		defer service.ReportPanic(logger)

		panic("test message")
	}()
}

func setupStandardConfig(t *testing.T) {
	t.Setenv("APP_NAME", "test-app")
	t.Setenv("DEPLOY", "test")
}
