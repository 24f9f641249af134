package statsd

import (
	"testing"

	"github.com/sprockets/x/metrics/testmetrics"
)

func TestEmitterAddTiming(t *testing.T) {
	p := testmetrics.NewProvider(t)
	e := NewEmitter(p, "")

	e.AddTiming(1000, "sprockets", "timers", "tests", "StatsdRequestHandler", "GET", "200")
	e.AddTiming(12.5, "sprockets", "timers", "tests", "StatsdRequestHandler", "GET", "200")

	p.CheckObservations("sprockets.timers.tests.StatsdRequestHandler.GET.200", []float64{1000, 12.5})
}

func TestEmitterIncr(t *testing.T) {
	p := testmetrics.NewProvider(t)
	e := NewEmitter(p, "")

	e.Incr("sprockets", "counters", "tests", "StatsdRequestHandler", "GET", "200")
	e.Incr("sprockets", "counters", "tests", "StatsdRequestHandler", "GET", "200")
	e.Incr("sprockets", "counters", "tests", "StatsdRequestHandler", "POST", "201")

	p.CheckCounter("sprockets.counters.tests.StatsdRequestHandler.GET.200", 2)
	p.CheckCounter("sprockets.counters.tests.StatsdRequestHandler.POST.201", 1)
}

func TestEmitterPrefix(t *testing.T) {
	p := testmetrics.NewProvider(t)

	e := NewEmitter(p, "")
	if got := e.Prefix(); got != DefaultPrefix {
		t.Fatalf("Prefix() = %q, want %q", got, DefaultPrefix)
	}

	e.SetPrefix("api")
	if got := e.Prefix(); got != "api" {
		t.Fatalf("Prefix() = %q, want api", got)
	}

	// the active prefix does not rewrite explicit paths
	e.Incr("sprockets", "counters", "x")
	p.CheckCounter("sprockets.counters.x", 1)
	p.CheckNoCounter("api.sprockets.counters.x")
}

func TestEmitterKeepsEmptySegments(t *testing.T) {
	p := testmetrics.NewProvider(t)
	e := NewEmitter(p, "")

	e.AddTiming(5, "sprockets", "timers", "tests", "StatsdRequestHandler", "", "200")
	e.Incr("sprockets", "counters", "tests", "StatsdRequestHandler", "", "200")

	p.CheckObservations("sprockets.timers.tests.StatsdRequestHandler..200", []float64{5})
	p.CheckCounter("sprockets.counters.tests.StatsdRequestHandler..200", 1)
	p.CheckNoCounter("sprockets.counters.tests.StatsdRequestHandler.200")
}

func TestKey(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b", "c"}, "a.b.c"},
		{[]string{"a", "", "c"}, "a.c"},
	}

	for _, tc := range cases {
		if got := Key(tc.in...); got != tc.want {
			t.Errorf("Key(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
