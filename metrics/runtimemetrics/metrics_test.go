package runtimemetrics

import (
	"context"
	"runtime"
	"runtime/debug"
	"testing"
	"time"

	"github.com/sprockets/x/metrics/testmetrics"
)

func TestCollectGoroutines(t *testing.T) {
	p := testmetrics.NewProvider(t)
	c := NewCollector(p, "sprockets", 0)

	n := runtime.NumGoroutine()
	c.Collect()

	p.CheckGauge("sprockets.runtime.goroutines", float64(n))
}

func TestCollectGCPauses(t *testing.T) {
	p := testmetrics.NewProvider(t)
	c := NewCollector(p, "sprockets", 0)

	prev := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(prev)

	runtime.GC()

	var gs debug.GCStats
	debug.ReadGCStats(&gs)
	want := int(gs.NumGC)
	if want > len(gs.Pause) {
		want = len(gs.Pause)
	}

	c.Collect()
	p.CheckObservationCount("sprockets.runtime.gc.pause-duration.ms", want)

	runtime.GC()
	c.Collect()
	p.CheckObservationCount("sprockets.runtime.gc.pause-duration.ms", want+1)

	// Nothing new to observe.
	c.Collect()
	p.CheckObservationCount("sprockets.runtime.gc.pause-duration.ms", want+1)
}

func TestRunStopsOnCancel(t *testing.T) {
	p := testmetrics.NewProvider(t)
	c := NewCollector(p, "", time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- c.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-done; err != context.Canceled {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	p.CheckGaugeNonZero("runtime.goroutines")
	p.CheckGaugeNonZero("runtime.mem.sys-bytes")
}
