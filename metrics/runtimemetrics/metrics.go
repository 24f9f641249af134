// Package runtimemetrics reports Go runtime statistics as gauges and a
// histogram through a metrics.Provider, next to the request metrics.
//
// Under the given prefix it reports:
//
//	runtime.goroutines - number of goroutines
//	runtime.mem.alloc-bytes - allocated bytes for heap objects
//	runtime.mem.sys-bytes - bytes obtained from the OS
//	runtime.gc.next-target-heap-size-bytes - heap target of the next GC
//	runtime.gc.pause-duration.ms - histogram of GC pause durations
package runtimemetrics

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	kitmetrics "github.com/go-kit/kit/metrics"

	"github.com/sprockets/x/metrics"
	"github.com/sprockets/x/statsd"
)

// DefaultInterval is how often Run collects when no interval is given.
const DefaultInterval = 10 * time.Second

// Collector collects metrics about the Go runtime into go-kit metrics.
type Collector struct {
	Goroutines      kitmetrics.Gauge
	AllocBytes      kitmetrics.Gauge
	SysBytes        kitmetrics.Gauge
	NextGCBytes     kitmetrics.Gauge
	GCPauseDuration kitmetrics.Histogram

	interval time.Duration

	// lastGCNum is the last GC cycle observed, so Collect only reports
	// new pauses.
	lastGCNum int64
}

// NewCollector returns a collector whose metrics are registered with p,
// named under prefix. A zero interval means DefaultInterval.
func NewCollector(p metrics.Provider, prefix string, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = DefaultInterval
	}
	name := func(s ...string) string {
		return statsd.Key(append([]string{prefix, "runtime"}, s...)...)
	}
	return &Collector{
		Goroutines:      p.NewGauge(name("goroutines")),
		AllocBytes:      p.NewGauge(name("mem", "alloc-bytes")),
		SysBytes:        p.NewGauge(name("mem", "sys-bytes")),
		NextGCBytes:     p.NewGauge(name("gc", "next-target-heap-size-bytes")),
		GCPauseDuration: p.NewHistogram(name("gc", "pause-duration", "ms"), 50),
		interval:        interval,
	}
}

// Collect reads the runtime statistics once.
func (c *Collector) Collect() {
	c.Goroutines.Set(float64(runtime.NumGoroutine()))

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	c.AllocBytes.Set(float64(ms.Alloc))
	c.SysBytes.Set(float64(ms.Sys))
	c.NextGCBytes.Set(float64(ms.NextGC))

	var gs debug.GCStats
	debug.ReadGCStats(&gs)

	// The runtime only keeps the most recent pauses; if more GCs happened
	// than it remembers, observe all it has.
	unobserved := int(gs.NumGC - c.lastGCNum)
	if unobserved > len(gs.Pause) {
		unobserved = len(gs.Pause)
	}
	for i := 0; i < unobserved; i++ {
		c.GCPauseDuration.Observe(float64(gs.Pause[i]) / float64(time.Millisecond))
	}

	c.lastGCNum = gs.NumGC
}

// Run collects every interval until ctx is canceled.
func (c *Collector) Run(ctx context.Context) error {
	t := time.NewTicker(c.interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			c.Collect()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
