package testmetrics

import (
	"sync"

	"github.com/go-kit/kit/metrics"
)

// series is the name and label values a metric is registered under.
// Request metrics carry every dimension in the name, so labelValues is
// usually empty.
type series struct {
	name        string
	labelValues []string
	p           *Provider
}

func (s series) with(labelValues []string) []string {
	return append(append([]string(nil), s.labelValues...), labelValues...)
}

// Counter records increments, such as the +1 a Reporter sends to
// <prefix>.counters... for every finished request.
type Counter struct {
	series

	mu    sync.RWMutex
	value float64
}

// Add implements metrics.Counter.
func (c *Counter) Add(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += delta
}

// With implements metrics.Counter.
func (c *Counter) With(labelValues ...string) metrics.Counter {
	return c.p.newCounter(c.name, c.with(labelValues)...)
}

func (c *Counter) getValue() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

// Gauge holds the last value set, e.g. a runtime gauge.
type Gauge struct {
	series

	mu    sync.RWMutex
	value float64
}

// Add implements metrics.Gauge.
func (g *Gauge) Add(delta float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value += delta
}

// Set implements metrics.Gauge.
func (g *Gauge) Set(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = v
}

// With implements metrics.Gauge.
func (g *Gauge) With(labelValues ...string) metrics.Gauge {
	return g.p.newGauge(g.name, g.with(labelValues)...)
}

func (g *Gauge) getValue() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.value
}

// Histogram keeps every observation in order, so tests can check the exact
// request durations, in milliseconds, that were timed under a path.
type Histogram struct {
	series

	mu           sync.RWMutex
	observations []float64
}

// Observe implements metrics.Histogram.
func (h *Histogram) Observe(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observations = append(h.observations, v)
}

// With implements metrics.Histogram.
func (h *Histogram) With(labelValues ...string) metrics.Histogram {
	return h.p.newHistogram(h.name, h.with(labelValues)...)
}

func (h *Histogram) getObservations() []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]float64(nil), h.observations...)
}
