// Package l2met provides a basic log-based metrics provider for cases where
// a statsd daemon is not available, or as a second sink next to one.
package l2met

import (
	"context"
	"sync"
	"time"

	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/generic"
	"github.com/sirupsen/logrus"

	xmetrics "github.com/sprockets/x/metrics"
)

// DefaultInterval is how often Run logs the accumulated metrics.
const DefaultInterval = time.Minute

// Provider provides constructors for creating, tracking, and logging metrics.
type Provider struct {
	logger     logrus.FieldLogger
	interval   time.Duration
	mu         sync.Mutex
	counters   map[string]*generic.Counter
	gauges     map[string]*generic.Gauge
	histograms map[string]*generic.Histogram
	sets       map[string]*xmetrics.HLLCounter
}

// New returns a metrics provider which logs its metrics every interval. A
// zero interval means DefaultInterval.
func New(l logrus.FieldLogger, interval time.Duration) *Provider {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Provider{
		logger:     l,
		interval:   interval,
		counters:   map[string]*generic.Counter{},
		gauges:     map[string]*generic.Gauge{},
		histograms: map[string]*generic.Histogram{},
		sets:       map[string]*xmetrics.HLLCounter{},
	}
}

// NewCounter implements Provider.
func (p *Provider) NewCounter(name string) metrics.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.counters[name]; ok {
		return c
	}

	p.counters[name] = generic.NewCounter(name)
	return p.counters[name]
}

// NewGauge implements Provider.
func (p *Provider) NewGauge(name string) metrics.Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()

	if g, ok := p.gauges[name]; ok {
		return g
	}

	p.gauges[name] = generic.NewGauge(name)
	return p.gauges[name]
}

// NewHistogram implements Provider.
func (p *Provider) NewHistogram(name string, buckets int) metrics.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.histograms[name]; ok {
		return h
	}

	p.histograms[name] = generic.NewHistogram(name, buckets)
	return p.histograms[name]
}

// NewCardinalityCounter implements Provider. The estimate is logged as a
// sample and reset on every report.
func (p *Provider) NewCardinalityCounter(name string) xmetrics.CardinalityCounter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.sets[name]; ok {
		return c
	}

	p.sets[name] = xmetrics.NewHLLCounter(name)
	return p.sets[name]
}

// Run logs metrics once per interval until the context is canceled.
func (p *Provider) Run(ctx context.Context) error {
	tick := time.NewTicker(p.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log()
			return ctx.Err()
		case <-tick.C:
			p.log()
		}
	}
}

func (p *Provider) log() {
	p.mu.Lock()
	defer p.mu.Unlock()

	data := logrus.Fields{"at": "metrics"}

	for name, c := range p.counters {
		data["count#"+name] = c.ValueReset()
	}

	for name, g := range p.gauges {
		data["measure#"+name] = g.Value()
	}

	for name, h := range p.histograms {
		v := h.Quantile(0.99)
		// no measurement to report
		if v < 0 {
			continue
		}

		data["measure#"+name+".p99"] = v
	}

	for name, c := range p.sets {
		data["sample#"+name] = c.EstimateReset()
	}

	if len(data) == 1 {
		return
	}

	p.logger.WithFields(data).Info()
}

// Stop implements Provider.
func (p *Provider) Stop() {}
