// Package testmetrics provides an in-memory metrics.Provider. Tests hand it
// to a statsd.Emitter or a service and then check the exact metric paths a
// Reporter produced, e.g.
//
//	p.CheckCounter("sprockets.counters.widgets.WidgetHandler.GET.200", 1)
package testmetrics

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-kit/kit/metrics"

	xmetrics "github.com/sprockets/x/metrics"
)

// Provider collects registered metrics for testing.
type Provider struct {
	t testing.TB

	sync.Mutex
	counters     map[string]*Counter
	gauges       map[string]*Gauge
	histograms   map[string]*Histogram
	cardCounters map[string]*xmetrics.HLLCounter
	stopped      bool
}

// NewProvider constructs a test provider which can later be checked.
func NewProvider(t testing.TB) *Provider {
	return &Provider{
		t:            t,
		counters:     make(map[string]*Counter),
		histograms:   make(map[string]*Histogram),
		gauges:       make(map[string]*Gauge),
		cardCounters: make(map[string]*xmetrics.HLLCounter),
	}
}

// Stop implements metrics.Provider. CheckStopped reports whether it ran.
func (p *Provider) Stop() {
	p.Lock()
	defer p.Unlock()
	p.stopped = true
}

// NewCounter implements metrics.Provider.
func (p *Provider) NewCounter(name string) metrics.Counter {
	return p.newCounter(name)
}

func (p *Provider) newCounter(name string, labelValues ...string) metrics.Counter {
	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	if _, ok := p.counters[k]; !ok {
		p.counters[k] = &Counter{series: series{name: name, labelValues: labelValues, p: p}}
	}
	return p.counters[k]
}

// NewGauge implements metrics.Provider.
func (p *Provider) NewGauge(name string) metrics.Gauge {
	return p.newGauge(name)
}

func (p *Provider) newGauge(name string, labelValues ...string) metrics.Gauge {
	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	if _, ok := p.gauges[k]; !ok {
		p.gauges[k] = &Gauge{series: series{name: name, labelValues: labelValues, p: p}}
	}
	return p.gauges[k]
}

// NewHistogram implements metrics.Provider.
func (p *Provider) NewHistogram(name string, _ int) metrics.Histogram {
	return p.newHistogram(name)
}

func (p *Provider) newHistogram(name string, labelValues ...string) metrics.Histogram {
	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	if _, ok := p.histograms[k]; !ok {
		p.histograms[k] = &Histogram{series: series{name: name, labelValues: labelValues, p: p}}
	}
	return p.histograms[k]
}

// NewCardinalityCounter implements metrics.Provider.
func (p *Provider) NewCardinalityCounter(name string) xmetrics.CardinalityCounter {
	p.Lock()
	defer p.Unlock()

	if _, ok := p.cardCounters[name]; !ok {
		p.cardCounters[name] = xmetrics.NewHLLCounter(name)
	}
	return p.cardCounters[name]
}

// CheckCounter checks that there is a registered counter
// with the name and value provided.
func (p *Provider) CheckCounter(name string, v float64, labelValues ...string) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	c, ok := p.counters[k]
	if !ok {
		p.t.Fatalf("no counter named %s out of available counters: \n%s", k, available(p.counters))
	}

	if got := c.getValue(); got != v {
		p.t.Fatalf("%v = %v, want %v", name, got, v)
	}
}

// CheckNoCounter checks that there is no registered counter with the name
// provided.
func (p *Provider) CheckNoCounter(name string, labelValues ...string) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	if _, ok := p.counters[k]; ok {
		p.t.Fatalf("a counter named %s was found", k)
	}
}

// CheckObservations checks that there is a histogram
// with the name and observations provided.
func (p *Provider) CheckObservations(name string, obs []float64, labelValues ...string) {
	p.t.Helper()

	observations := p.getObservations(name, labelValues...)
	if !reflect.DeepEqual(observations, obs) {
		p.t.Fatalf("%v = %v, want %v", p.keyFor(name, labelValues...), observations, obs)
	}
}

// CheckObservationsMinMax checks that there is a histogram
// with the name and that the values all fall within the min/max range.
func (p *Provider) CheckObservationsMinMax(name string, min, max float64, labelValues ...string) {
	p.t.Helper()

	for _, o := range p.getObservations(name, labelValues...) {
		if o < min || o > max {
			p.t.Fatalf("got %f want %f..%f ", o, min, max)
		}
	}
}

// CheckObservationCount checks that there is a histogram
// with the name and number of observations provided.
func (p *Provider) CheckObservationCount(name string, n int, labelValues ...string) {
	p.t.Helper()

	observations := p.getObservations(name, labelValues...)

	if len(observations) != n {
		p.t.Fatalf("len(%v) = %v, want %v", p.keyFor(name, labelValues...), len(observations), n)
	}
}

// CheckNoHistogram checks that there is no registered histogram with the
// name provided.
func (p *Provider) CheckNoHistogram(name string, labelValues ...string) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	if _, ok := p.histograms[k]; ok {
		p.t.Fatalf("a histogram named %s was found", k)
	}
}

func (p *Provider) getObservations(name string, labelValues ...string) []float64 {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	h, ok := p.histograms[k]
	if !ok {
		p.t.Fatalf("no histogram named %s out available histograms: \n%s", k, available(p.histograms))
	}

	return h.getObservations()
}

// CheckGauge checks that there is a registered gauge
// with the name and value provided.
func (p *Provider) CheckGauge(name string, v float64, labelValues ...string) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	g, ok := p.gauges[k]
	if !ok {
		p.t.Fatalf("no gauge named %s out of available gauges: \n%s", k, available(p.gauges))
	}
	if got := g.getValue(); got != v {
		p.t.Fatalf("%v = %v, want %v", k, got, v)
	}
}

// CheckGaugeNonZero checks that there is a registered gauge with the name
// and label values provided that has been set to something other than 0.
func (p *Provider) CheckGaugeNonZero(name string, labelValues ...string) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	k := p.keyFor(name, labelValues...)
	g, ok := p.gauges[k]
	if !ok {
		p.t.Fatalf("no gauge named %s out of available gauges: \n%s", k, available(p.gauges))
	}
	if g.getValue() == 0 {
		p.t.Fatalf("%v = 0, want non-zero", k)
	}
}

// CheckStopped verifies that a provider has been Stop'd.
func (p *Provider) CheckStopped() {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	if !p.stopped {
		p.t.Fatal("provider is not stopped")
	}
}

// CheckCardinalityCounter checks that there is a registered cardinality
// counter with the name and estimate provided.
func (p *Provider) CheckCardinalityCounter(name string, estimate uint64) {
	p.t.Helper()

	p.Lock()
	defer p.Unlock()

	cc, ok := p.cardCounters[name]
	if !ok {
		p.t.Fatalf("no cardinality counter named %s out of available cardinality counters: \n%s", name, available(p.cardCounters))
	}
	if got := cc.Estimate(); got != estimate {
		p.t.Fatalf("%v = %v, want %v", name, got, estimate)
	}
}

func (p *Provider) keyFor(name string, labelValues ...string) string {
	if len(labelValues) == 0 {
		return name
	}
	return name + "." + strings.Join(labelValues, ":")
}

func available(m interface{}) string {
	v := reflect.ValueOf(m)
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return strings.Join(keys, "\n")
}
