// Package multiprovider reports every metric to several providers at once.
// The service harness uses it to send request timings and counters to statsd
// and, when METRICS_ENABLE_L2MET is set, to log them as l2met measurements
// as well.
package multiprovider

import (
	kitmetrics "github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/multi"

	"github.com/sprockets/x/metrics"
)

var _ metrics.Provider = Provider{}

// Provider fans metric construction out to each of its providers, in order.
type Provider []metrics.Provider

// New returns a Provider reporting to all of providers.
func New(providers ...metrics.Provider) Provider {
	return Provider(providers)
}

// NewCounter returns a counter adding to the counter of the same name in
// every provider, so one request increment is a statsd |c and an l2met
// count#.
func (m Provider) NewCounter(name string) kitmetrics.Counter {
	cs := make([]kitmetrics.Counter, len(m))
	for i, p := range m {
		cs[i] = p.NewCounter(name)
	}
	return multi.NewCounter(cs...)
}

// NewGauge implements metrics.Provider.
func (m Provider) NewGauge(name string) kitmetrics.Gauge {
	gs := make([]kitmetrics.Gauge, len(m))
	for i, p := range m {
		gs[i] = p.NewGauge(name)
	}
	return multi.NewGauge(gs...)
}

// NewHistogram returns a histogram observing into every provider. Request
// durations reach statsd as |ms timings and l2met as p99 measures.
func (m Provider) NewHistogram(name string, buckets int) kitmetrics.Histogram {
	hs := make([]kitmetrics.Histogram, len(m))
	for i, p := range m {
		hs[i] = p.NewHistogram(name, buckets)
	}
	return multi.NewHistogram(hs...)
}

// NewCardinalityCounter implements metrics.Provider. Each provider keeps
// its own estimate of the handler set.
func (m Provider) NewCardinalityCounter(name string) metrics.CardinalityCounter {
	ccs := make(cardinalityCounters, len(m))
	for i, p := range m {
		ccs[i] = p.NewCardinalityCounter(name)
	}
	return ccs
}

// Stop stops every provider. The statsd provider closes its connection.
func (m Provider) Stop() {
	for _, p := range m {
		p.Stop()
	}
}

type cardinalityCounters []metrics.CardinalityCounter

func (ccs cardinalityCounters) With(labelValues ...string) metrics.CardinalityCounter {
	with := make(cardinalityCounters, len(ccs))
	for i, cc := range ccs {
		with[i] = cc.With(labelValues...)
	}
	return with
}

func (ccs cardinalityCounters) Insert(b []byte) {
	for _, cc := range ccs {
		cc.Insert(b)
	}
}
