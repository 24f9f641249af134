// Package statsd provides a metrics.Provider which reports to a statsd
// daemon over UDP using go-kit's statsd emitter.
//
// Observations are buffered in memory and flushed every interval by Run.
// Counters are sent as deltas (|c), gauges as values (|g) and histograms as
// timings (|ms), so request durations arrive at statsd in milliseconds.
// Cardinality counters are estimated locally and sent as a gauge holding the
// number of distinct values seen during the interval.
package statsd

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	kitstatsd "github.com/go-kit/kit/metrics/statsd"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sprockets/x/cmdutil/svclog"
	xmetrics "github.com/sprockets/x/metrics"
)

const (
	// DefaultInterval is the flush interval used when none is given.
	DefaultInterval = time.Second

	// at most errBurst write failures are logged per errWindow.
	errBurst  = 1
	errWindow = 10 * time.Second
)

var _ xmetrics.Provider = &Provider{}

// Provider implements metrics.Provider for statsd. It owns its UDP
// connection for its whole lifetime; Stop closes it.
type Provider struct {
	s        *kitstatsd.Statsd
	conn     net.Conn
	interval time.Duration
	logger   logrus.FieldLogger
	errs     *svclog.SampleLogger

	mu       sync.Mutex
	sets     map[string]set
	stopOnce sync.Once
}

// set pairs a cardinality estimate with the gauge it is flushed through.
type set struct {
	c *xmetrics.HLLCounter
	g metrics.Gauge
}

// New dials the statsd daemon at addr and returns a Provider flushing to it
// every interval. A zero interval means DefaultInterval.
func New(addr string, interval time.Duration, l logrus.FieldLogger) (*Provider, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing statsd at %s", addr)
	}
	return newProvider(conn, interval, l), nil
}

func newProvider(conn net.Conn, interval time.Duration, l logrus.FieldLogger) *Provider {
	if interval <= 0 {
		interval = DefaultInterval
	}
	l = l.WithField("at", "statsd")
	return &Provider{
		s:        kitstatsd.New("", kitLogger(l)),
		conn:     conn,
		interval: interval,
		logger:   l,
		errs:     svclog.NewSampleLogger(l, errBurst, errWindow),
		sets:     make(map[string]set),
	}
}

// NewCounter implements metrics.Provider.
func (p *Provider) NewCounter(name string) metrics.Counter {
	return p.s.NewCounter(name, 1)
}

// NewGauge implements metrics.Provider.
func (p *Provider) NewGauge(name string) metrics.Gauge {
	return p.s.NewGauge(name)
}

// NewHistogram implements metrics.Provider. Buckets are ignored; statsd
// aggregates timings server side.
func (p *Provider) NewHistogram(name string, _ int) metrics.Histogram {
	return timing{p.s.NewTiming(name, 1)}
}

// NewCardinalityCounter implements metrics.Provider. The estimate is sent as
// a gauge on every flush and then reset. Calls with the same name share one
// counter.
func (p *Provider) NewCardinalityCounter(name string) xmetrics.CardinalityCounter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.sets[name]; ok {
		return s.c
	}
	s := set{c: xmetrics.NewHLLCounter(name), g: p.s.NewGauge(name)}
	p.sets[name] = s
	return s.c
}

// Run flushes buffered metrics every interval until ctx is canceled, then
// flushes one last time.
func (p *Provider) Run(ctx context.Context) error {
	p.logger.WithFields(logrus.Fields{
		"addr":     p.conn.RemoteAddr().String(),
		"interval": p.interval,
	}).Info("starting")

	tick := time.NewTicker(p.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			p.flush()
			return ctx.Err()
		case <-tick.C:
			p.flush()
		}
	}
}

// Stop implements metrics.Provider. It closes the UDP connection.
func (p *Provider) Stop() {
	p.stopOnce.Do(func() {
		if err := p.conn.Close(); err != nil {
			p.logger.WithError(err).Warn("closing connection")
		}
	})
}

func (p *Provider) flush() {
	p.flushTo(p.conn)
}

// flushTo writes all buffered observations to w. Write failures are logged
// and the observations are dropped.
func (p *Provider) flushTo(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, s := range p.sets {
		s.g.Set(float64(s.c.EstimateReset()))
	}
	if _, err := p.s.WriteTo(w); err != nil {
		p.errs.Printf("dropping metrics: %v", err)
	}
}

// timing adapts a statsd Timing to metrics.Histogram.
type timing struct {
	*kitstatsd.Timing
}

func (t timing) With(...string) metrics.Histogram { return t }

// kitLogger adapts l to the go-kit logger wanted by the statsd emitter.
func kitLogger(l logrus.FieldLogger) kitlog.Logger {
	return kitlog.LoggerFunc(func(keyvals ...interface{}) error {
		fields := make(logrus.Fields, len(keyvals)/2)
		for i := 0; i+1 < len(keyvals); i += 2 {
			fields[fmt.Sprint(keyvals[i])] = keyvals[i+1]
		}
		l.WithFields(fields).Warn()
		return nil
	})
}
