package statsd

import (
	"strings"
	"sync"

	"github.com/sprockets/x/metrics"
	"github.com/sprockets/x/metricsregistry"
)

// timingBuckets is the bucket count requested from providers that
// aggregate timings locally.
const timingBuckets = 50

var _ Client = &Emitter{}

// Emitter implements Client on top of a metrics.Provider. Timings become
// histogram observations and counts become counter increments, both
// registered under the dot-joined path. Empty segments keep their place, so
// a request with no method still lands on its own six-segment path.
type Emitter struct {
	reg metricsregistry.Registry

	mu     sync.RWMutex
	prefix string
}

// NewEmitter returns an Emitter reporting to p with the given active
// prefix. An empty prefix means DefaultPrefix.
func NewEmitter(p metrics.Provider, prefix string) *Emitter {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Emitter{
		reg:    metricsregistry.New(p),
		prefix: prefix,
	}
}

// SetPrefix implements Client.
func (e *Emitter) SetPrefix(prefix string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.prefix = prefix
}

// Prefix implements Client.
func (e *Emitter) Prefix() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.prefix
}

// AddTiming implements Client. The path is used verbatim.
func (e *Emitter) AddTiming(value float64, path ...string) {
	e.reg.GetOrRegisterHistogram(join(path), timingBuckets).Observe(value)
}

// Incr implements Client. The path is used verbatim.
func (e *Emitter) Incr(path ...string) {
	e.reg.GetOrRegisterCounter(join(path)).Add(1)
}

// join joins path with dots, keeping empty segments. Key is for names built
// from optional parts; reported paths are never rewritten.
func join(path []string) string {
	return strings.Join(path, ".")
}
