// Package statsdtest provides a statsd.Client that records calls so tests
// can make assertions on the exact path segments emitted.
package statsdtest

import (
	"reflect"
	"sync"
	"testing"

	"github.com/sprockets/x/statsd"
)

// Call kinds recorded by Client.
const (
	KindTiming  = "timing"
	KindCounter = "counter"
)

// Call is a single recorded emission.
type Call struct {
	Kind  string
	Path  []string
	Value float64
}

var _ statsd.Client = &Client{}

// Client records every call made to it. It is safe for concurrent use.
type Client struct {
	mu         sync.Mutex
	prefix     string
	prefixSets []string
	calls      []Call
}

// New returns a recording client whose active prefix is prefix.
func New(prefix string) *Client {
	return &Client{prefix: prefix}
}

// SetPrefix implements statsd.Client.
func (c *Client) SetPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prefix = prefix
	c.prefixSets = append(c.prefixSets, prefix)
}

// Prefix implements statsd.Client.
func (c *Client) Prefix() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefix
}

// AddTiming implements statsd.Client.
func (c *Client) AddTiming(value float64, path ...string) {
	c.record(Call{Kind: KindTiming, Path: path, Value: value})
}

// Incr implements statsd.Client.
func (c *Client) Incr(path ...string) {
	c.record(Call{Kind: KindCounter, Path: path, Value: 1})
}

func (c *Client) record(call Call) {
	call.Path = append([]string(nil), call.Path...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

// Calls returns all recorded calls in order.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// Timings returns the recorded AddTiming calls.
func (c *Client) Timings() []Call { return c.filter(KindTiming) }

// Counters returns the recorded Incr calls.
func (c *Client) Counters() []Call { return c.filter(KindCounter) }

// PrefixSets returns every prefix passed to SetPrefix, in order.
func (c *Client) PrefixSets() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prefixSets...)
}

// Reset forgets all recorded calls.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
	c.prefixSets = nil
}

func (c *Client) filter(kind string) []Call {
	var res []Call
	for _, call := range c.Calls() {
		if call.Kind == kind {
			res = append(res, call)
		}
	}
	return res
}

// CheckTiming checks that exactly one timing was recorded, with the given
// path and value.
func (c *Client) CheckTiming(tb testing.TB, value float64, path ...string) {
	tb.Helper()

	timings := c.Timings()
	if len(timings) != 1 {
		tb.Fatalf("got %d timings, want 1: %+v", len(timings), timings)
	}
	if !reflect.DeepEqual(timings[0].Path, path) {
		tb.Fatalf("timing path = %q, want %q", timings[0].Path, path)
	}
	if timings[0].Value != value {
		tb.Fatalf("timing value = %v, want %v", timings[0].Value, value)
	}
}

// CheckCounter checks that exactly one counter increment was recorded, with
// the given path.
func (c *Client) CheckCounter(tb testing.TB, path ...string) {
	tb.Helper()

	counters := c.Counters()
	if len(counters) != 1 {
		tb.Fatalf("got %d counters, want 1: %+v", len(counters), counters)
	}
	if !reflect.DeepEqual(counters[0].Path, path) {
		tb.Fatalf("counter path = %q, want %q", counters[0].Path, path)
	}
}

// CheckNoCalls checks that nothing was emitted.
func (c *Client) CheckNoCalls(tb testing.TB) {
	tb.Helper()

	if calls := c.Calls(); len(calls) != 0 {
		tb.Fatalf("got %d calls, want none: %+v", len(calls), calls)
	}
}
