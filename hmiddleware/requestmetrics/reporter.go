package requestmetrics

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sprockets/x/clock"
	"github.com/sprockets/x/statsd"
)

const (
	timers   = "timers"
	counters = "counters"
)

// Config holds the process wide reporter settings, usually taken from the
// environment at startup with ConfigFrom.
type Config struct {
	Prefix      string
	UseHostname statsd.Flag
}

// ConfigFrom returns the reporter settings in c.
func ConfigFrom(c statsd.Config) Config {
	return Config{Prefix: c.Prefix, UseHostname: c.UseHostname}
}

// Reporter emits request metrics to a statsd.Client. The client is shared
// and not owned by the Reporter.
type Reporter struct {
	client   statsd.Client
	cfg      Config
	logger   logrus.FieldLogger
	clock    clock.Clock
	hostname func() (string, error)
	hostDots string

	mu          sync.RWMutex
	prefix      string
	useHostname statsd.Flag

	hostOnce sync.Once
	host     string
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithConfig sets the process wide defaults.
func WithConfig(cfg Config) Option {
	return func(r *Reporter) { r.cfg = cfg }
}

// WithPrefix overrides the configured prefix.
func WithPrefix(prefix string) Option {
	return func(r *Reporter) { r.prefix = prefix }
}

// WithUseHostname overrides whether the hostname is part of metric names.
func WithUseHostname(use bool) Option {
	return func(r *Reporter) { r.useHostname = statsd.NewFlag(use) }
}

// WithHostname replaces os.Hostname as the source of the hostname segment.
func WithHostname(fn func() (string, error)) Option {
	return func(r *Reporter) { r.hostname = fn }
}

// WithHostnameDots replaces every "." in the hostname segment with repl, so
// a fully qualified hostname stays a single segment. By default the hostname
// is used as returned.
func WithHostnameDots(repl string) Option {
	return func(r *Reporter) { r.hostDots = repl }
}

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Reporter) { r.logger = l }
}

// WithClock sets the clock used to time requests served by Handler.
func WithClock(c clock.Clock) Option {
	return func(r *Reporter) { r.clock = c }
}

// New returns a Reporter emitting to c.
func New(c statsd.Client, opts ...Option) *Reporter {
	r := &Reporter{
		client:   c,
		logger:   logrus.StandardLogger(),
		clock:    clock.Default,
		hostname: os.Hostname,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithField("at", "requestmetrics")
	return r
}

// SetPrefix overrides the prefix for requests finishing from now on. An
// empty prefix removes the override.
func (r *Reporter) SetPrefix(prefix string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefix = prefix
}

// SetUseHostname overrides hostname reporting for requests finishing from
// now on.
func (r *Reporter) SetUseHostname(use bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.useHostname = statsd.NewFlag(use)
}

// Prefix returns the prefix the next finished request will be reported
// under.
func (r *Reporter) Prefix() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	switch {
	case r.prefix != "":
		return r.prefix
	case r.cfg.Prefix != "":
		return r.cfg.Prefix
	default:
		return statsd.DefaultPrefix
	}
}

// UseHostname reports whether the next finished request will include the
// hostname segment.
func (r *Reporter) UseHostname() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.useHostname.IsSet() {
		return r.useHostname.Bool(true)
	}
	return r.cfg.UseHostname.Bool(true)
}

// Hook returns r as completion hook middleware.
func (r *Reporter) Hook(next Hook) Hook {
	return func(handler interface{}, o *Outcome) {
		r.OnRequestFinished(handler, o, next)
	}
}

// OnRequestFinished emits one timing and then one counter for o, and calls
// next. With a nil o nothing is emitted. next runs even if the client
// panics.
//
// When the resolved prefix differs from the client's active prefix it is
// pushed to the client with SetPrefix. The client is shared, so with
// several prefixes in one process the client's prefix is whichever was
// pushed last. The emitted paths always carry this reporter's prefix.
func (r *Reporter) OnRequestFinished(handler interface{}, o *Outcome, next Hook) {
	if next != nil {
		defer next(handler, o)
	}
	if o == nil {
		return
	}

	prefix := r.Prefix()
	if r.client.Prefix() != prefix {
		r.client.SetPrefix(prefix)
	}

	var host string
	if r.UseHostname() {
		host = r.localHostname()
	}

	id := IdentityOf(handler)
	status := statusString(o.StatusCode)

	r.client.AddTiming(ms(o.Duration), metricPath(prefix, timers, host, id, o.Method, status)...)
	r.client.Incr(metricPath(prefix, counters, host, id, o.Method, status)...)
}

func (r *Reporter) localHostname() string {
	r.hostOnce.Do(func() {
		h, err := r.hostname()
		if err != nil {
			r.logger.WithError(err).Warn("hostname unavailable, omitting it from metric names")
			return
		}
		if r.hostDots != "" {
			h = strings.ReplaceAll(h, ".", r.hostDots)
		}
		r.host = h
	})
	return r.host
}

func metricPath(prefix, category, host string, id Identity, method, status string) []string {
	p := make([]string, 0, 7)
	p = append(p, prefix, category)
	if host != "" {
		p = append(p, host)
	}
	return append(p, id.Namespace, id.Name, method, status)
}

// statusString converts a status code to a path segment. A handler that
// never called Write or WriteHeader answered 200.
func statusString(code int) string {
	if code == 0 {
		code = 200
	}
	return strconv.Itoa(code)
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
