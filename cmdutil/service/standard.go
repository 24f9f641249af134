package service

import (
	"syscall"

	"github.com/joeshaw/envdecode"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/sprockets/x/cmdutil"
	"github.com/sprockets/x/cmdutil/signals"
	"github.com/sprockets/x/cmdutil/svclog"
	"github.com/sprockets/x/hmiddleware"
	"github.com/sprockets/x/hmiddleware/requestmetrics"
	xmetrics "github.com/sprockets/x/metrics"
	"github.com/sprockets/x/metrics/l2met"
	"github.com/sprockets/x/metrics/multiprovider"
	statsdprovider "github.com/sprockets/x/metrics/provider/statsd"
	"github.com/sprockets/x/metrics/runtimemetrics"
	"github.com/sprockets/x/statsd"
)

// Standard is a standard service.
type Standard struct {
	g run.Group

	App    string
	Deploy string
	Logger logrus.FieldLogger

	// MetricsProvider is what Statsd records into: the statsd provider,
	// fanned out to l2met when METRICS_ENABLE_L2MET is set.
	MetricsProvider xmetrics.Provider

	// Statsd is the process wide metrics client. It lives as long as
	// the process and is shared by every Reporter.
	Statsd *statsd.Emitter

	// StatsdConfig is the statsd configuration decoded at startup.
	StatsdConfig statsd.Config
}

// New returns a Standard service with logging, statsd metrics, optional
// runtime metrics and common signal handling.
//
// It calls envdecode.MustStrictDecode on the provided appConfig, unless
// it is nil.
func New(appConfig interface{}, ofs ...OptionFunc) *Standard {
	var sc standardConfig
	envdecode.MustStrictDecode(&sc)
	if appConfig != nil {
		envdecode.MustStrictDecode(appConfig)
	}

	var o options
	for _, of := range ofs {
		of(&o)
	}

	logger := svclog.NewLogger(sc.Logger)

	s := &Standard{
		App:          sc.Logger.AppName,
		Deploy:       sc.Logger.Deploy,
		Logger:       logger,
		StatsdConfig: sc.Statsd,
	}

	var (
		providers []xmetrics.Provider
		runners   []cmdutil.Runner
	)

	if o.metricsProvider != nil {
		providers = append(providers, o.metricsProvider)
	} else {
		sp, err := statsdprovider.New(sc.Statsd.Addr(), sc.Statsd.FlushInterval, logger)
		if err != nil {
			logger.WithError(err).Fatal("starting statsd provider")
		}
		providers = append(providers, sp)
		runners = append(runners, sp)
	}

	if sc.Metrics.EnableL2met {
		lp := l2met.New(logger, sc.Metrics.L2metInterval)
		providers = append(providers, lp)
		runners = append(runners, lp)
	}

	if len(providers) == 1 {
		s.MetricsProvider = providers[0]
	} else {
		s.MetricsProvider = multiprovider.New(providers...)
	}

	s.Statsd = statsd.NewEmitter(s.MetricsProvider, sc.Statsd.Prefix)

	if sc.Metrics.EnableRuntime {
		prefix := statsd.Key(s.Statsd.Prefix(), "gauges")
		runners = append(runners, runtimemetrics.NewCollector(s.MetricsProvider, prefix, sc.Metrics.RuntimeInterval))
	}

	s.Add(cmdutil.NewRunnerServers(runners...)...)
	if !o.skipSignals {
		s.Add(signals.NewServer(logger, syscall.SIGINT, syscall.SIGTERM))
	}

	return s
}

// Reporter returns a request metrics Reporter emitting to s.Statsd with
// the prefix and hostname settings from the environment. opts are applied
// after those defaults.
func (s *Standard) Reporter(opts ...requestmetrics.Option) *requestmetrics.Reporter {
	base := []requestmetrics.Option{
		requestmetrics.WithConfig(requestmetrics.ConfigFrom(s.StatsdConfig)),
		requestmetrics.WithLogger(s.Logger),
	}
	return requestmetrics.New(s.Statsd, append(base, opts...)...)
}

// HandlerCounter returns a completion hook counting the distinct handlers
// that served requests, reported per flush as <prefix>.sets.handlers.
func (s *Standard) HandlerCounter() func(requestmetrics.Hook) requestmetrics.Hook {
	cc := s.MetricsProvider.NewCardinalityCounter(statsd.Key(s.Statsd.Prefix(), "sets", "handlers"))
	return hmiddleware.CountHandlers(cc)
}

// Add adds cmdutil.Servers to be managed.
func (s *Standard) Add(svs ...cmdutil.Server) {
	for _, sv := range svs {
		s.g.Add(sv.Run, sv.Stop)
	}
}

// Run runs all standard and Added cmdutil.Servers.
//
// A panic is logged and rethrown. If the error returned by oklog/run.Run
// is non-nil, it is logged with s.Logger.Fatal.
func (s *Standard) Run() {
	defer ReportPanic(s.Logger)

	err := s.g.Run()

	// Not deferred: Fatal below would skip it.
	s.MetricsProvider.Stop()

	if err != nil {
		s.Logger.WithError(err).Fatal()
	}
}

// ReportPanic logs a recovered panic at panic level, which panics again.
// It must be deferred.
func ReportPanic(logger logrus.FieldLogger) {
	if p := recover(); p != nil {
		logger.Panic(p)
	}
}

type options struct {
	metricsProvider xmetrics.Provider
	skipSignals     bool
}

// OptionFunc is a function that modifies internal service options.
type OptionFunc func(*options)

// WithMetricsProvider has New record metrics into p instead of dialing
// the statsd daemon from STATSD_HOST and STATSD_PORT.
func WithMetricsProvider(p xmetrics.Provider) OptionFunc {
	return func(o *options) {
		o.metricsProvider = p
	}
}

// SkipSignals has New not install the SIGINT and SIGTERM handler.
func SkipSignals() OptionFunc {
	return func(o *options) {
		o.skipSignals = true
	}
}
