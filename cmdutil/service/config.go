package service

import (
	"time"

	"github.com/sprockets/x/cmdutil/svclog"
	"github.com/sprockets/x/statsd"
)

// standardConfig is used when service.New is called.
type standardConfig struct {
	Logger  svclog.Config
	Statsd  statsd.Config
	Metrics metricsConfig
}

// metricsConfig controls the providers fed alongside statsd.
type metricsConfig struct {
	// EnableL2met additionally reports every metric as l2met log lines.
	EnableL2met   bool          `env:"METRICS_ENABLE_L2MET,default=false"`
	L2metInterval time.Duration `env:"METRICS_L2MET_INTERVAL,default=60s"`

	// EnableRuntime reports Go runtime gauges under <prefix>.gauges.runtime.
	EnableRuntime   bool          `env:"METRICS_ENABLE_RUNTIME,default=false"`
	RuntimeInterval time.Duration `env:"METRICS_RUNTIME_INTERVAL,default=10s"`
}

// httpConfig is used by HTTP.
type httpConfig struct {
	Port int `env:"PORT,default=5000"`
}
