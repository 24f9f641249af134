// Package svclog provides logging facilities for standard services.
package svclog

import (
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Config for logger.
type Config struct {
	AppName  string `env:"APP_NAME,required"`
	Deploy   string `env:"DEPLOY,default=development"`
	Dyno     string `env:"DYNO"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// NewLogger returns a new logger that includes app and deploy key/value pairs
// in each log line.
func NewLogger(cfg Config) logrus.FieldLogger {
	logger := logrus.WithFields(logrus.Fields{
		"app":    cfg.AppName,
		"deploy": cfg.Deploy,
	})
	if cfg.Dyno != "" {
		logger = logger.WithField("dyno", cfg.Dyno)
	}

	if l, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(l)
	}
	return logger
}

type printfer interface {
	Printf(format string, args ...interface{})
}

// SampleLogger drops Printf calls beyond a burst allowance per window.
type SampleLogger struct {
	logger  printfer
	limiter *rate.Limiter
}

// NewSampleLogger returns a SampleLogger that lets through at most
// logsBurstLimit lines, refilling one every logBurstWindow.
func NewSampleLogger(p printfer, logsBurstLimit int, logBurstWindow time.Duration) *SampleLogger {
	return &SampleLogger{
		logger:  p,
		limiter: rate.NewLimiter(rate.Every(logBurstWindow), logsBurstLimit),
	}
}

// Printf logs when the limiter allows it.
func (l *SampleLogger) Printf(format string, args ...interface{}) {
	if l.limiter.Allow() {
		l.logger.Printf(format, args...)
	}
}
