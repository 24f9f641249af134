// Package signals provides a signal handler which is usable as a cmdutil.Server.
package signals

import (
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/sprockets/x/cmdutil"
)

// NewServer returns a cmdutil.Server that returns from Run
// when any of the provided signals are received.
// Run always returns a nil error.
func NewServer(logger logrus.FieldLogger, signals ...os.Signal) cmdutil.Server {
	ch := make(chan os.Signal, 1)

	return cmdutil.ServerFuncs{
		RunFunc: func() error {
			signal.Notify(ch, signals...)
			if sig := <-ch; sig != nil {
				logger.WithField("at", "signal").Infoln("received signal", sig)
			}
			return nil
		},
		StopFunc: func(error) {
			signal.Stop(ch)
			select {
			case ch <- nil:
			default:
			}
		},
	}
}
