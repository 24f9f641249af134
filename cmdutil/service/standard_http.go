package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sprockets/x/cmdutil"
)

// HTTP returns a standard HTTP server for the provided handler, listening
// on PORT.
func HTTP(l logrus.FieldLogger, h http.Handler, opts ...func(*httpOptions)) cmdutil.Server {
	var cfg httpConfig
	envdecode.MustDecode(&cfg)

	var o httpOptions
	for _, opt := range opts {
		opt(&o)
	}

	s := &http.Server{
		Handler:           h,
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if o.serverHook != nil {
		o.serverHook(s)
	}

	return standardServer(l, s)
}

type httpOptions struct {
	serverHook func(*http.Server)
}

// WithHTTPServerHook allows services to adjust settings on the HTTP server
// after the defaults are applied but before the server is started.
func WithHTTPServerHook(fn func(*http.Server)) func(*httpOptions) {
	return func(o *httpOptions) {
		o.serverHook = fn
	}
}

// listenHook allows tests to intercept the listener created for the
// standard server, e.g., to get the resolved address when the server's
// Addr is `:0`.
var listenHook chan net.Listener

// standardServer adapts an http.Server to a cmdutil.Server.
func standardServer(l logrus.FieldLogger, srv *http.Server) cmdutil.Server {
	return cmdutil.ServerFuncs{
		RunFunc: func() error {
			l.WithFields(logrus.Fields{
				"at":   "binding",
				"addr": srv.Addr,
			}).Info()

			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return errors.Wrap(err, "listening to tcp addr")
			}
			defer ln.Close()

			if listenHook != nil {
				listenHook <- ln
			}

			if err := srv.Serve(ln); err != http.ErrServerClosed {
				return err
			}
			return nil
		},
		StopFunc: func(error) { gracefulShutdown(l, srv) },
	}
}

func gracefulShutdown(l logrus.FieldLogger, s *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	l.WithField("at", "graceful-shutdown").Info()
	if err := s.Shutdown(ctx); err != nil {
		l.WithField("at", "graceful-shutdown").WithError(err).Warn()
		s.Close()
	}
}
