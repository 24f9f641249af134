package hmiddleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/sirupsen/logrus"

	"github.com/sprockets/x/hmiddleware/requestmetrics"
	"github.com/sprockets/x/requestid"
)

// PostRequestLogger is a middleware for the github.com/sirupsen/logrus to log requests.
// It logs one router style line per request with remote_addr and user_agent.
func PostRequestLogger(l logrus.FieldLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww, ok := w.(middleware.WrapResponseWriter)
			if !ok {
				ww = middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			}

			t0 := time.Now()
			defer func() {
				logRequest(l, r, ww.Status(), ww.BytesWritten(), time.Since(t0))
			}()
			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}

func logRequest(l logrus.FieldLogger, r *http.Request, status int, bytes int, service time.Duration) {
	log := l.WithFields(logrus.Fields{
		"request_id":  requestid.Get(r),
		"method":      r.Method,
		"host":        r.Host,
		"path":        r.URL.RequestURI(),
		"remote_addr": r.RemoteAddr,
		"user_agent":  r.UserAgent(),
		"at":          "finish",
	})

	if status > 0 {
		log = log.WithField("status", status)
	}

	if bytes > 0 {
		log = log.WithField("bytes", bytes)
	}

	if service > 0 {
		log = log.WithField("service", fmt.Sprintf("%dms", service/time.Millisecond))
	}

	log.Info()
}

// LogFinished returns a completion hook which logs every finished request
// with the identity it was reported under, then calls the next hook.
func LogFinished(l logrus.FieldLogger) func(requestmetrics.Hook) requestmetrics.Hook {
	return func(next requestmetrics.Hook) requestmetrics.Hook {
		return func(handler interface{}, o *requestmetrics.Outcome) {
			defer next(handler, o)

			if o == nil {
				return
			}

			id := requestmetrics.IdentityOf(handler)
			l.WithFields(logrus.Fields{
				"at":      "finish",
				"handler": id.Namespace + "." + id.Name,
				"method":  o.Method,
				"status":  o.StatusCode,
				"service": fmt.Sprintf("%dms", o.Duration/time.Millisecond),
			}).Info()
		}
	}
}
