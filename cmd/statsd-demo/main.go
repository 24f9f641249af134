// Command statsd-demo serves a small widget API and reports a timing and a
// counter per request to statsd.
//
// Configuration is taken from the environment: APP_NAME, PORT, and the
// STATSD_* variables (STATSD_HOST, STATSD_PORT, STATSD_PREFIX,
// STATSD_USE_HOSTNAME, STATSD_FLUSH_INTERVAL). The number of distinct
// handlers that served traffic is reported per flush as
// <prefix>.sets.handlers.
package main

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi"
	"github.com/sirupsen/logrus"

	"github.com/sprockets/x/cmdutil/service"
	"github.com/sprockets/x/hmiddleware"
	"github.com/sprockets/x/requestid"
)

func main() {
	s := service.New(nil)

	reporter := s.Reporter()
	logFinished := hmiddleware.LogFinished(s.Logger)
	handlers := s.HandlerCounter()

	widgets := &WidgetHandler{Logger: s.Logger}

	r := chi.NewRouter()
	r.Use(requestid.Ensure)
	r.Use(hmiddleware.PostRequestLogger(s.Logger))
	r.Method("GET", "/widgets", reporter.Handler(widgets, logFinished, handlers))
	r.Method("POST", "/widgets", reporter.Handler(widgets, logFinished, handlers))
	r.Method("GET", "/status", reporter.Handler(StatusHandler{}, logFinished, handlers))

	s.Add(service.HTTP(s.Logger, r))
	s.Run()
}

// WidgetHandler lists and creates widgets.
type WidgetHandler struct {
	Logger logrus.FieldLogger

	mu    sync.Mutex
	names []string
}

func (h *WidgetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch r.Method {
	case "POST":
		var in struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Name == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		h.names = append(h.names, in.Name)
		w.WriteHeader(http.StatusCreated)
	default:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(h.names); err != nil {
			h.Logger.WithError(err).WithField("at", "encode-widgets").Warn()
		}
	}
}

// StatusHandler reports liveness.
type StatusHandler struct{}

func (StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
