package requestmetrics

import (
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/sprockets/x/clock"
)

// Handler returns an http.Handler serving h. When h returns, the completion
// chain runs exactly once: r first, then hooks in order.
//
// If h panics before writing a status, the request is reported as 500 and
// the panic continues once the chain has run.
func (r *Reporter) Handler(h http.Handler, hooks ...func(Hook) Hook) http.Handler {
	mws := make([]func(Hook) Hook, 0, len(hooks)+1)
	mws = append(mws, r.Hook)
	mws = append(mws, hooks...)

	return &handler{
		next:   h,
		finish: Chain(NopHook, mws...),
		clock:  r.clock,
	}
}

// Middleware is Handler without extra hooks, in the func(http.Handler)
// http.Handler shape used by chi.
func (r *Reporter) Middleware(next http.Handler) http.Handler {
	return r.Handler(next)
}

type handler struct {
	next   http.Handler
	finish Hook
	clock  clock.Clock
}

func (h *handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ww, ok := w.(middleware.WrapResponseWriter)
	if !ok {
		ww = middleware.NewWrapResponseWriter(w, req.ProtoMajor)
	}

	start := h.clock.Now()
	completed := false
	defer func() {
		status := ww.Status()
		if !completed && status == 0 {
			status = http.StatusInternalServerError
		}
		h.finish(h.next, &Outcome{
			Method:     req.Method,
			StatusCode: status,
			Duration:   h.clock.Now().Sub(start),
		})
	}()

	h.next.ServeHTTP(ww, req)
	completed = true
}
