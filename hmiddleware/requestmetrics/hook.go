package requestmetrics

import "time"

// Outcome is the state of a finished request. A nil *Outcome means there
// was no active request.
type Outcome struct {
	Method     string
	StatusCode int
	Duration   time.Duration
}

// A Hook is called once a request has finished. handler is the component
// that served it.
type Hook func(handler interface{}, o *Outcome)

// NopHook ends a completion chain.
func NopHook(interface{}, *Outcome) {}

// Chain builds a completion chain ending in final. The first middleware
// runs first; each is responsible for calling the hook it wraps.
func Chain(final Hook, mws ...func(Hook) Hook) Hook {
	if final == nil {
		final = NopHook
	}
	h := final
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
