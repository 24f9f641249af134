package hmiddleware

import (
	"github.com/sprockets/x/hmiddleware/requestmetrics"
	"github.com/sprockets/x/metrics"
)

// CountHandlers returns a completion hook which inserts the identity of
// every handler that finished a request into cc, then calls the next hook.
// Providers report the number of distinct handlers seen per flush.
func CountHandlers(cc metrics.CardinalityCounter) func(requestmetrics.Hook) requestmetrics.Hook {
	return func(next requestmetrics.Hook) requestmetrics.Hook {
		return func(handler interface{}, o *requestmetrics.Outcome) {
			defer next(handler, o)

			if o == nil {
				return
			}

			id := requestmetrics.IdentityOf(handler)
			cc.Insert([]byte(id.Namespace + "." + id.Name))
		}
	}
}
