package requestmetrics_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/sprockets/x/hmiddleware/requestmetrics"
	"github.com/sprockets/x/statsd/statsdtest"
)

type WidgetHandler struct{}

func (WidgetHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusCreated)
}

// This example shows the metric names reported for a request.
func Example() {
	client := statsdtest.New("sprockets")
	reporter := requestmetrics.New(client, requestmetrics.WithUseHostname(false))

	h := reporter.Handler(WidgetHandler{})
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/widgets", nil))

	for _, call := range client.Calls() {
		fmt.Println(call.Kind, strings.Join(call.Path, "."))
	}

	// Output:
	// timing sprockets.timers.requestmetrics_test.WidgetHandler.POST.201
	// counter sprockets.counters.requestmetrics_test.WidgetHandler.POST.201
}
