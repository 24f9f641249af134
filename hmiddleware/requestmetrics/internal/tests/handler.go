// Package tests holds handler fixtures for the requestmetrics tests. Its
// name is part of the metric names those tests expect.
package tests

import "net/http"

// StatsdRequestHandler answers every request with its configured status.
type StatsdRequestHandler struct {
	Status int
}

func (h *StatsdRequestHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if h.Status != 0 {
		w.WriteHeader(h.Status)
	}
}
