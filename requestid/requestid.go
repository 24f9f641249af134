// Package requestid reads and assigns the request IDs attached to log lines
// about finished requests.
package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

// Header is the header Ensure sets.
const Header = "Request-ID"

var requestIDKeys = []string{
	Header, "X-Request-ID",
}

// Get reads the Request-ID and X-Request-ID HTTP header from an `*http.Request`
// If no header is set, an empty string is returned
func Get(r *http.Request) string {
	for _, try := range requestIDKeys {
		if id := r.Header.Get(try); id != "" {
			return id
		}
	}
	return ""
}

// Ensure is middleware which assigns a random request ID to requests which
// arrive without one, and echoes the ID on the response.
func Ensure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Get(r)
		if id == "" {
			id = uuid.New().String()
			r.Header.Set(Header, id)
		}
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r)
	})
}
