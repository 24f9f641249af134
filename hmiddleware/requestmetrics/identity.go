package requestmetrics

import (
	"net/http"
	"path"
	"reflect"
)

const unknown = "unknown"

// Identity names the component that handled a request.
type Identity struct {
	// Namespace is the last element of the handler type's package path.
	Namespace string
	// Name is the handler's type name.
	Name string
}

// An Identifier provides its own Identity instead of the one derived from
// its type.
type Identifier interface {
	MetricIdentity() Identity
}

// IdentityOf returns the Identity of h. Pointer types are dereferenced.
func IdentityOf(h interface{}) Identity {
	if id, ok := h.(Identifier); ok {
		return id.MetricIdentity()
	}

	t := reflect.TypeOf(h)
	if t == nil {
		return Identity{Namespace: unknown, Name: unknown}
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	id := Identity{Namespace: unknown, Name: t.Name()}
	if pkg := t.PkgPath(); pkg != "" {
		id.Namespace = path.Base(pkg)
	}
	if id.Name == "" {
		id.Name = t.Kind().String()
	}
	return id
}

// Named returns h reporting under id, e.g. for http.HandlerFunc values
// that would otherwise all be reported as http.HandlerFunc.
func Named(id Identity, h http.Handler) http.Handler {
	return namedHandler{id: id, Handler: h}
}

type namedHandler struct {
	http.Handler
	id Identity
}

func (n namedHandler) MetricIdentity() Identity { return n.id }
