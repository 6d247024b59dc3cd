package swagger

import (
	"errors"
	"net/http"
)

// RouteEntry is the generator's view of one registered route.
type RouteEntry struct {
	// Path is the router path template ("/users/:id"). An empty Path is an
	// absent template: the route is left out of the document.
	Path string
	// Methods are the upper-case HTTP methods bound to the route. A route
	// without methods yields a path item without operations.
	Methods []string
	// Handler is the handler bound to the route, inspected for Documented
	// metadata.
	Handler http.Handler
	// Name is the router name of the route, if any.
	Name string
	// Endpoints is metadata attached when the route was registered. It is
	// applied after the metadata declared by Handler.
	Endpoints []Endpoint
}

// Endpoint is a typed documentation record for one operation.
//
// An endpoint applies to a route when Method equals one of the route
// methods and the route path template ends with Path. An empty Method
// matches every method and an empty Path matches every route.
type Endpoint struct {
	Method      string
	Path        string
	Summary     string
	Notes       string
	OperationID string
	Consumes    []string
	Produces    []string
	Schemes     []string
	Security    []SecurityRequirement
	Tags        []string
	Deprecated  bool

	// Response is the body type of the default 200 response. With
	// ResponseList set, the body is an array of Response.
	Response     any
	ResponseList bool

	// Responses documents additional status codes.
	Responses []Reply

	// Params are implicit parameters not visible in the path template.
	Params []Param

	// Extensions are vendor extensions. Keys must start with "x-".
	Extensions map[string]any
}

// Reply documents one response status code.
type Reply struct {
	Code    int
	Message string
	Body    any
}

// Param documents an implicit parameter. In is one of "query", "header",
// "path", "formData" or "body"; it defaults to "query". Body parameters
// take their schema from Body.
type Param struct {
	Name        string
	In          string
	Description string
	Type        string
	Format      string
	Required    bool
	Body        any
}

// Documented is implemented by handlers that declare their endpoints.
type Documented interface {
	Endpoints() []Endpoint
}

// Delegator is implemented by handler adapters. The generator unwraps one
// level and looks for Documented on the delegate.
type Delegator interface {
	Delegate() any
}

var (
	// ErrNilDelegate is reported when an adapter has no delegate.
	ErrNilDelegate = errors.New("swagger: handler adapter has no delegate")

	// ErrNotDocumented is reported when an adapter delegates to a value
	// that does not implement Documented.
	ErrNotDocumented = errors.New("swagger: delegate does not declare endpoints")
)

// binding is the adapter returned by Bind.
type binding struct {
	impl any
	fn   http.HandlerFunc
}

// Bind returns a handler that serves requests with fn and delegates
// documentation lookups to impl. It is meant for method values:
//
//	r.Handle("/users", swagger.Bind(h, h.listUsers)).Methods(http.MethodGet)
func Bind(impl any, fn http.HandlerFunc) http.Handler {
	return &binding{impl: impl, fn: fn}
}

func (b *binding) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.fn(w, r)
}

func (b *binding) Delegate() any {
	return b.impl
}

// declaredEndpoints returns the endpoints declared by h, unwrapping one
// adapter level. Plain handlers declare nothing.
func declaredEndpoints(h http.Handler) ([]Endpoint, error) {
	if h == nil {
		return nil, nil
	}

	if d, ok := h.(Delegator); ok {
		impl := d.Delegate()
		if impl == nil {
			return nil, ErrNilDelegate
		}
		doc, ok := impl.(Documented)
		if !ok {
			return nil, ErrNotDocumented
		}
		return doc.Endpoints(), nil
	}

	if doc, ok := h.(Documented); ok {
		return doc.Endpoints(), nil
	}
	return nil, nil
}
