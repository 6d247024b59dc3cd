package mux

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
)

// Route stores information to match a request and build URLs.
type Route struct {
	router      *Router
	handler     http.Handler
	path        *pathTemplate
	methods     []string
	name        string
	err         error
	namedRoutes map[string]*Route

	// staticCtx caches the request context value for routes without
	// variables so that dispatch does not allocate per request.
	staticCtxOnce sync.Once
	staticCtx     *routeContext
}

// Match matches this route against the request. A route without a path
// matches every path; a route without methods matches every method.
func (r *Route) Match(req *http.Request, match *RouteMatch) bool {
	if r.err != nil {
		return false
	}

	var vars map[string]string
	if r.path != nil {
		v, ok := r.path.match(req.URL.Path)
		if !ok {
			return false
		}
		vars = v
	}

	// Subrouters decide on the method themselves.
	if sub, ok := r.handler.(*Router); ok {
		return sub.Match(req, match)
	}

	if len(r.methods) > 0 && !slices.Contains(r.methods, req.Method) {
		match.MatchErr = ErrMethodMismatch
		return false
	}

	match.Route = r
	match.Handler = r.handler
	match.Vars = vars
	match.MatchErr = nil
	return true
}

// Handler sets a handler for the route.
func (r *Route) Handler(handler http.Handler) *Route {
	if r.err == nil {
		r.handler = handler
	}
	return r
}

// HandlerFunc sets a handler function for the route.
func (r *Route) HandlerFunc(f func(http.ResponseWriter, *http.Request)) *Route {
	return r.Handler(http.HandlerFunc(f))
}

// GetHandler returns the handler for the route, if any.
func (r *Route) GetHandler() http.Handler {
	return r.handler
}

// Name sets the name for the route, used to build URLs and to attach
// documentation by name. Naming a route twice is an error.
func (r *Route) Name(name string) *Route {
	if r.name != "" {
		r.err = fmt.Errorf("mux: route already has name %q, can't set %q", r.name, name)
		return r
	}
	if r.err == nil {
		r.name = name
		if r.namedRoutes != nil {
			r.namedRoutes[name] = r
		}
	}
	return r
}

// GetName returns the name for the route, if any.
func (r *Route) GetName() string {
	return r.name
}

// Path adds a path matcher to the route. Path variables use the colon
// token syntax: "/users/:id".
func (r *Route) Path(tpl string) *Route {
	return r.setPath(tpl, false)
}

// PathPrefix adds a path prefix matcher to the route. The prefix matches on
// segment boundaries: "/api" matches "/api/users" but not "/apis".
func (r *Route) PathPrefix(tpl string) *Route {
	return r.setPath(tpl, true)
}

// setPath prepends the template of the parent route, if any, so that
// subrouter routes always carry their full path.
func (r *Route) setPath(tpl string, prefix bool) *Route {
	if r.err != nil {
		return r
	}
	if parent := r.router.parentTemplate(); parent != "" {
		tpl = strings.TrimRight(parent, "/") + tpl
	}
	t, err := newPathTemplate(tpl, prefix)
	if err != nil {
		r.err = err
		return r
	}
	r.path = t
	return r
}

// Methods adds a method matcher to the route. Calling Methods again
// replaces the previous set.
func (r *Route) Methods(methods ...string) *Route {
	upper := make([]string, len(methods))
	for i, m := range methods {
		upper[i] = strings.ToUpper(m)
	}
	r.methods = upper
	return r
}

// Subrouter creates a new Router for the route. Paths registered on the
// subrouter are prefixed with this route's path template.
func (r *Route) Subrouter() *Router {
	router := &Router{
		parent:      r,
		namedRoutes: r.namedRoutes,
	}
	r.handler = router
	return router
}

// --- Inspection ---

// GetPathTemplate returns the template for the route path, if defined.
func (r *Route) GetPathTemplate() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	if r.path == nil {
		return "", errors.New("mux: route doesn't have a path")
	}
	return r.path.template, nil
}

// IsPathPrefix reports whether the route matches a path prefix rather
// than a complete path.
func (r *Route) IsPathPrefix() bool {
	return r.path != nil && r.path.prefix
}

// GetMethods returns the methods the route matches against.
func (r *Route) GetMethods() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.methods) == 0 {
		return nil, errors.New("mux: route doesn't have methods")
	}
	return slices.Clone(r.methods), nil
}

// GetVarNames returns the path variable names in template order.
func (r *Route) GetVarNames() ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.path == nil {
		return nil, nil
	}
	return r.path.varNames(), nil
}

// GetError returns any error that was set on the route.
func (r *Route) GetError() error {
	return r.err
}

// URLPath builds the path part of the URL from key/value pairs for the
// route variables.
func (r *Route) URLPath(pairs ...string) (*url.URL, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.path == nil {
		return nil, errors.New("mux: route doesn't have a path")
	}
	values, err := mapFromPairsToString(pairs...)
	if err != nil {
		return nil, err
	}
	path, err := r.path.build(values)
	if err != nil {
		return nil, err
	}
	return &url.URL{Path: path}, nil
}
