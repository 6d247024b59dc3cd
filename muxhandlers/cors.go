package muxhandlers

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/vitalvas/routedoc/mux"
)

// ErrWildcardCredentials is returned when AllowedOrigins contains "*" and
// AllowCredentials is true.
var ErrWildcardCredentials = errors.New("cors: wildcard origin cannot be combined with credentials")

// CORSConfig configures the CORS middleware.
//
// See: https://fetch.spec.whatwg.org/#http-cors-protocol
type CORSConfig struct {
	// AllowedOrigins holds exact origins, "*", or subdomain patterns such
	// as "https://*.example.com".
	AllowedOrigins []string

	// AllowedHeaders lists the request headers accepted in preflight.
	// When empty the requested headers are reflected.
	AllowedHeaders []string

	// ExposeHeaders lists the response headers visible to client code.
	ExposeHeaders []string

	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the
	// header.
	MaxAge int
}

type originPattern struct {
	prefix string
	suffix string
}

type originMatcher struct {
	any      bool
	exact    []string
	patterns []originPattern
}

func newOriginMatcher(origins []string) (*originMatcher, error) {
	m := &originMatcher{}
	for _, o := range origins {
		if o == "*" {
			m.any = true
			continue
		}

		lower := strings.ToLower(o)
		prefix, suffix, ok := strings.Cut(lower, "*")
		if !ok {
			m.exact = append(m.exact, lower)
			continue
		}
		if strings.Contains(suffix, "*") {
			return nil, errors.New("cors: origin pattern contains multiple wildcards: " + o)
		}
		m.patterns = append(m.patterns, originPattern{prefix: prefix, suffix: suffix})
	}
	return m, nil
}

func (m *originMatcher) allowed(origin string) bool {
	if m.any {
		return true
	}

	origin = strings.ToLower(origin)
	if slices.Contains(m.exact, origin) {
		return true
	}
	for _, p := range m.patterns {
		if len(origin) >= len(p.prefix)+len(p.suffix) &&
			strings.HasPrefix(origin, p.prefix) &&
			strings.HasSuffix(origin, p.suffix) {
			return true
		}
	}
	return false
}

// CORSMiddleware returns a middleware implementing CORS for the routes of r.
//
// Preflight requests never reach a route registered without OPTIONS, so
// the middleware also installs a MethodNotAllowedHandler on r that answers
// them. The allowed methods are discovered from the routes matching the
// request path.
func CORSMiddleware(r *mux.Router, cfg CORSConfig) (mux.MiddlewareFunc, error) {
	origins, err := newOriginMatcher(cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}
	if origins.any && cfg.AllowCredentials {
		return nil, ErrWildcardCredentials
	}

	setOrigin := func(w http.ResponseWriter, origin string) {
		if origins.any {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		if cfg.AllowCredentials {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
	}

	preflight := func(w http.ResponseWriter, req *http.Request) {
		if methods := routeMethods(r, req); len(methods) > 0 {
			w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
		}

		if len(cfg.AllowedHeaders) > 0 {
			w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ","))
		} else if requested := req.Header.Get("Access-Control-Request-Headers"); requested != "" {
			w.Header().Set("Access-Control-Allow-Headers", requested)
		}

		if cfg.MaxAge > 0 {
			w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		w.Header().Add("Vary", "Access-Control-Request-Method")
		w.Header().Add("Vary", "Access-Control-Request-Headers")
		w.WriteHeader(http.StatusNoContent)
	}

	isPreflight := func(req *http.Request) bool {
		return req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != ""
	}

	prev := r.MethodNotAllowedHandler
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if origin := req.Header.Get("Origin"); origin != "" && isPreflight(req) && origins.allowed(origin) {
			w.Header().Del("Allow")
			setOrigin(w, origin)
			preflight(w, req)
			return
		}

		if prev != nil {
			prev.ServeHTTP(w, req)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			origin := req.Header.Get("Origin")
			if origin == "" || !origins.allowed(origin) {
				if !origins.any {
					w.Header().Add("Vary", "Origin")
				}
				next.ServeHTTP(w, req)
				return
			}

			setOrigin(w, origin)
			if isPreflight(req) {
				preflight(w, req)
				return
			}

			if len(cfg.ExposeHeaders) > 0 {
				w.Header().Set("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ","))
			}
			next.ServeHTTP(w, req)
		})
	}, nil
}

// routeMethods returns the methods of every route of r matching the
// request path.
func routeMethods(r *mux.Router, req *http.Request) []string {
	var methods []string

	_ = r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		declared, err := route.GetMethods()
		if err != nil {
			return nil
		}

		for _, method := range declared {
			probe := req.Clone(req.Context())
			probe.Method = method
			if route.Match(probe, &mux.RouteMatch{}) && !slices.Contains(methods, method) {
				methods = append(methods, method)
			}
		}
		return nil
	})

	return methods
}
