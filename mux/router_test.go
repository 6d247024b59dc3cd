package mux

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveRequest(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	t.Run("creates router with initialized namedRoutes", func(t *testing.T) {
		r := NewRouter()
		require.NotNil(t, r)
		assert.NotNil(t, r.namedRoutes)
	})
}

func TestRouterServeHTTP(t *testing.T) {
	t.Run("dispatches to matched handler", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/hello", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "world")
		})

		w := serveRequest(r, http.MethodGet, "/hello")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "world", w.Body.String())
	})

	t.Run("returns 404 for unmatched path", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/hello", func(_ http.ResponseWriter, _ *http.Request) {})

		w := serveRequest(r, http.MethodGet, "/notfound")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("uses custom NotFoundHandler", func(t *testing.T) {
		r := NewRouter()
		r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, "custom 404")
		})

		w := serveRequest(r, http.MethodGet, "/notfound")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "custom 404", w.Body.String())
	})

	t.Run("sets Vars in request context", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/users/:id", func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, Vars(req)["id"])
		})

		w := serveRequest(r, http.MethodGet, "/users/42")
		assert.Equal(t, "42", w.Body.String())
	})

	t.Run("sets CurrentRoute in request context", func(t *testing.T) {
		r := NewRouter()
		var got *Route
		route := r.HandleFunc("/test", func(_ http.ResponseWriter, req *http.Request) {
			got = CurrentRoute(req)
		})

		serveRequest(r, http.MethodGet, "/test")
		assert.Same(t, route, got)
	})

	t.Run("returns 405 with Allow header on method mismatch", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/users", func(_ http.ResponseWriter, _ *http.Request) {}).Methods(http.MethodGet)
		r.HandleFunc("/users", func(_ http.ResponseWriter, _ *http.Request) {}).Methods(http.MethodPost)

		w := serveRequest(r, http.MethodDelete, "/users")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	})

	t.Run("uses custom MethodNotAllowedHandler", func(t *testing.T) {
		r := NewRouter()
		r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
		r.HandleFunc("/users", func(_ http.ResponseWriter, _ *http.Request) {}).Methods(http.MethodGet)

		w := serveRequest(r, http.MethodPut, "/users")
		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.Equal(t, "GET", w.Header().Get("Allow"))
	})

	t.Run("cleans path before matching", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/a/b", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "ok")
		})

		w := serveRequest(r, http.MethodGet, "/a/x/../b")
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("first registered route wins", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/users/me", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "me")
		})
		r.HandleFunc("/users/:id", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "id")
		})

		assert.Equal(t, "me", serveRequest(r, http.MethodGet, "/users/me").Body.String())
		assert.Equal(t, "id", serveRequest(r, http.MethodGet, "/users/7").Body.String())
	})
}

func TestRouterSubrouter(t *testing.T) {
	t.Run("routes carry the full template", func(t *testing.T) {
		r := NewRouter()
		api := r.PathPrefix("/api/v1").Subrouter()
		route := api.HandleFunc("/users/:id", func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, Vars(req)["id"])
		}).Methods(http.MethodGet)

		tpl, err := route.GetPathTemplate()
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/users/:id", tpl)

		w := serveRequest(r, http.MethodGet, "/api/v1/users/9")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "9", w.Body.String())
	})

	t.Run("nested subrouters", func(t *testing.T) {
		r := NewRouter()
		api := r.PathPrefix("/api/").Subrouter()
		v1 := api.PathPrefix("/v1").Subrouter()
		route := v1.HandleFunc("/ping", func(_ http.ResponseWriter, _ *http.Request) {})

		tpl, err := route.GetPathTemplate()
		require.NoError(t, err)
		assert.Equal(t, "/api/v1/ping", tpl)
		assert.Equal(t, http.StatusOK, serveRequest(r, http.MethodGet, "/api/v1/ping").Code)
	})

	t.Run("method mismatch inside subrouter yields 405", func(t *testing.T) {
		r := NewRouter()
		api := r.PathPrefix("/api").Subrouter()
		api.HandleFunc("/users", func(_ http.ResponseWriter, _ *http.Request) {}).Methods(http.MethodGet)

		w := serveRequest(r, http.MethodPost, "/api/users")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET", w.Header().Get("Allow"))
	})

	t.Run("unmatched subrouter path falls through to later routes", func(t *testing.T) {
		r := NewRouter()
		api := r.PathPrefix("/api").Subrouter()
		api.HandleFunc("/users", func(_ http.ResponseWriter, _ *http.Request) {})
		r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "static")
		})

		assert.Equal(t, "static", serveRequest(r, http.MethodGet, "/api/other").Body.String())
		assert.Equal(t, "static", serveRequest(r, http.MethodGet, "/index.html").Body.String())
	})
}

func TestRouterNamedRoutes(t *testing.T) {
	t.Run("Get returns named route", func(t *testing.T) {
		r := NewRouter()
		route := r.HandleFunc("/users", func(_ http.ResponseWriter, _ *http.Request) {}).Name("listUsers")
		assert.Same(t, route, r.Get("listUsers"))
		assert.Nil(t, r.Get("missing"))
	})

	t.Run("subrouter shares named routes", func(t *testing.T) {
		r := NewRouter()
		api := r.PathPrefix("/api").Subrouter()
		route := api.HandleFunc("/users", func(_ http.ResponseWriter, _ *http.Request) {}).Name("users")
		assert.Same(t, route, r.Get("users"))
	})
}

func TestRouterWalk(t *testing.T) {
	t.Run("visits routes in registration order", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/a", func(_ http.ResponseWriter, _ *http.Request) {})
		api := r.PathPrefix("/api").Subrouter()
		api.HandleFunc("/b", func(_ http.ResponseWriter, _ *http.Request) {})
		r.HandleFunc("/c", func(_ http.ResponseWriter, _ *http.Request) {})

		var visited []string
		err := r.Walk(func(route *Route, _ *Router, _ []*Route) error {
			tpl, err := route.GetPathTemplate()
			require.NoError(t, err)
			visited = append(visited, tpl)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"/a", "/api", "/api/b", "/c"}, visited)
	})

	t.Run("passes ancestors", func(t *testing.T) {
		r := NewRouter()
		prefix := r.PathPrefix("/api")
		api := prefix.Subrouter()
		api.HandleFunc("/b", func(_ http.ResponseWriter, _ *http.Request) {})

		var got []*Route
		require.NoError(t, r.Walk(func(route *Route, _ *Router, ancestors []*Route) error {
			if route != prefix {
				got = ancestors
			}
			return nil
		}))
		require.Len(t, got, 1)
		assert.Same(t, prefix, got[0])
	})

	t.Run("SkipRouter skips subrouter", func(t *testing.T) {
		r := NewRouter()
		api := r.PathPrefix("/api").Subrouter()
		api.HandleFunc("/b", func(_ http.ResponseWriter, _ *http.Request) {})

		count := 0
		require.NoError(t, r.Walk(func(_ *Route, _ *Router, _ []*Route) error {
			count++
			return SkipRouter
		}))
		assert.Equal(t, 1, count)
	})

	t.Run("stops on error", func(t *testing.T) {
		r := NewRouter()
		r.HandleFunc("/a", func(_ http.ResponseWriter, _ *http.Request) {})
		r.HandleFunc("/b", func(_ http.ResponseWriter, _ *http.Request) {})

		boom := errors.New("boom")
		count := 0
		err := r.Walk(func(_ *Route, _ *Router, _ []*Route) error {
			count++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count)
	})
}

func TestRouterUse(t *testing.T) {
	t.Run("applies middleware in registration order", func(t *testing.T) {
		r := NewRouter()
		var order []string
		mw := func(name string) MiddlewareFunc {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, req)
				})
			}
		}
		r.Use(mw("first"), mw("second"))
		r.HandleFunc("/x", func(_ http.ResponseWriter, _ *http.Request) {
			order = append(order, "handler")
		})

		serveRequest(r, http.MethodGet, "/x")
		assert.Equal(t, []string{"first", "second", "handler"}, order)

		order = nil
		serveRequest(r, http.MethodGet, "/x")
		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("parent middleware wraps subrouter middleware", func(t *testing.T) {
		r := NewRouter()
		api := r.PathPrefix("/api").Subrouter()
		var order []string
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, "root")
				next.ServeHTTP(w, req)
			})
		})
		api.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, "api")
				next.ServeHTTP(w, req)
			})
		})
		api.HandleFunc("/x", func(_ http.ResponseWriter, _ *http.Request) {})

		serveRequest(r, http.MethodGet, "/api/x")
		assert.Equal(t, []string{"root", "api"}, order)
	})

	t.Run("middleware not applied on 404", func(t *testing.T) {
		r := NewRouter()
		called := false
		r.Use(func(next http.Handler) http.Handler {
			called = true
			return next
		})

		serveRequest(r, http.MethodGet, "/missing")
		assert.False(t, called)
	})
}
