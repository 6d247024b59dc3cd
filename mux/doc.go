// Package mux implements a request router and dispatcher for matching
// incoming HTTP requests to their respective handler functions.
//
// The router keeps a registry of routes in registration order. Besides
// dispatching, the registry can be inspected with Walk, which is what the
// swagger package uses to describe the API surface.
//
// # Router
//
// Create a new router and register handlers:
//
//	r := mux.NewRouter()
//	r.HandleFunc("/users", listUsers).Methods(http.MethodGet)
//	r.HandleFunc("/users/:id", getUser).Methods(http.MethodGet)
//	http.ListenAndServe(":8080", r)
//
// # Path Variables
//
// A path segment starting with a colon followed by word characters is a
// variable. Variables match exactly one non-empty segment:
//
//	r.HandleFunc("/users/:id/orders/:orderId", handler)
//
// Variables are stored in the request context:
//
//	vars := mux.Vars(r)
//	id := vars["id"]
//
// # Subrouters
//
// A path prefix route can host a subrouter. Routes registered on the
// subrouter carry the full path template, including the prefix:
//
//	api := r.PathPrefix("/api/v1").Subrouter()
//	api.HandleFunc("/users", listUsers).Methods(http.MethodGet)
//	// template: /api/v1/users
//
// # Method Matching
//
// When a path matches but the method does not, the router replies with
// 405 Method Not Allowed and an Allow header listing the methods that
// would have matched. Otherwise unmatched requests get 404.
//
// # Middleware
//
// Middleware registered with Use wraps matched handlers only. Middleware of
// a subrouter runs inside the middleware of its parent router.
//
//	r.Use(func(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
//	        next.ServeHTTP(w, req)
//	    })
//	})
//
// # Walking Routes
//
//	r.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
//	    tpl, err := route.GetPathTemplate()
//	    methods, err := route.GetMethods()
//	    return nil
//	})
package mux
