// Package swagger generates Swagger 2.0 API descriptions from the routes
// registered on a mux router.
//
// See: https://swagger.io/specification/v2/
//
// # Pipeline
//
// Generation is a chain of stages over a route snapshot:
//
//	routes := spec.Snapshot(r)              // []RouteEntry, registration order
//	paths := swagger.BuildPathTable(routes)  // one PathItem per normalized path
//	paths = swagger.ExtractOperations(paths, routes)
//	paths = swagger.NewResolver(logger, nil).Resolve(paths, routes)
//	doc := swagger.Assemble(paths, info, "/api/v1", nil)
//
// Spec.Generate runs all of it under the spec's lock.
//
// Router paths use the colon syntax ("/users/:id") and are written to the
// document with braces ("/users/{id}"). Routes without a path template,
// such as path prefix catch-alls and subrouter mounts, are not documented.
//
// # Handler Metadata
//
// A handler documents itself by implementing Documented:
//
//	func (h *Handler) Endpoints() []swagger.Endpoint {
//	    return []swagger.Endpoint{
//	        {Method: http.MethodPost, Path: "/users", Summary: "Create user"},
//	    }
//	}
//
// An endpoint applies to every route whose path template ends with its Path
// and whose methods include its Method, so one declaration serves the
// handler wherever it is mounted. Method values lose the receiver type, so
// wrap them with Bind:
//
//	api.Handle("/users", swagger.Bind(h, h.create)).Methods(http.MethodPost)
//
// When several endpoints match one operation they are applied in order and
// later ones overwrite the fields they set.
//
// # Registration Metadata
//
// Metadata can also be attached where the route is registered. It is
// applied after the handler's own endpoints:
//
//	spec.Route(r.HandleFunc("/health", health).Methods(http.MethodGet)).
//	    Summary("Health check").
//	    Response(http.StatusServiceUnavailable, "Not ready", nil)
//
//	spec.Op("listUsers").Tags("users")
//
// # Publishing
//
//	spec.Publish(r, "/api/v1/spec", swagger.APIKeyScheme("Authorization", "header"))
//	// GET /api/v1/spec.json
//	// GET /api/v1/spec.yaml
//
// # Definitions
//
// Body and response types are converted to definitions by SchemaGenerator.
// Field schemas can be refined with the swagger struct tag:
//
//	type User struct {
//	    Login string `json:"login" swagger:"description=Login name,example=john@doe.com"`
//	}
package swagger
