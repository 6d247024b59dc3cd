package swagger

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

// documentedHandler declares a fixed set of endpoints.
type documentedHandler struct {
	endpoints []Endpoint
}

func (h *documentedHandler) ServeHTTP(http.ResponseWriter, *http.Request) {}

func (h *documentedHandler) Endpoints() []Endpoint {
	return h.endpoints
}

// panickingHandler fails while declaring its endpoints.
type panickingHandler struct{}

func (panickingHandler) ServeHTTP(http.ResponseWriter, *http.Request) {}

func (panickingHandler) Endpoints() []Endpoint {
	panic("broken metadata")
}

func noop(http.ResponseWriter, *http.Request) {}

func slogDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// resolve runs the pipeline up to the resolver.
func resolve(t *testing.T, logger *slog.Logger, routes ...RouteEntry) *Paths {
	t.Helper()
	paths := ExtractOperations(BuildPathTable(routes), routes)
	return NewResolver(logger, nil).Resolve(paths, routes)
}

func operation(t *testing.T, paths *Paths, path, method string) *Operation {
	t.Helper()
	item, ok := paths.Get(path)
	require.True(t, ok, "path %s", path)
	op := item.Operation(method)
	require.NotNil(t, op, "%s %s", method, path)
	return op
}

func TestResolverMatching(t *testing.T) {
	t.Run("suffix match under a mount prefix", func(t *testing.T) {
		h := &documentedHandler{endpoints: []Endpoint{
			{Method: http.MethodGet, Path: "/users/:id", Summary: "Get user"},
		}}
		paths := resolve(t, nil, RouteEntry{
			Path:    "/api/v1/users/:id",
			Methods: []string{http.MethodGet, http.MethodDelete},
			Handler: h,
		})

		assert.Equal(t, "Get user", operation(t, paths, "/api/v1/users/{id}", http.MethodGet).Summary)
		assert.Empty(t, operation(t, paths, "/api/v1/users/{id}", http.MethodDelete).Summary)
	})

	t.Run("suffix must match the end of the path", func(t *testing.T) {
		h := &documentedHandler{endpoints: []Endpoint{
			{Method: http.MethodGet, Path: "/users", Summary: "List users"},
		}}
		paths := resolve(t, nil, RouteEntry{
			Path:    "/users/:id",
			Methods: []string{http.MethodGet},
			Handler: h,
		})

		assert.Empty(t, operation(t, paths, "/users/{id}", http.MethodGet).Summary)
	})

	t.Run("method comparison ignores case", func(t *testing.T) {
		h := &documentedHandler{endpoints: []Endpoint{{Method: "post", Path: "/users", Summary: "Create"}}}
		paths := resolve(t, nil, RouteEntry{Path: "/users", Methods: []string{http.MethodPost}, Handler: h})

		assert.Equal(t, "Create", operation(t, paths, "/users", http.MethodPost).Summary)
	})

	t.Run("empty method and path match every operation", func(t *testing.T) {
		h := &documentedHandler{endpoints: []Endpoint{{Tags: []string{"users"}}}}
		paths := resolve(t, nil, RouteEntry{
			Path:    "/users",
			Methods: []string{http.MethodGet, http.MethodPost},
			Handler: h,
		})

		assert.Equal(t, []string{"users"}, operation(t, paths, "/users", http.MethodGet).Tags)
		assert.Equal(t, []string{"users"}, operation(t, paths, "/users", http.MethodPost).Tags)
	})

	t.Run("later endpoints overwrite earlier ones", func(t *testing.T) {
		h := &documentedHandler{endpoints: []Endpoint{
			{Method: http.MethodGet, Path: "/users", Summary: "first", Notes: "kept"},
			{Method: http.MethodGet, Path: "/users", Summary: "second"},
		}}
		paths := resolve(t, nil, RouteEntry{Path: "/users", Methods: []string{http.MethodGet}, Handler: h})

		op := operation(t, paths, "/users", http.MethodGet)
		assert.Equal(t, "second", op.Summary)
		assert.Equal(t, "kept", op.Description)
	})

	t.Run("registration endpoints apply after handler endpoints", func(t *testing.T) {
		h := &documentedHandler{endpoints: []Endpoint{{Method: http.MethodGet, Path: "/users", Summary: "handler"}}}
		paths := resolve(t, nil, RouteEntry{
			Path:      "/users",
			Methods:   []string{http.MethodGet},
			Handler:   h,
			Endpoints: []Endpoint{{Summary: "registration"}},
		})

		assert.Equal(t, "registration", operation(t, paths, "/users", http.MethodGet).Summary)
	})

	t.Run("no metadata keeps the bare operation", func(t *testing.T) {
		paths := resolve(t, nil, RouteEntry{
			Path:    "/users/:id",
			Methods: []string{http.MethodDelete},
			Handler: http.HandlerFunc(noop),
		})

		op := operation(t, paths, "/users/{id}", http.MethodDelete)
		assert.Empty(t, op.Summary)
		assert.Equal(t, []*Parameter{{Name: "id", In: "path", Required: true}}, op.Parameters)
	})
}

func TestResolverHandlerUnwrap(t *testing.T) {
	t.Run("Bind delegates to the implementation", func(t *testing.T) {
		h := &documentedHandler{endpoints: []Endpoint{{Method: http.MethodPost, Path: "/users", Summary: "Create user"}}}
		paths := resolve(t, nil, RouteEntry{
			Path:    "/api/v1/users",
			Methods: []string{http.MethodPost},
			Handler: Bind(h, noop),
		})

		assert.Equal(t, "Create user", operation(t, paths, "/api/v1/users", http.MethodPost).Summary)
	})

	t.Run("Bind serves with the bound function", func(t *testing.T) {
		called := false
		handler := Bind(nil, func(http.ResponseWriter, *http.Request) { called = true })
		handler.ServeHTTP(nil, nil)
		assert.True(t, called)
	})

	t.Run("delegate without endpoints is logged and skipped", func(t *testing.T) {
		logger, buf := newTestLogger()
		paths := resolve(t, logger, RouteEntry{
			Path:    "/users",
			Methods: []string{http.MethodGet},
			Handler: Bind(struct{}{}, noop),
		})

		assert.NotNil(t, operation(t, paths, "/users", http.MethodGet))
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), ErrNotDocumented.Error())
	})

	t.Run("nil delegate is logged and skipped", func(t *testing.T) {
		logger, buf := newTestLogger()
		paths := resolve(t, logger, RouteEntry{
			Path:    "/users",
			Methods: []string{http.MethodGet},
			Handler: Bind(nil, noop),
		})

		assert.NotNil(t, operation(t, paths, "/users", http.MethodGet))
		assert.Contains(t, buf.String(), ErrNilDelegate.Error())
	})

	t.Run("panicking handler only affects its route", func(t *testing.T) {
		logger, buf := newTestLogger()
		ok := &documentedHandler{endpoints: []Endpoint{{Method: http.MethodGet, Path: "/b", Summary: "B"}}}
		paths := resolve(t, logger,
			RouteEntry{Path: "/a", Methods: []string{http.MethodGet}, Handler: panickingHandler{}},
			RouteEntry{Path: "/b", Methods: []string{http.MethodGet}, Handler: ok},
		)

		assert.Empty(t, operation(t, paths, "/a", http.MethodGet).Summary)
		assert.Equal(t, "B", operation(t, paths, "/b", http.MethodGet).Summary)
		assert.Contains(t, buf.String(), "broken metadata")
	})

	t.Run("panicking handler keeps registration endpoints", func(t *testing.T) {
		paths := resolve(t, slogDiscard(), RouteEntry{
			Path:      "/a",
			Methods:   []string{http.MethodGet},
			Handler:   panickingHandler{},
			Endpoints: []Endpoint{{Summary: "registered"}},
		})

		assert.Equal(t, "registered", operation(t, paths, "/a", http.MethodGet).Summary)
	})
}

func TestResolverDecoration(t *testing.T) {
	full := Endpoint{
		Method:      http.MethodPut,
		Path:        "/users/:id",
		Summary:     "Update user",
		Notes:       "Replaces the user",
		OperationID: "updateUser",
		Consumes:    []string{"application/json"},
		Produces:    []string{"application/json"},
		Schemes:     []string{"https"},
		Security:    []SecurityRequirement{Requirement("auth")},
		Tags:        []string{"users"},
		Deprecated:  true,
		Response:    testUser{},
		Responses: []Reply{
			{Code: http.StatusInternalServerError, Message: "Internal server error"},
			{Code: http.StatusServiceUnavailable},
		},
		Params: []Param{
			{Name: "body", In: "body", Description: "User", Required: true, Body: testUser{}},
			{Name: "id", In: "path", Description: "User ID", Type: "string", Format: "uuid"},
			{Name: "dryRun", Type: "boolean"},
		},
		Extensions: map[string]any{"x-audit": true, "invalid": 1},
	}

	logger, buf := newTestLogger()
	routes := []RouteEntry{{
		Path:    "/users/:id",
		Methods: []string{http.MethodPut},
		Handler: &documentedHandler{endpoints: []Endpoint{full}},
	}}
	schemas := NewSchemaGenerator()
	paths := NewResolver(logger, schemas).Resolve(ExtractOperations(BuildPathTable(routes), routes), routes)
	op := operation(t, paths, "/users/{id}", http.MethodPut)

	t.Run("scalar fields", func(t *testing.T) {
		assert.Equal(t, "Update user", op.Summary)
		assert.Equal(t, "Replaces the user", op.Description)
		assert.Equal(t, "updateUser", op.OperationID)
		assert.True(t, op.Deprecated)
	})

	t.Run("lists", func(t *testing.T) {
		assert.Equal(t, []string{"application/json"}, op.Consumes)
		assert.Equal(t, []string{"application/json"}, op.Produces)
		assert.Equal(t, []string{"https"}, op.Schemes)
		assert.Equal(t, []string{"users"}, op.Tags)
		assert.Equal(t, []SecurityRequirement{{"auth": {}}}, op.Security)
	})

	t.Run("responses", func(t *testing.T) {
		require.Len(t, op.Responses, 3)
		assert.Equal(t, &Response{Description: "OK", Schema: &Schema{Ref: "#/definitions/testUser"}}, op.Responses["200"])
		assert.Equal(t, "Internal server error", op.Responses["500"].Description)
		assert.Equal(t, "Service Unavailable", op.Responses["503"].Description)
		assert.Contains(t, schemas.Definitions(), "testUser")
	})

	t.Run("implicit parameters", func(t *testing.T) {
		require.Len(t, op.Parameters, 3)

		assert.Equal(t, "id", op.Parameters[0].Name)
		assert.Equal(t, "User ID", op.Parameters[0].Description)
		assert.Equal(t, "uuid", op.Parameters[0].Format)
		assert.True(t, op.Parameters[0].Required)

		assert.Equal(t, "body", op.Parameters[1].In)
		assert.Equal(t, "#/definitions/testUser", op.Parameters[1].Schema.Ref)

		assert.Equal(t, "dryRun", op.Parameters[2].Name)
		assert.Equal(t, "query", op.Parameters[2].In)
		assert.Equal(t, "boolean", op.Parameters[2].Type)
		assert.False(t, op.Parameters[2].Required)
	})

	t.Run("extensions", func(t *testing.T) {
		assert.Equal(t, map[string]any{"x-audit": true}, op.Extensions)
		assert.Contains(t, buf.String(), "extension=invalid")
	})
}

func TestResolverListResponse(t *testing.T) {
	h := &documentedHandler{endpoints: []Endpoint{
		{Method: http.MethodGet, Path: "/users", Response: testUser{}, ResponseList: true},
	}}
	paths := resolve(t, nil, RouteEntry{Path: "/users", Methods: []string{http.MethodGet}, Handler: h})

	resp := operation(t, paths, "/users", http.MethodGet).Responses["200"]
	require.NotNil(t, resp)
	assert.Equal(t, &Schema{Type: "array", Items: &Schema{Ref: "#/definitions/testUser"}}, resp.Schema)
}

func TestMergeParameters(t *testing.T) {
	t.Run("both empty", func(t *testing.T) {
		assert.Nil(t, mergeParameters(nil, nil))
	})

	t.Run("replaces in place and appends", func(t *testing.T) {
		id := &Parameter{Name: "id", In: "path", Required: true}
		idQuery := &Parameter{Name: "id", In: "query"}
		override := &Parameter{Name: "id", In: "path", Required: true, Type: "integer"}

		merged := mergeParameters([]*Parameter{id}, []*Parameter{idQuery, override})
		assert.Equal(t, []*Parameter{override, idQuery}, merged)
	})

	t.Run("does not modify existing slice", func(t *testing.T) {
		existing := []*Parameter{{Name: "id", In: "path"}}
		mergeParameters(existing, []*Parameter{{Name: "id", In: "path", Type: "string"}})
		assert.Empty(t, existing[0].Type)
	})
}
