package swagger

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleDocument() *Document {
	routes := []RouteEntry{
		{
			Path:    "/api/v1/users",
			Methods: []string{http.MethodGet, http.MethodPost},
			Endpoints: []Endpoint{
				{Method: http.MethodPost, Summary: "Create user", Tags: []string{"users"}, Security: []SecurityRequirement{Requirement("auth")}},
				{Method: http.MethodGet, Summary: "List users", Produces: []string{"application/json"}},
			},
		},
		{Path: "/api/v1/users/:id", Methods: []string{http.MethodGet, http.MethodDelete}},
	}
	paths := NewResolver(nil, nil).Resolve(ExtractOperations(BuildPathTable(routes), routes), routes)
	return Assemble(paths, Info{Title: "Authorization Service", Version: "1.0.0"}, "/",
		map[string]*SecurityScheme{SecuritySchemeKey: APIKeyScheme("Authorization", "header")})
}

func TestMarshalJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		doc := sampleDocument()
		data, err := MarshalJSON(doc)
		require.NoError(t, err)

		decoded, err := UnmarshalJSON(data)
		require.NoError(t, err)
		assert.Equal(t, doc, decoded)
	})

	t.Run("indented with paths in registration order", func(t *testing.T) {
		data, err := MarshalJSON(sampleDocument())
		require.NoError(t, err)

		out := string(data)
		assert.True(t, strings.HasPrefix(out, "{\n  \"swagger\": \"2.0\""))
		assert.Less(t, strings.Index(out, `"/api/v1/users": `), strings.Index(out, `"/api/v1/users/{id}": `))
	})

	t.Run("lowercase method keys", func(t *testing.T) {
		data, err := MarshalJSON(sampleDocument())
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(data, &raw))
		users := raw["paths"].(map[string]any)["/api/v1/users"].(map[string]any)
		assert.Contains(t, users, "get")
		assert.Contains(t, users, "post")
	})

	t.Run("readable by kin-openapi", func(t *testing.T) {
		data, err := MarshalJSON(sampleDocument())
		require.NoError(t, err)

		var v2 openapi2.T
		require.NoError(t, json.Unmarshal(data, &v2))
		assert.Equal(t, "2.0", v2.Swagger)
		require.Contains(t, v2.Paths, "/api/v1/users/{id}")
		require.NotNil(t, v2.Paths["/api/v1/users"].Post)
		assert.Equal(t, "Create user", v2.Paths["/api/v1/users"].Post.Summary)
		assert.Equal(t, "apiKey", v2.SecurityDefinitions["auth"].Type)
	})

	t.Run("encoding error is reported", func(t *testing.T) {
		doc := sampleDocument()
		item, _ := doc.Paths.Get("/api/v1/users")
		item.Get.Extensions = map[string]any{"x-bad": func() {}}

		_, err := MarshalJSON(doc)
		assert.Error(t, err)
	})
}

func TestMarshalYAML(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		doc := sampleDocument()
		data, err := MarshalYAML(doc)
		require.NoError(t, err)

		decoded, err := UnmarshalYAML(data)
		require.NoError(t, err)

		want, err := MarshalJSON(doc)
		require.NoError(t, err)
		got, err := MarshalJSON(decoded)
		require.NoError(t, err)
		assert.JSONEq(t, string(want), string(got))
	})

	t.Run("paths in registration order", func(t *testing.T) {
		data, err := MarshalYAML(sampleDocument())
		require.NoError(t, err)

		out := string(data)
		assert.True(t, strings.HasPrefix(out, "swagger: \"2.0\"\n"))
		assert.Less(t, strings.Index(out, "/api/v1/users:"), strings.Index(out, "/api/v1/users/{id}"))
	})

	t.Run("generic YAML reader", func(t *testing.T) {
		data, err := MarshalYAML(sampleDocument())
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, yaml.Unmarshal(data, &raw))
		assert.Equal(t, "2.0", raw["swagger"])
		assert.Equal(t, "/", raw["basePath"])
	})

	t.Run("decode error", func(t *testing.T) {
		_, err := UnmarshalYAML([]byte("paths: [1, 2]"))
		assert.Error(t, err)
	})
}
