package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/routedoc/internal/config"
	"github.com/vitalvas/routedoc/swagger"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		out, err := execute(t)
		require.NoError(t, err)
		assert.Contains(t, out, "serve")
		assert.Contains(t, out, "spec")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := execute(t, "spec", "--unknown-flag")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUsage)
		assert.Contains(t, err.Error(), "unknown flag")
		assert.Contains(t, err.Error(), "Usage:")
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "spec")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestSpecCmd(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "spec")
		require.NoError(t, err)

		doc, err := swagger.UnmarshalJSON([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, swagger.Version, doc.Swagger)
		assert.Equal(t, []string{"/healthz", "/api/v1/users", "/api/v1/users/{id}"}, doc.Paths.Keys())
	})

	t.Run("yaml with config", func(t *testing.T) {
		path := writeConfig(t, "spec:\n  title: Accounts\n  version: 2.1.0\n")
		out, err := execute(t, "-c", path, "spec", "--format", "yaml")
		require.NoError(t, err)

		doc, err := swagger.UnmarshalYAML([]byte(out))
		require.NoError(t, err)
		assert.Equal(t, "Accounts", doc.Info.Title)
		assert.Equal(t, "2.1.0", doc.Info.Version)
	})

	t.Run("openapi3", func(t *testing.T) {
		out, err := execute(t, "spec", "-f", "openapi3")
		require.NoError(t, err)

		var v3 map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &v3))
		assert.True(t, strings.HasPrefix(v3["openapi"].(string), "3."))
		assert.Contains(t, v3["paths"], "/api/v1/users/{id}")
	})

	t.Run("to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "spec.json")
		out, err := execute(t, "spec", "--out", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"swagger": "2.0"`)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := execute(t, "spec", "--format", "xml")
		assert.ErrorIs(t, err, ErrUsage)
	})
}

func TestServeCmd(t *testing.T) {
	var got *config.Config
	prev := serveRunner
	serveRunner = func(_ context.Context, cfg *config.Config) error {
		got = cfg
		return nil
	}
	t.Cleanup(func() { serveRunner = prev })

	t.Run("defaults", func(t *testing.T) {
		_, err := execute(t, "serve")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, ":8080", got.Listen)
		assert.False(t, got.H2C)
		assert.Equal(t, "info", got.Log.Level)
	})

	t.Run("flag overrides config", func(t *testing.T) {
		path := writeConfig(t, "listen: :7000\nh2c: true\n")
		_, err := execute(t, "--config", path, "-v", "serve", "--listen", " :9000 ", "--static-dir", "/srv/www")
		require.NoError(t, err)
		assert.Equal(t, ":9000", got.Listen)
		assert.True(t, got.H2C)
		assert.Equal(t, "/srv/www", got.StaticDir)
		assert.Equal(t, "debug", got.Log.Level)
	})

	t.Run("unexpected argument", func(t *testing.T) {
		_, err := execute(t, "serve", "extra")
		assert.Error(t, err)
	})
}
