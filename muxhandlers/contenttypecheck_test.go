package muxhandlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeCheckMiddleware(t *testing.T) {
	t.Run("no allowed types", func(t *testing.T) {
		mw, err := ContentTypeCheckMiddleware()
		assert.Nil(t, mw)
		assert.ErrorIs(t, err, ErrNoAllowedTypes)
	})

	r, api := newTestRouter()
	mw, err := ContentTypeCheckMiddleware("application/json", "application/x-yaml")
	require.NoError(t, err)
	api.Use(mw)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		wantCode    int
	}{
		{name: "json", method: http.MethodPost, path: "/api/v1/users", contentType: "application/json", wantCode: http.StatusOK},
		{name: "json with charset", method: http.MethodPost, path: "/api/v1/users", contentType: "application/json; charset=utf-8", wantCode: http.StatusOK},
		{name: "case insensitive", method: http.MethodPost, path: "/api/v1/users", contentType: "Application/JSON", wantCode: http.StatusOK},
		{name: "second type", method: http.MethodPost, path: "/api/v1/users", contentType: "application/x-yaml", wantCode: http.StatusOK},
		{name: "form rejected", method: http.MethodPost, path: "/api/v1/users", contentType: "application/x-www-form-urlencoded", wantCode: http.StatusUnsupportedMediaType},
		{name: "missing rejected", method: http.MethodPost, path: "/api/v1/users", wantCode: http.StatusUnsupportedMediaType},
		{name: "GET unchecked", method: http.MethodGet, path: "/api/v1/users", wantCode: http.StatusOK},
		{name: "DELETE unchecked", method: http.MethodDelete, path: "/api/v1/users/42", wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.wantCode, serve(r, req).Code)
		})
	}
}
