package muxhandlers

import (
	"errors"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/vitalvas/routedoc/mux"
)

// ErrNoAllowedTypes is returned when no content type is allowed.
var ErrNoAllowedTypes = errors.New("content type check: at least one allowed content type is required")

// ContentTypeCheckMiddleware returns a middleware that answers 415
// Unsupported Media Type when a POST, PUT or PATCH request carries a
// Content-Type outside allowed. Media type parameters are ignored and
// comparison is case-insensitive.
func ContentTypeCheckMiddleware(allowed ...string) (mux.MiddlewareFunc, error) {
	if len(allowed) == 0 {
		return nil, ErrNoAllowedTypes
	}

	types := make([]string, len(allowed))
	for i, t := range allowed {
		types[i] = strings.ToLower(strings.TrimSpace(t))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || !slices.Contains(types, strings.ToLower(mediaType)) {
					http.Error(w, http.StatusText(http.StatusUnsupportedMediaType), http.StatusUnsupportedMediaType)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
