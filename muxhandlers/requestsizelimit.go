package muxhandlers

import (
	"errors"
	"net/http"

	"github.com/vitalvas/routedoc/mux"
)

// ErrInvalidMaxSize is returned when the body limit is not positive.
var ErrInvalidMaxSize = errors.New("request size limit: max size must be greater than zero")

// RequestSizeLimitMiddleware returns a middleware limiting request bodies
// to maxBytes. Requests announcing a larger Content-Length are rejected
// with 413 before the handler runs; other bodies are wrapped with
// http.MaxBytesReader so reads past the limit fail.
func RequestSizeLimitMiddleware(maxBytes int64) (mux.MiddlewareFunc, error) {
	if maxBytes <= 0 {
		return nil, ErrInvalidMaxSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}, nil
}
