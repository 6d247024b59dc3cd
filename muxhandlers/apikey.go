package muxhandlers

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/vitalvas/routedoc/mux"
)

// ErrNoAPIKeys is returned when APIKeyConfig has neither ValidateFunc nor
// Keys configured.
var ErrNoAPIKeys = errors.New("api key: at least one of ValidateFunc or Keys must be set")

type apiKeyClientKey struct{}

// APIKeyClientFromContext returns the client name stored by
// APIKeyMiddleware, or an empty string.
func APIKeyClientFromContext(ctx context.Context) string {
	if client, ok := ctx.Value(apiKeyClientKey{}).(string); ok {
		return client
	}
	return ""
}

// APIKeyConfig configures the API key middleware. The key is read from a
// request header, matching an "apiKey" security definition in the API
// description.
type APIKeyConfig struct {
	// Header carrying the key. Defaults to "Authorization".
	Header string

	// Prefix is stripped from the header value when present, for example
	// "Bearer ".
	Prefix string

	// ValidateFunc resolves a key to a client name. Takes priority over
	// Keys.
	ValidateFunc func(key string) (client string, ok bool)

	// Keys maps client names to their keys. Keys are compared in constant
	// time.
	Keys map[string]string
}

// APIKeyMiddleware returns a middleware that rejects requests without a
// valid API key with 401 Unauthorized. The client name of an accepted key
// is available through APIKeyClientFromContext.
func APIKeyMiddleware(cfg APIKeyConfig) (mux.MiddlewareFunc, error) {
	if cfg.ValidateFunc == nil && len(cfg.Keys) == 0 {
		return nil, ErrNoAPIKeys
	}

	header := cfg.Header
	if header == "" {
		header = "Authorization"
	}

	validate := cfg.ValidateFunc
	if validate == nil {
		validate = staticKeys(cfg.Keys)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimPrefix(r.Header.Get(header), cfg.Prefix)
			if key == "" {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			client, ok := validate(key)
			if !ok {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), apiKeyClientKey{}, client)))
		})
	}, nil
}

// staticKeys checks every configured key so the lookup time does not
// depend on which client matched.
func staticKeys(keys map[string]string) func(string) (string, bool) {
	hashed := make(map[string][32]byte, len(keys))
	for client, key := range keys {
		hashed[client] = sha256.Sum256([]byte(key))
	}

	return func(key string) (string, bool) {
		sum := sha256.Sum256([]byte(key))
		var found string
		for client, expected := range hashed {
			if subtle.ConstantTimeCompare(sum[:], expected[:]) == 1 {
				found = client
			}
		}
		return found, found != ""
	}
}
