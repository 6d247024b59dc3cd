// Package muxhandlers provides HTTP middleware for the mux router.
//
// # Request ID and Logging
//
// RequestIDMiddleware assigns each request a time-ordered UUID, echoed in
// the X-Request-ID header. LoggingMiddleware writes one slog record per
// request, including the matched route template and the request ID.
//
//	r.Use(
//	    muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
//	    muxhandlers.LoggingMiddleware(logger),
//	    muxhandlers.RecoveryMiddleware(logger),
//	)
//
// # CORS
//
// CORSMiddleware needs the root router: preflight requests for routes
// without an OPTIONS method are answered from its MethodNotAllowedHandler.
//
//	mw, err := muxhandlers.CORSMiddleware(r, muxhandlers.CORSConfig{
//	    AllowedOrigins: []string{"https://*.example.com"},
//	})
//	if err != nil {
//	    return err
//	}
//	api.Use(mw)
//
// # API Keys
//
// APIKeyMiddleware checks a key sent in a request header. It pairs with an
// apiKey security definition in the published API description.
//
//	mw, err := muxhandlers.APIKeyMiddleware(muxhandlers.APIKeyConfig{
//	    Header: "Authorization",
//	    Keys:   map[string]string{"console": os.Getenv("CONSOLE_KEY")},
//	})
//
// # Limits
//
// RateLimitMiddleware applies a token bucket per client.
// RequestSizeLimitMiddleware and ContentTypeCheckMiddleware guard request
// bodies.
//
// # Static Files
//
// StaticFilesHandler serves an fs.FS, typically an embed.FS, without
// directory listings.
package muxhandlers
