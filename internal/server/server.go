package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/vitalvas/routedoc/internal/config"
	"github.com/vitalvas/routedoc/internal/users"
	"github.com/vitalvas/routedoc/mux"
	"github.com/vitalvas/routedoc/muxhandlers"
	"github.com/vitalvas/routedoc/swagger"
)

// APIPrefix is where the user API is mounted.
const APIPrefix = "/api/v1"

//go:embed web
var webFS embed.FS

// Health is the body of the health endpoint.
type Health struct {
	Status string `json:"status" swagger:"example=ok"`
}

// Server is the user service HTTP front end.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	router *mux.Router
	doc    *swagger.Document
}

// New builds the router: global middleware, the user API under APIPrefix,
// the published API description and the static catch-all.
func New(cfg *config.Config, store *users.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	r := mux.NewRouter()
	r.Use(
		muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{}),
		muxhandlers.LoggingMiddleware(logger),
		muxhandlers.RecoveryMiddleware(logger),
	)

	health := r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		mux.ResponseJSON(w, http.StatusOK, Health{Status: "ok"})
	}).Methods(http.MethodGet).Name("health")

	api := r.PathPrefix(APIPrefix).Subrouter()
	if err := apiMiddleware(r, api, cfg); err != nil {
		return nil, err
	}
	users.NewHandler(store, logger).Register(api)

	spec := swagger.NewSpec(swagger.Info{
		Title:       cfg.Spec.Title,
		Version:     cfg.Spec.Version,
		Description: "User management API",
	}).
		SetBasePath(cfg.Spec.BasePath).
		SetLogger(logger).
		AddTag(swagger.Tag{Name: "users", Description: "User management"}).
		AddTag(swagger.Tag{Name: "ops", Description: "Service operations"})
	spec.Route(health).Summary("Health check").Tags("ops").Produces("application/json").Returns(Health{})

	doc := spec.Publish(r, cfg.Spec.Path, swagger.APIKeyScheme(cfg.Auth.Header, "header"))

	static, err := staticHandler(cfg.StaticDir)
	if err != nil {
		return nil, err
	}
	r.PathPrefix("/").Handler(static).Methods(http.MethodGet, http.MethodHead)

	logger.Debug("api description published",
		"json", cfg.Spec.Path+".json",
		"yaml", cfg.Spec.Path+".yaml",
		"paths", doc.Paths.Len(),
	)

	return &Server{cfg: cfg, logger: logger, router: r, doc: doc}, nil
}

func apiMiddleware(root, api *mux.Router, cfg *config.Config) error {
	cors, err := muxhandlers.CORSMiddleware(root, muxhandlers.CORSConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedHeaders: []string{"Content-Type", "X-Requested-With", cfg.Auth.Header},
		ExposeHeaders:  []string{"X-Request-ID"},
		MaxAge:         600,
	})
	if err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	api.Use(cors)

	if cfg.RateLimit.Rate > 0 {
		limit, err := muxhandlers.RateLimitMiddleware(muxhandlers.RateLimitConfig{
			Rate:  cfg.RateLimit.Rate,
			Burst: cfg.RateLimit.Burst,
		})
		if err != nil {
			return err
		}
		api.Use(limit)
	}

	if len(cfg.Auth.Keys) > 0 {
		auth, err := muxhandlers.APIKeyMiddleware(muxhandlers.APIKeyConfig{
			Header: cfg.Auth.Header,
			Keys:   cfg.Auth.Keys,
		})
		if err != nil {
			return err
		}
		api.Use(auth)
	}

	size, err := muxhandlers.RequestSizeLimitMiddleware(cfg.MaxBodyBytes)
	if err != nil {
		return err
	}
	contentType, err := muxhandlers.ContentTypeCheckMiddleware("application/json")
	if err != nil {
		return err
	}
	api.Use(size, contentType)
	return nil
}

func staticHandler(dir string) (http.Handler, error) {
	var fsys fs.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	} else {
		sub, err := fs.Sub(webFS, "web")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}
	return muxhandlers.StaticFilesHandler(fsys, false)
}

// Handler returns the root handler. With h2c enabled it also accepts
// cleartext HTTP/2.
func (s *Server) Handler() http.Handler {
	if s.cfg.H2C {
		return h2c.NewHandler(s.router, &http2.Server{})
	}
	return s.router
}

// Document returns the published API description.
func (s *Server) Document() *swagger.Document {
	return s.doc
}

// Serve accepts connections on l until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()

	s.logger.Info("server started", "addr", l.Addr().String(), "h2c", s.cfg.H2C)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()

		s.logger.Info("server stopping")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	l, err := lc.Listen(ctx, "tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, l)
}
