// Package server exposes the clip-cutting operations over HTTP.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"clipcut/internal/catalog"
	"clipcut/internal/config"
	"clipcut/internal/session"
	"clipcut/internal/store"
)

// sessions is the clip lifecycle surface the handlers drive.
type sessions interface {
	Cut(ctx context.Context, req session.CutRequest) (session.Result, error)
	Submit(ctx context.Context) (store.Record, error)
	Discard()
	Load(ctx context.Context, index int) (session.Result, error)
}

// records is the read side of the record table.
type records interface {
	Records() []store.Record
}

// Server wires the HTTP surface to the session manager and record table.
type Server struct {
	sess       sessions
	st         records
	cat        *catalog.Catalog
	cfg        config.Server
	tempDir    string
	exportsDir string
	log        *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger replaces the default logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// New builds a Server. tempDir and exportsDir are served statically under
// /previews/ and /exports/.
func New(sess sessions, st records, cat *catalog.Catalog, cfg config.Server, tempDir, exportsDir string, opts ...Option) *Server {
	s := &Server{
		sess:       sess,
		st:         st,
		cat:        cat,
		cfg:        cfg,
		tempDir:    tempDir,
		exportsDir: exportsDir,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the fully routed handler, CORS included.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/sources", s.handleSources).Methods(http.MethodGet)
	api.HandleFunc("/records", s.handleRecords).Methods(http.MethodGet)
	api.HandleFunc("/clips/cut", s.handleCut).Methods(http.MethodPost)
	api.HandleFunc("/clips/submit", s.handleSubmit).Methods(http.MethodPost)
	api.HandleFunc("/clips/discard", s.handleDiscard).Methods(http.MethodPost)
	api.HandleFunc("/clips/{index:[0-9]+}/load", s.handleLoad).Methods(http.MethodPost)

	r.PathPrefix("/previews/").Handler(
		http.StripPrefix("/previews/", http.FileServer(http.Dir(s.tempDir))))
	r.PathPrefix("/exports/").Handler(
		http.StripPrefix("/exports/", http.FileServer(http.Dir(s.exportsDir))))

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return cors(s.logRequests(r))
}

// logRequests emits one structured log line per completed request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next,
		func(_ io.Writer, p handlers.LogFormatterParams) {
			s.log.Info("http request",
				"method", p.Request.Method,
				"path", p.URL.Path,
				"status", p.StatusCode,
				"size", p.Size)
		})
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Bind,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "bind", s.cfg.Bind)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down, draining requests")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
