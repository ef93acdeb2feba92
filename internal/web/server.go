// Package web is the HTTP shell around the content-generation pipeline.
// Routes mirror the operations consumers need: send, preview, the code
// catalog, and a data inspection endpoint for debugging sources.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/example/automail-service/internal/catalog"
	"github.com/example/automail-service/internal/data"
	"github.com/example/automail-service/internal/dispatch"
)

// Server wires the dispatcher and catalogs into an HTTP API.
type Server struct {
	logger     zerolog.Logger
	router     *chi.Mux
	dispatcher *dispatch.Dispatcher
	catalog    *catalog.Catalog
	sources    *data.Registry

	// sends bounds the number of dispatches in flight; requests beyond the
	// limit wait until a slot frees up or their context expires.
	sends *semaphore.Weighted
}

// NewServer constructs the HTTP server. maxInFlight bounds concurrent
// dispatches.
func NewServer(d *dispatch.Dispatcher, cat *catalog.Catalog, sources *data.Registry, maxInFlight int64, logger zerolog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("web: dispatcher is required")
	}
	if cat == nil {
		return nil, errors.New("web: catalog is required")
	}
	if sources == nil {
		return nil, errors.New("web: data registry is required")
	}
	if maxInFlight <= 0 {
		maxInFlight = 8
	}

	s := &Server{
		logger:     logger,
		router:     chi.NewRouter(),
		dispatcher: d,
		catalog:    cat,
		sources:    sources,
		sends:      semaphore.NewWeighted(maxInFlight),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/mail", func(r chi.Router) {
		r.Post("/send", s.handleSend)
		r.Post("/preview", s.handlePreview)
		r.Get("/codes", s.handleCodes)
		r.Post("/data", s.handleData)
	})
}

// Router returns the underlying chi router, used by tests and for mounting.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.logger.Info().Msg("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return <-errCh
}
