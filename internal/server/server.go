// Package server serves blind-message cards over HTTP.
//
// Routes:
//
//	GET  /api/blind/og?d=<token>[&w=<px>][&variant=]  PNG social preview
//	GET  /api/blind/og/{token}                        same, token in the path
//	GET  /api/blind/og.svg?d=<token>                  SVG intermediate
//	POST /api/blind                                   compose: record → token and URLs
//	GET  /api/blind/letter?d=<token>                  decoded letter for the reveal page
//	GET  /health/live, /health/ready
//
// Image endpoints never fail on a bad token. They draw the placeholder card
// instead. Only render failures (500) and timeouts (504) produce errors.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/blindcard/internal/config"
	"github.com/matzehuels/blindcard/pkg/pipeline"
)

// SharePath is the page path share links point to.
const SharePath = "/blind"

// MaxBodyBytes bounds the compose request body.
const MaxBodyBytes = 64 << 10

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	cfg    config.HTTPConfig
	render config.RenderConfig
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a Server rendering with runner.
func New(cfg *config.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg.HTTP,
		render: cfg.Render,
		runner: runner,
		logger: logger,
	}
}

// Handler returns the router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", s.live)
	r.Get("/health/ready", s.ready)

	r.Route("/api/blind", func(r chi.Router) {
		r.Post("/", s.compose)
		r.Get("/letter", s.letter)

		r.Group(func(r chi.Router) {
			r.Use(deadline(s.cfg.RequestTimeout))
			r.Get("/og", s.ogPNG)
			r.Get("/og.svg", s.ogSVG)
			r.Get("/og/{token}", s.ogPNGPath)
		})
	})

	return r
}

// Run listens on the configured address until ctx ends, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// Image responses must finish within the request timeout plus
		// time to write them.
		WriteTimeout: s.cfg.RequestTimeout + 5*time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting HTTP server", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		s.logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "error", err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
