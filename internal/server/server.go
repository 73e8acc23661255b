package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/samvad-hq/image-gallery/internal/domain"
	"github.com/samvad-hq/image-gallery/internal/loader"
	"github.com/samvad-hq/image-gallery/internal/logger"
	"github.com/samvad-hq/image-gallery/internal/render"
)

const shutdownTimeout = 5 * time.Second

// StateSource exposes the current load state to the HTTP view.
type StateSource interface {
	State() loader.State
}

// stateResponse is the JSON shape of GET /state.
type stateResponse struct {
	Status string         `json:"status"`
	Images []domain.Image `json:"images,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Server serves the gallery view over HTTP.
type Server struct {
	title  string
	source StateSource
	log    logger.Logger
	router chi.Router
}

// New builds the router for src.
func New(title string, src StateSource, log logger.Logger) *Server {
	s := &Server{
		title:  title,
		source: src,
		log:    logger.Ensure(log),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleView)
	r.Get("/state", s.handleState)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.InfoObj("http view listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.log.InfoObj("http view stopped", "reason", ctx.Err())
	return nil
}

func (s *Server) handleView(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Page(w, s.title, s.source.State()); err != nil {
		s.log.ErrorObj("render view failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
	}
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	st := s.source.State()
	resp := stateResponse{
		Status: string(st.Status),
		Images: st.Images,
		Error:  st.Message(),
	}
	if resp.Status == "" {
		resp.Status = string(loader.StatusLoading)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.ErrorObj("encode state failed", "error", err)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.DebugObj("request processed", "http_request", map[string]any{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
	})
}
