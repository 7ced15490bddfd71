package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// maxHighlightBody caps the request body of POST /api/highlight.
const maxHighlightBody = 4 << 20

// ServerConfig configures the preview server.
type ServerConfig struct {
	Port        int
	CORSOrigins []string
	Open        bool
	Watch       bool
	WatchFiles  []string // files outside the content dir that trigger a rebuild
	Debounce    time.Duration
}

// Server serves the built site, a glossary API and live reload.
type Server struct {
	gen        *Generator
	cfg        ServerConfig
	logger     *zap.Logger
	hub        *reloadHub
	router     chi.Router
	buildMu    sync.Mutex
	httpServer *http.Server
}

// NewServer creates a preview server for gen's output directory.
func NewServer(gen *Generator, cfg ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 300 * time.Millisecond
	}
	s := &Server{
		gen:    gen,
		cfg:    cfg,
		logger: logger,
		hub:    newReloadHub(logger),
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the HTTP handler serving the site and the API.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Glossary-Markers"},
		MaxAge:         300,
	}
	if len(s.cfg.CORSOrigins) > 0 {
		corsOpts.AllowedOrigins = s.cfg.CORSOrigins
	}
	r.Use(cors.Handler(corsOpts))

	// Long-lived; kept out of the timeout group.
	r.Get("/livereload", s.hub.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, map[string]any{"status": "ok", "terms": s.gen.Index().Len()})
		})
		r.Route("/api", func(r chi.Router) {
			r.Get("/glossary", s.handleGlossary)
			r.Get("/glossary/{term}", s.handleLookup)
			r.Post("/highlight", s.handleHighlight)
		})
		r.Handle("/*", http.FileServer(http.Dir(s.gen.Options().OutputDir)))
	})
	return r
}

// requestLogger logs each request through zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

func (s *Server) handleGlossary(w http.ResponseWriter, r *http.Request) {
	entries := s.gen.Index().Alphabetical()
	if prefix := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("prefix"))); prefix != "" {
		filtered := entries[:0:0]
		for _, e := range entries {
			if strings.HasPrefix(e.Key(), prefix) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	respondJSON(w, entries)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	term := chi.URLParam(r, "term")
	e, ok := s.gen.Index().Lookup(term)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("term %q not found", term))
		return
	}
	respondJSON(w, e)
}

// handleHighlight highlights the posted HTML. ?fragment=true treats the
// body as a fragment; otherwise it is a full document and ?selector=
// overrides the configured region.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxHighlightBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	q := r.URL.Query()
	fragment, _ := strconv.ParseBool(q.Get("fragment"))
	idx := s.gen.Index()
	h := s.gen.Highlighter()

	var out strings.Builder
	var markers int
	if fragment {
		res, stats, err := h.HighlightFragment(string(body), idx)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		out.WriteString(res)
		markers = stats.Markers
	} else {
		selector := q.Get("selector")
		if selector == "" {
			selector = s.gen.Options().Selector
		}
		stats, err := h.HighlightHTML(strings.NewReader(string(body)), &out, selector, idx)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		markers = stats.Markers
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Glossary-Markers", strconv.Itoa(markers))
	io.WriteString(w, out.String())
}

func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// Rebuild runs one build and tells connected pages to reload. Concurrent
// calls are serialised.
func (s *Server) Rebuild(ctx context.Context) (*BuildResult, error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	res, err := s.gen.Build(ctx)
	if err != nil {
		return nil, err
	}
	s.hub.broadcast(reloadMessage)
	return res, nil
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully. With Watch set, content changes trigger a rebuild.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	url := fmt.Sprintf("http://localhost:%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if s.cfg.Watch {
		w, err := NewWatcher(s.gen, s.cfg.WatchFiles, s.cfg.Debounce, s.logger, func(ctx context.Context) {
			if _, err := s.Rebuild(ctx); err != nil {
				s.logger.Error("rebuild failed", zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer w.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving site", zap.String("url", url), zap.String("dir", s.gen.Options().OutputDir))
		errCh <- s.httpServer.ListenAndServe()
	}()
	if s.cfg.Open {
		go openBrowser(url)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// openBrowser opens the given URL in the default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
