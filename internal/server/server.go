// Package server exposes the aggregated snapshot over HTTP: a JSON read
// API plus RSS/Atom re-exports of the current news list.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"hknews/internal/cache"
	"hknews/internal/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// News is the aggregator surface the server reads from. Snapshot must never
// block; RefreshNow runs a full out-of-band aggregation cycle.
type News interface {
	Snapshot() *types.Snapshot
	Refresh(ctx context.Context) (int, error)
}

type Config struct {
	Port string
}

type Server struct {
	config    Config
	news      News
	feedCache *cache.Cache[feedCacheKey, string]
	server    *http.Server
}

func New(config Config, news News) *Server {
	if config.Port == "" {
		config.Port = "3000"
	}

	return &Server{
		config:    config,
		news:      news,
		feedCache: newFeedCache(),
	}
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/api/test", s.handleTest)

	r.Route("/api", func(r chi.Router) {
		r.Get("/news", s.handleNews)
		r.Get("/news/high-impact", s.handleHighImpact)
		r.Get("/news/daily-briefing", s.handleDailyBriefing)
		r.Get("/news/{id}", s.handleNewsByID)
		r.Post("/news/update", s.handleUpdate)
		r.Get("/categories", s.handleCategories)
		r.Get("/sources", s.handleSources)
		r.Get("/status", s.handleStatus)
	})

	r.Get("/feed.rss", s.handleRSSFeed)
	r.Get("/feed.atom", s.handleAtomFeed)

	return r
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: s.router(),
	}

	go func() {
		slog.Info("http server starting", "port", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", "error", err)
		}
	}()

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown error", "error", err)
			return err
		}
	}
	return nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.router()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
