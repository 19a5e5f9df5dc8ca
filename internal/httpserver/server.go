// internal/httpserver/server.go
//
// HTTP server wiring for the Color Memory backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/" (embedded web client), "/health".
//   - Game endpoints (optional auth): create a session, drive it over JSON
//     or a websocket, read the caller's best score.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + history endpoints: /auth/*, /games/mine.
//   - Game-over persistence: history rows, per-owner best score, user stats.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - Every request gets an owner: the authenticated user, or an anonymous
//     cookie id. Sessions are only reachable by their owner.
//   - The websocket route is mounted outside the request timeout.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/assets"
	"github.com/robalobadob/colormemory/internal/config"
	"github.com/robalobadob/colormemory/internal/daily"
	"github.com/robalobadob/colormemory/internal/game"
	"github.com/robalobadob/colormemory/internal/score"
	"github.com/robalobadob/colormemory/internal/store"
)

// Server bundles router, live session registry and DB handle.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	store store.Store
	db    *sql.DB
	kv    score.KV
	daily *daily.Store

	// now is the clock for sessions and daily keys; tests may replace it.
	now func() time.Time
	// timings overrides game pacing for new sessions; nil means defaults.
	timings *game.Timings
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, db *sql.DB) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   cfg,
		store: st,
		db:    db,
		kv:    score.NewSQLKV(db),
		daily: daily.NewStore(db),
		now:   time.Now,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS
	s.r.Use(s.withOptionalAuth())

	// Websocket: long-lived, no timeout, no JSON content type.
	s.r.Get("/game/{id}/ws", s.handleWS)

	// Web client
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(assets.IndexHTML())
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})

		s.mountGame(r)
		s.mountDaily(r)
		s.mountAuthRoutes(r)

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found")
		})
	})

	return s
}

// Start begins serving HTTP on addr and expires idle sessions until ctx ends.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 10 * time.Second}
	go s.janitor(ctx)
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// janitor periodically drops sessions older than the configured TTL.
func (s *Server) janitor(ctx context.Context) {
	if s.cfg.SessionTTL <= 0 {
		return
	}
	t := time.NewTicker(s.cfg.SessionTTL / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.store.Expire(ctx, s.now().Add(-s.cfg.SessionTTL)); n > 0 {
				log.Info().Int("expired", n).Int("live", s.store.Len()).Msg("expired sessions")
			}
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
