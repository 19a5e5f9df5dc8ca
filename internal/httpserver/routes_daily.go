// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's daily game (creates or reuses session)
//   - GET  /daily/leaderboard → fetch top 20 results for today (or a given date)
//
// Everyone gets the same cue sequence on a given UTC date. Only the first
// finished game per owner and date is recorded (enforced by the DB).
// Once started, a daily session is driven through the regular /game/{id}
// routes and websocket.

package httpserver

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/internal/daily"
	"github.com/robalobadob/colormemory/internal/game"
	"github.com/robalobadob/colormemory/internal/session"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv  *Server
	salt string

	mu       sync.Mutex        // guards sessions
	sessions map[string]string // owner|date → live session id
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	dd := &dailyServer{
		srv:      s,
		salt:     s.cfg.DailySalt,
		sessions: make(map[string]string),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
}

// -----------------------------------------------------------------------------
// /daily/new

// dailyNewRes is returned by /daily/new.
type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
}

// handleNew creates or reuses a daily session for the current date.
// - If the owner already has a DB row for today → Played=true.
// - Otherwise reuse a live session or create one seeded for today.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.srv.ownerID(w, r)
	now := d.srv.now()
	date := daily.DateKey(now)

	if played, err := d.srv.daily.AlreadyPlayed(r.Context(), uid, date); err == nil && played {
		writeJSON(w, dailyNewRes{Date: date, Played: true})
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.sessions[key]; ok {
		if _, err := d.srv.store.Get(r.Context(), id); err == nil {
			writeJSON(w, dailyNewRes{GameID: id, Date: date})
			return
		}
		delete(d.sessions, key)
	}

	// Every game of the day, restarts included, replays the day's sequence.
	todays := func() game.Source { return daily.Source(now, d.salt) }
	sess, err := d.srv.newSession(r.Context(), uid, session.ModeDaily, date, todays)
	if err != nil {
		log.Error().Err(err).Msg("save daily session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.sessions[key] = sess.ID
	writeJSON(w, dailyNewRes{GameID: sess.ID, Date: date})
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// handleLeaderboard returns top results for ?date=YYYY-MM-DD (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = daily.DateKey(d.srv.now())
	}
	rows, err := d.srv.daily.Leaderboard(r.Context(), date, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	writeJSON(w, map[string]any{"date": date, "rows": rows})
}
