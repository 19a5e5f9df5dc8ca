// internal/httpserver/routes_game.go
//
// HTTP routes for classic play.
//   - POST /game/new            → create a session owned by the caller
//   - GET  /game/{id}           → snapshot
//   - POST /game/{id}/start     → start button (gated)
//   - POST /game/{id}/input     → {cue} click or {key} key press
//   - POST /game/{id}/gesture   → {signal} human-origin signal
//   - POST /game/{id}/close     → dismiss game-over overlay
//   - POST /game/{id}/restart   → play again
//   - POST /game/{id}/sound     → toggle tones
//   - GET  /best                → caller's best score
//
// Highlight and tone intents are only delivered over the websocket (ws.go);
// these JSON routes return the resulting state.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/internal/daily"
	"github.com/robalobadob/colormemory/internal/game"
	"github.com/robalobadob/colormemory/internal/gate"
	"github.com/robalobadob/colormemory/internal/score"
	"github.com/robalobadob/colormemory/internal/session"
)

func (s *Server) mountGame(r chi.Router) {
	r.Post("/game/new", s.handleNewGame)
	r.Get("/best", s.handleBest)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", s.withSession(s.handleState))
		r.Post("/start", s.withSession(s.handleStart))
		r.Post("/input", s.withSession(s.handleInput))
		r.Post("/gesture", s.withSession(s.handleGesture))
		r.Post("/close", s.withSession(s.handleClose))
		r.Post("/restart", s.withSession(s.handleRestart))
		r.Post("/sound", s.withSession(s.handleSound))
	})
}

// newSession builds and registers a session for owner.
func (s *Server) newSession(ctx context.Context, owner string, mode session.Mode, date string, newSource func() game.Source) (*session.Session, error) {
	sess := session.New(session.Options{
		Owner:       owner,
		Mode:        mode,
		Date:        date,
		NewSource:   newSource,
		Scores:      score.ForOwner(s.kv, owner),
		Timings:     s.timings,
		MinInterval: s.cfg.RateLimit,
		Now:         s.now,
		OnGameOver:  s.recordGame,
	})
	if err := s.store.Save(ctx, sess); err != nil {
		sess.Close()
		return nil, err
	}
	log.Info().Str("gameId", sess.ID).Str("owner", owner).Str("mode", string(mode)).Msg("new session")
	return sess, nil
}

// newGameRes is returned by POST /game/new.
type newGameRes struct {
	GameID string `json:"gameId"`
	Best   int    `json:"best"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	sess, err := s.newSession(r.Context(), owner, session.ModeClassic, "", nil)
	if err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	snap, _ := sess.Snapshot()
	writeJSON(w, newGameRes{GameID: sess.ID, Best: snap.Best})
}

func (s *Server) handleBest(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	writeJSON(w, map[string]int{"best": score.ForOwner(s.kv, owner).Load(r.Context())})
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves {id} to a session owned by the caller.
func (s *Server) withSession(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.lookup(w, r)
		if !ok {
			return
		}
		h(w, r, sess)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil || sess.Owner != s.ownerID(w, r) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	return sess, true
}

// stateRes is the common response for session routes.
type stateRes struct {
	Accepted bool          `json:"accepted"`
	State    game.Snapshot `json:"state"`
	Sound    bool          `json:"sound"`
}

func (s *Server) respond(w http.ResponseWriter, sess *session.Session, accepted bool, err error) {
	if err != nil {
		if errors.Is(err, session.ErrClosed) {
			writeError(w, http.StatusGone, "session_closed")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	snap, err := sess.Snapshot()
	if err != nil {
		writeError(w, http.StatusGone, "session_closed")
		return
	}
	writeJSON(w, stateRes{Accepted: accepted, State: snap, Sound: sess.SoundOn()})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respond(w, sess, true, nil)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ok, err := sess.Start()
	s.respond(w, sess, ok, err)
}

// inputReq carries either a clicked cue or a key name.
type inputReq struct {
	Cue any    `json:"cue"`
	Key string `json:"key"`
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req inputReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	ok, err := dispatchInput(sess, req.Cue, req.Key)
	s.respond(w, sess, ok, err)
}

// dispatchInput routes a key press or a clicked cue to the session.
// Unknown cues are rejected without touching the gate.
func dispatchInput(sess *session.Session, cue any, key string) (bool, error) {
	if key != "" {
		return sess.Key(gate.Sanitize(key))
	}
	c, ok := gate.ParseCue(cue)
	if !ok {
		return false, nil
	}
	return sess.Press(c)
}

type gestureReq struct {
	Signal string `json:"signal"`
}

func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req gestureReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	sig := gate.Signal(gate.Sanitize(req.Signal))
	if !sig.Valid() {
		writeError(w, http.StatusBadRequest, "unknown_signal")
		return
	}
	s.respond(w, sess, true, sess.Gesture(sig))
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	ok, err := sess.CloseOverlay()
	s.respond(w, sess, ok, err)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	s.respond(w, sess, true, sess.Restart())
}

func (s *Server) handleSound(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	_, err := sess.ToggleSound()
	s.respond(w, sess, true, err)
}

// ------------------------------ history -------------------------------------

// recordGame persists a finished game. It runs on the session loop and is
// best effort: failures are logged only.
func (s *Server) recordGame(res session.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	finished := s.now().UTC()
	started := finished.Add(-res.Elapsed)

	userArg, anonArg := any(res.Owner), any(nil)
	isUser := s.isUser(ctx, res.Owner)
	if !isUser {
		userArg, anonArg = nil, res.Owner
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("record game: begin")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO games (id, user_id, anonymous_id, mode, started_at, finished_at, status, score)
        VALUES (?,?,?,?,?,?,?,?)`,
		uuid.NewString(), userArg, anonArg, string(res.Mode),
		started.Format(time.RFC3339), finished.Format(time.RFC3339), "finished", res.Score,
	); err != nil {
		log.Warn().Err(err).Str("gameId", res.SessionID).Msg("insert game row")
	}
	if isUser {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET games_played = games_played + 1, best_score = MAX(best_score, ?) WHERE id=?`,
			res.Best, res.Owner); err != nil {
			log.Warn().Err(err).Str("user", res.Owner).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("record game: commit")
	}

	if res.Mode == session.ModeDaily {
		if err := s.daily.InsertResult(ctx, dailyResult(res)); err != nil {
			log.Warn().Err(err).Str("owner", res.Owner).Msg("insert daily result")
		}
	}
	log.Info().Str("gameId", res.SessionID).Int("score", res.Score).Bool("newRecord", res.NewRecord).Msg("game over")
}

func (s *Server) isUser(ctx context.Context, id string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=?`, id).Scan(&one)
	return err == nil
}

// handleMyGames lists the caller's most recent finished games.
func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	rows, err := s.db.QueryContext(r.Context(), `SELECT id, mode, status, score, started_at, COALESCE(finished_at,'')
	                         FROM games WHERE user_id=? ORDER BY finished_at DESC LIMIT 50`, me.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	defer rows.Close()

	type gameRow struct {
		ID         string `json:"id"`
		Mode       string `json:"mode"`
		Status     string `json:"status"`
		Score      int    `json:"score"`
		StartedAt  string `json:"startedAt"`
		FinishedAt string `json:"finishedAt,omitempty"`
	}
	out := []gameRow{}
	for rows.Next() {
		var gr gameRow
		if err := rows.Scan(&gr.ID, &gr.Mode, &gr.Status, &gr.Score, &gr.StartedAt, &gr.FinishedAt); err == nil {
			out = append(out, gr)
		}
	}
	writeJSON(w, out)
}

// dailyResult converts a finished daily game into a leaderboard row.
func dailyResult(res session.Result) daily.Result {
	return daily.Result{
		OwnerID:   res.Owner,
		Date:      res.Date,
		Score:     res.Score,
		ElapsedMs: int(res.Elapsed.Milliseconds()),
	}
}
