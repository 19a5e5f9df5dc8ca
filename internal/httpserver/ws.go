// internal/httpserver/ws.go
//
// Websocket transport for a live session.
//   - On connect the client receives {"type":"state"} with the snapshot and
//     sound setting, then every session event (activate, deactivate, tone,
//     presenting, ready, correct, game_over, idle, sound) as it happens.
//   - The client sends {"type": "...", "data": {...}} frames:
//       press   {cue}     pointer click / Enter / Space on a cue button
//       key     {key}     document-level key press
//       gesture {signal}  human-origin signal (pointermove, touchstart, keypress)
//       start | close | restart | sound
//   - Commands never produce direct replies; their effects arrive as events.

package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/colormemory/internal/game"
	"github.com/robalobadob/colormemory/internal/gate"
	"github.com/robalobadob/colormemory/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsMaxMessage = 1 << 12
)

// wsMsg is a server → client frame.
type wsMsg struct {
	Type  string         `json:"type"`
	State *game.Snapshot `json:"state,omitempty"`
	Sound *bool          `json:"sound,omitempty"`
}

// clientIn is a client → server frame.
type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type clientData struct {
	Cue    any    `json:"cue"`
	Key    string `json:"key"`
	Signal string `json:"signal"`
}

func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{CheckOrigin: s.checkOrigin}
}

// checkOrigin admits the configured client origin and same-host pages.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.cfg.ClientOrigin {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("ws upgrade")
		return
	}
	log.Info().Str("gameId", sess.ID).Str("from", r.RemoteAddr).Msg("ws connect")

	events, unsubscribe := sess.Subscribe()
	snap, err := sess.Snapshot()
	if err != nil {
		unsubscribe()
		_ = conn.Close()
		return
	}
	sound := sess.SoundOn()

	// Writer owns all writes to conn.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(wsMsg{Type: "state", State: &snap, Sound: &sound}); err != nil {
			return
		}
		for ev := range events {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				log.Debug().Err(err).Str("gameId", sess.ID).Msg("ws write")
				return
			}
		}
		// Session closed.
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
			time.Now().Add(wsWriteWait))
	}()

	s.wsReader(conn, sess)

	unsubscribe()
	<-writerDone
	_ = conn.Close()
	log.Info().Str("gameId", sess.ID).Msg("ws closed")
}

// wsReader dispatches client frames until the connection or session ends.
func (s *Server) wsReader(conn *websocket.Conn, sess *session.Session) {
	conn.SetReadLimit(wsMaxMessage)
	for {
		var in clientIn
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("gameId", sess.ID).Msg("ws read")
			}
			return
		}
		var d clientData
		if len(in.Data) > 0 {
			_ = json.Unmarshal(in.Data, &d)
		}
		var err error
		switch in.Type {
		case "press":
			_, err = dispatchInput(sess, d.Cue, "")
		case "key":
			if d.Key != "" {
				_, err = sess.Key(gate.Sanitize(d.Key))
			}
		case "gesture":
			if sig := gate.Signal(gate.Sanitize(d.Signal)); sig.Valid() {
				err = sess.Gesture(sig)
			}
		case "start":
			_, err = sess.Start()
		case "close":
			_, err = sess.CloseOverlay()
		case "restart":
			err = sess.Restart()
		case "sound":
			_, err = sess.ToggleSound()
		default:
			log.Debug().Str("type", gate.Sanitize(in.Type)).Msg("ws unknown frame")
		}
		if err != nil {
			return
		}
	}
}
