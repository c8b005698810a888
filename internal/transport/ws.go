// Package transport bridges a browser front end to a game session over a
// websocket. Every connection gets its own CrazyEightsGame.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/crazyeights/engine"
	"github.com/jason-s-yu/crazyeights/internal/config"
	"github.com/jason-s-yu/crazyeights/internal/game"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	pingInterval = 20 * time.Second
)

// Server serves GET /ws.
type Server struct {
	cfg config.Config
	log *logrus.Logger

	// NewRand seeds each session. Defaults to the configured seed, or the
	// clock when none is set.
	NewRand func() engine.Rand
	// OnSession, if set, is called with every new session before it reads
	// its first action.
	OnSession func(g *game.CrazyEightsGame)
}

// NewServer returns a server using cfg for every session.
func NewServer(cfg config.Config, log *logrus.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		NewRand: func() engine.Rand {
			return engine.NewRand(cfg.SeedOrClock())
		},
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warnf("websocket accept failed: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	g := game.NewCrazyEightsGame(s.NewRand(), s.log)
	g.OpponentDelay = s.cfg.OpponentDelay
	log := s.log.WithFields(logrus.Fields{"game": g.ID, "remote": r.RemoteAddr})

	send := make(chan game.GameEvent, sendBuffer)
	g.BroadcastFn = func(ev game.GameEvent) {
		select {
		case send <- ev:
		default:
			log.Warnf("Send buffer full, dropping %s event.", ev.Type)
		}
	}
	defer g.Close()

	if s.OnSession != nil {
		s.OnSession(g)
	}
	log.Info("Session opened.")

	go writePump(ctx, conn, send, log)
	g.SendSyncState()

	err = readPump(ctx, conn, g, send, log)
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		log.Info("Session closed by client.")
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		if errors.Is(err, context.Canceled) {
			log.Info("Session cancelled.")
		} else {
			log.Warnf("Session ended: %v", err)
		}
	}
}

// readPump decodes actions until the connection fails. Malformed JSON is
// answered with a rejection and does not end the session.
func readPump(ctx context.Context, conn *websocket.Conn, g *game.CrazyEightsGame, send chan<- game.GameEvent, log *logrus.Entry) error {
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		var action game.Action
		if err := json.Unmarshal(data, &action); err != nil {
			select {
			case send <- game.GameEvent{Type: game.EventGameRejected, Error: "bad json"}:
			default:
			}
			continue
		}
		if err := g.HandleAction(action); err != nil {
			log.WithField("action", action.ActionType).Debugf("Action refused: %v", err)
		}
	}
}

// writePump serialises events to the client and keeps the connection alive.
func writePump(ctx context.Context, conn *websocket.Conn, send <-chan game.GameEvent, log *logrus.Entry) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-send:
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, ev)
			cancel()
			if err != nil {
				log.Debugf("write failed: %v", err)
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Ping(pctx)
			cancel()
			if err != nil {
				log.Debugf("ping failed: %v", err)
				return
			}
		}
	}
}
