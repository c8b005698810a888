// Package game runs one Crazy Eights session: it owns the engine state,
// serialises access to it, schedules the computer opponent and reports every
// change to the presentation as a GameEvent.
package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/crazyeights/engine"
	"github.com/jason-s-yu/crazyeights/engine/agent"
	"github.com/jason-s-yu/crazyeights/internal/messages"
)

// DefaultOpponentDelay is how long the opponent "thinks" before acting.
const DefaultOpponentDelay = 1500 * time.Millisecond

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("game closed")

// OnGameEndFunc is called once per finished game with the winner and the
// final view.
type OnGameEndFunc func(gameID uuid.UUID, winner engine.Actor, final engine.View)

// GameEventType names a GameEvent on the wire.
type GameEventType string

const (
	EventGameStart        GameEventType = "game_start"
	EventPlayerPlay       GameEventType = "player_play"
	EventPlayerChooseSuit GameEventType = "player_choose_suit" // prompt after the player's eight
	EventPlayerSelectSuit GameEventType = "player_select_suit"
	EventPlayerDraw       GameEventType = "player_draw"
	EventOpponentPlay     GameEventType = "opponent_play"
	EventOpponentDraw     GameEventType = "opponent_draw"
	EventGameEnd          GameEventType = "game_end"
	EventGameLobby        GameEventType = "game_lobby"
	EventGameRejected     GameEventType = "game_rejected"
	EventPrivateSyncState GameEventType = "private_sync_state"
)

// GameEvent is broadcast after every accepted or rejected intent.
type GameEvent struct {
	Type    GameEventType `json:"type"`
	Actor   *engine.Actor `json:"actor,omitempty"`
	Card    *engine.Card  `json:"card,omitempty"` // never set for the opponent's draw
	Suit    *engine.Suit  `json:"suit,omitempty"`
	Message string        `json:"message,omitempty"`
	Error   string        `json:"error,omitempty"`
	State   *engine.View  `json:"state,omitempty"`
}

// ActionRecord is one entry of the session history.
type ActionRecord struct {
	GameID      uuid.UUID              `json:"gameId"`
	ActionIndex int                    `json:"actionIndex"`
	Actor       string                 `json:"actor,omitempty"`
	ActionType  string                 `json:"actionType"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   int64                  `json:"timestamp"`
}

// CrazyEightsGame is a single human-versus-computer session.
type CrazyEightsGame struct {
	ID uuid.UUID

	State  engine.State // authoritative; replaced on every accepted intent
	Policy agent.Policy

	// OpponentDelay postpones the opponent's move so the presentation can
	// show the player's card first. Zero or less runs the opponent inline.
	OpponentDelay time.Duration

	Mu sync.Mutex

	BroadcastFn func(ev GameEvent)
	OnGameEnd   OnGameEndFunc

	rng       engine.Rand
	catalog   *messages.Catalog
	log       *logrus.Entry
	turnTimer *time.Timer

	actionIndex int
	history     []ActionRecord
	closed      bool
}

// NewCrazyEightsGame returns a session sitting in the lobby. rng drives
// shuffling and the opponent; logger may be nil.
func NewCrazyEightsGame(rng engine.Rand, logger *logrus.Logger) *CrazyEightsGame {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	id := uuid.New()
	return &CrazyEightsGame{
		ID:            id,
		State:         engine.NewGame(),
		Policy:        agent.Greedy{},
		OpponentDelay: DefaultOpponentDelay,
		rng:           rng,
		catalog:       messages.MustNew(),
		log:           logger.WithField("game", id),
	}
}

// StartGame deals a new game. Allowed in the lobby and after a game ends.
func (g *CrazyEightsGame) StartGame() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.apply(engine.Intent{Kind: engine.IntentStart})
}

// PlayCard plays a card from the player's hand.
func (g *CrazyEightsGame) PlayCard(cardID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.apply(engine.Intent{Kind: engine.IntentPlay, Actor: engine.ActorPlayer, CardID: cardID})
}

// DrawCard draws for the player and passes the turn.
func (g *CrazyEightsGame) DrawCard() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.apply(engine.Intent{Kind: engine.IntentDraw, Actor: engine.ActorPlayer})
}

// SelectSuit names the active suit after the player's eight.
func (g *CrazyEightsGame) SelectSuit(suit engine.Suit) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.apply(engine.Intent{Kind: engine.IntentSelectSuit, Actor: engine.ActorPlayer, Suit: suit})
}

// ReturnToLobby clears a finished game.
func (g *CrazyEightsGame) ReturnToLobby() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.apply(engine.Intent{Kind: engine.IntentLobby})
}

// Message renders the current status line.
func (g *CrazyEightsGame) Message() string {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.catalog.Status(g.State.Status)
}

// History returns a copy of the actions recorded so far.
func (g *CrazyEightsGame) History() []ActionRecord {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	out := make([]ActionRecord, len(g.history))
	copy(out, g.history)
	return out
}

// Close stops the pending opponent move. The session rejects everything
// afterwards.
func (g *CrazyEightsGame) Close() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.closed {
		return
	}
	g.closed = true
	g.stopTurnTimer()
	g.logAction(nil, "game_closed", nil)
	g.log.Info("Session closed.")
}

// Closed reports whether Close has been called.
func (g *CrazyEightsGame) Closed() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.closed
}

// fireEvent sends ev through BroadcastFn. Assumes lock is held by caller.
func (g *CrazyEightsGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	}
}

// logAction appends to the history and mirrors the record to the log.
// Assumes lock is held by caller.
func (g *CrazyEightsGame) logAction(actor *engine.Actor, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	rec := ActionRecord{
		GameID:      g.ID,
		ActionIndex: g.actionIndex,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	if actor != nil {
		rec.Actor = actor.String()
	}
	g.history = append(g.history, rec)

	g.log.WithFields(logrus.Fields{
		"idx":    rec.ActionIndex,
		"actor":  rec.Actor,
		"action": actionType,
		"turn":   g.State.TurnID,
	}).Debug("Action recorded.")
}

// stopTurnTimer cancels a scheduled opponent move. Assumes lock is held by
// caller.
func (g *CrazyEightsGame) stopTurnTimer() {
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
}
