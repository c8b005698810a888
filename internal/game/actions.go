package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	engine "github.com/jason-s-yu/crazyeights/engine"
)

// Action types accepted by HandleAction.
const (
	ActionStart      = "action_start"
	ActionPlay       = "action_play"        // payload: {"id": "<card uuid>"} or {"idx": <hand index>}
	ActionDraw       = "action_draw"        // no payload
	ActionSelectSuit = "action_select_suit" // payload: {"suit": "H"|"D"|"C"|"S"}
	ActionLobby      = "action_lobby"
	ActionSync       = "action_sync"
)

var (
	ErrUnknownAction = errors.New("unknown action type")
	ErrBadPayload    = errors.New("malformed action payload")
)

// Action is a request from the presentation layer.
type Action struct {
	ActionType string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
}

// HandleAction routes a presentation action to the matching intent. Refused
// actions are broadcast as game_rejected and returned as errors.
func (g *CrazyEightsGame) HandleAction(action Action) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.closed {
		return fmt.Errorf("%s: %w", action.ActionType, ErrClosed)
	}

	switch action.ActionType {
	case ActionStart:
		return g.apply(engine.Intent{Kind: engine.IntentStart})
	case ActionPlay:
		cardID, err := g.parseCardTarget(action.Payload)
		if err != nil {
			return g.rejectAction(action, err)
		}
		return g.apply(engine.Intent{Kind: engine.IntentPlay, Actor: engine.ActorPlayer, CardID: cardID})
	case ActionDraw:
		return g.apply(engine.Intent{Kind: engine.IntentDraw, Actor: engine.ActorPlayer})
	case ActionSelectSuit:
		suit, err := parseSuit(action.Payload)
		if err != nil {
			return g.rejectAction(action, err)
		}
		return g.apply(engine.Intent{Kind: engine.IntentSelectSuit, Actor: engine.ActorPlayer, Suit: suit})
	case ActionLobby:
		return g.apply(engine.Intent{Kind: engine.IntentLobby})
	case ActionSync:
		g.sendSyncState()
		return nil
	default:
		return g.rejectAction(action, fmt.Errorf("%w %q", ErrUnknownAction, action.ActionType))
	}
}

// rejectAction reports an action that never reached the engine.
// Assumes lock is held by caller.
func (g *CrazyEightsGame) rejectAction(action Action, err error) error {
	g.log.WithField("action", action.ActionType).Infof("Action rejected: %v", err)
	view := g.State.View()
	g.fireEvent(GameEvent{
		Type:    EventGameRejected,
		Actor:   actorRef(engine.ActorPlayer),
		Message: g.catalog.Status(g.State.Status),
		Error:   err.Error(),
		State:   &view,
	})
	return err
}

// parseCardTarget resolves a card from {"id": ...} or, failing that, from a
// hand index {"idx": ...}. Assumes lock is held by caller.
func (g *CrazyEightsGame) parseCardTarget(data map[string]interface{}) (uuid.UUID, error) {
	if data == nil {
		return uuid.Nil, fmt.Errorf("%w: missing card", ErrBadPayload)
	}

	if raw, ok := data["id"]; ok {
		s, ok := raw.(string)
		if !ok {
			return uuid.Nil, fmt.Errorf("%w: card id must be a string", ErrBadPayload)
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: card id %q: %v", ErrBadPayload, s, err)
		}
		return id, nil
	}

	var idx int
	switch v := data["idx"].(type) {
	case float64: // encoding/json numbers
		if v != float64(int(v)) {
			return uuid.Nil, fmt.Errorf("%w: idx %v is not an integer", ErrBadPayload, v)
		}
		idx = int(v)
	case int:
		idx = v
	default:
		return uuid.Nil, fmt.Errorf("%w: missing card", ErrBadPayload)
	}

	hand := g.State.PlayerHand
	if idx < 0 || idx >= len(hand) {
		return uuid.Nil, fmt.Errorf("idx %d of %d: %w", idx, len(hand), engine.ErrCardNotInHand)
	}
	return hand[idx].ID, nil
}

func parseSuit(data map[string]interface{}) (engine.Suit, error) {
	s, ok := data["suit"].(string)
	if !ok {
		return 0, fmt.Errorf("%w: missing suit", ErrBadPayload)
	}
	return engine.ParseSuit(s)
}
