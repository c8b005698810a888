// Package agent implements the computer opponent.
package agent

import (
	"fmt"

	"github.com/google/uuid"
	engine "github.com/jason-s-yu/crazyeights/engine"
)

// DecisionKind is what the opponent chose to do with its turn.
type DecisionKind uint8

const (
	DecisionDraw DecisionKind = iota // 0
	DecisionPlay                     // 1
)

func (k DecisionKind) String() string {
	if k == DecisionPlay {
		return "play"
	}
	return "draw"
}

// Decision is a policy's choice for one opponent turn. Suit is only
// meaningful when Card is an eight.
type Decision struct {
	Kind DecisionKind
	Card engine.Card
	Suit engine.Suit
}

// Intent converts the decision into an engine intent for the opponent seat.
func (d Decision) Intent() engine.Intent {
	if d.Kind == DecisionPlay {
		return engine.Intent{Kind: engine.IntentPlay, Actor: engine.ActorOpponent, CardID: d.Card.ID, Suit: d.Suit}
	}
	return engine.Intent{Kind: engine.IntentDraw, Actor: engine.ActorOpponent, CardID: uuid.Nil}
}

// Policy decides the opponent's move. Decide is only called while the game is
// in PhaseOpponentTurn and must not modify g.
type Policy interface {
	Decide(g engine.State, rng engine.Rand) Decision
}

// Play runs one opponent turn: it asks p for a decision and applies it.
func Play(g engine.State, p Policy, rng engine.Rand) (engine.State, Decision, error) {
	if g.Phase != engine.PhaseOpponentTurn {
		return g, Decision{}, fmt.Errorf("opponent turn in phase %s: %w", g.Phase, engine.ErrWrongPhase)
	}
	d := p.Decide(g, rng)
	next, err := engine.Apply(g, d.Intent(), rng)
	if err != nil {
		return next, d, fmt.Errorf("apply opponent %s: %w", d.Kind, err)
	}
	return next, d, nil
}
