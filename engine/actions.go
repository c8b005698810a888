package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// IntentKind enumerates what the presentation or the opponent can ask for.
type IntentKind uint8

const (
	IntentStart      IntentKind = iota // 0
	IntentPlay                         // 1: Actor, CardID, Suit (opponent eights only)
	IntentDraw                         // 2: Actor
	IntentSelectSuit                   // 3: Suit
	IntentLobby                        // 4
)

// Intent is a single request against the game.
type Intent struct {
	Kind   IntentKind
	Actor  Actor
	CardID uuid.UUID
	Suit   Suit
}

// Apply dispatches intent against g. On rejection the returned state equals g
// except for Status, and the error wraps one of the Err* sentinels.
func Apply(g State, in Intent, rng Rand) (State, error) {
	switch in.Kind {
	case IntentStart:
		return StartGame(g, rng)
	case IntentPlay:
		return PlayCard(g, in.Actor, in.CardID, in.Suit)
	case IntentDraw:
		return DrawCard(g, in.Actor)
	case IntentSelectSuit:
		return SelectSuit(g, in.Suit)
	case IntentLobby:
		return ReturnToLobby(g)
	default:
		return reject(g, fmt.Errorf("%w %d", ErrUnknownIntent, in.Kind))
	}
}

// checkTurn verifies that actor may take a turn action in the current phase.
func checkTurn(g State, actor Actor) error {
	switch g.Phase {
	case PhasePlayerTurn, PhaseOpponentTurn:
		if g.Turn != actor {
			return fmt.Errorf("%s acting on %s's turn: %w", actor, g.Turn, ErrNotYourTurn)
		}
		return nil
	default:
		return fmt.Errorf("%s acting in phase %s: %w", actor, g.Phase, ErrWrongPhase)
	}
}

// PlayCard plays the card with the given ID from actor's hand. declared is
// the suit the opponent names when it plays an eight; the player names the
// suit afterwards through SelectSuit instead, so declared is ignored for the
// player.
func PlayCard(g State, actor Actor, cardID uuid.UUID, declared Suit) (State, error) {
	if err := checkTurn(g, actor); err != nil {
		return reject(g, err)
	}
	hand := g.Hand(actor)
	idx := indexOfCard(hand, cardID)
	if idx < 0 {
		return reject(g, fmt.Errorf("play %s: %w", cardID, ErrCardNotInHand))
	}
	card := hand[idx]
	top, _ := g.TopCard()
	if !IsValidMove(card, top, g.ActiveSuit) {
		return reject(g, fmt.Errorf("play %s on %s (active %s): %w", card, top, g.ActiveSuit, ErrIllegalMove))
	}
	if actor == ActorOpponent && card.IsWild() && !declared.Valid() {
		return reject(g, fmt.Errorf("play %s: %w %d", card, ErrInvalidSuit, declared))
	}

	next := g.Clone()
	remaining := removeCard(next.Hand(actor), idx)
	next.setHand(actor, remaining)
	next.Discard = append(next.Discard, card)
	next.ActiveSuit = card.Suit
	next.TurnID++
	played := card

	if actor == ActorOpponent && card.IsWild() {
		next.ActiveSuit = declared
	}

	if len(remaining) == 0 {
		return finish(next, actor), nil
	}

	switch {
	case actor == ActorPlayer && card.IsWild():
		next.Phase = PhaseSelectingSuit
		next.Status = Status{Code: StatusChooseSuit, Card: &played}
	case actor == ActorPlayer:
		next.Phase = PhaseOpponentTurn
		next.Turn = ActorOpponent
		next.Status = Status{Code: StatusOpponentThinking, Card: &played}
	case card.IsWild():
		next.Phase = PhasePlayerTurn
		next.Turn = ActorPlayer
		next.Status = Status{Code: StatusOpponentPlayedEight, Card: &played, Suit: declared}
	default:
		next.Phase = PhasePlayerTurn
		next.Turn = ActorPlayer
		next.Status = Status{Code: StatusOpponentPlayed, Card: &played}
	}
	return next, nil
}

// SelectSuit declares the suit after the player's eight and hands the turn
// to the opponent.
func SelectSuit(g State, suit Suit) (State, error) {
	if g.Phase != PhaseSelectingSuit {
		return reject(g, fmt.Errorf("select suit in phase %s: %w", g.Phase, ErrWrongPhase))
	}
	if !suit.Valid() {
		return reject(g, fmt.Errorf("select suit: %w %d", ErrInvalidSuit, suit))
	}
	next := g.Clone()
	next.ActiveSuit = suit
	next.Phase = PhaseOpponentTurn
	next.Turn = ActorOpponent
	next.TurnID++
	next.Status = Status{Code: StatusSuitChosen, Suit: suit}
	return next, nil
}

// DrawCard takes the last card of the deck into actor's hand. An empty deck
// draws nothing. Either way the turn passes to the other actor.
func DrawCard(g State, actor Actor) (State, error) {
	if err := checkTurn(g, actor); err != nil {
		return reject(g, err)
	}
	next := g.Clone()
	next.TurnID++

	if len(next.Deck) == 0 {
		next.Status = Status{Code: StatusDeckEmpty, Actor: actor}
	} else {
		card := next.Deck[len(next.Deck)-1]
		next.Deck = next.Deck[:len(next.Deck)-1]
		next.setHand(actor, append(next.Hand(actor), card))
		if actor == ActorPlayer {
			drawn := card
			next.Status = Status{Code: StatusPlayerDrew, Card: &drawn, Actor: actor}
		} else {
			next.Status = Status{Code: StatusOpponentDrew, Actor: actor}
		}
	}

	next.Turn = actor.Other()
	if next.Turn == ActorPlayer {
		next.Phase = PhasePlayerTurn
	} else {
		next.Phase = PhaseOpponentTurn
	}
	return next, nil
}

// finish moves g to GameOver with winner.
func finish(g State, winner Actor) State {
	g.Phase = PhaseGameOver
	g.Winner = winner
	g.Turn = winner
	if winner == ActorPlayer {
		g.Status = Status{Code: StatusPlayerWon, Actor: winner}
	} else {
		g.Status = Status{Code: StatusOpponentWon, Actor: winner}
	}
	return g
}

func indexOfCard(hand []Card, id uuid.UUID) int {
	for i, c := range hand {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// removeCard returns hand without index i, preserving order. hand must not be
// shared with another state.
func removeCard(hand []Card, i int) []Card {
	return append(hand[:i], hand[i+1:]...)
}
