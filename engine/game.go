// Package engine implements the Crazy Eights rules for one human player
// against one computer opponent.
//
// The game is a plain value. Every transition takes a State and returns a new
// State without touching its input, so a game can be replayed from a seed
// and a list of intents, and tests never need a rendering harness.
package engine

import "fmt"

// State holds the complete state of one game.
type State struct {
	Phase        Phase
	Turn         Actor
	Deck         []Card // face-down draw pile; the last element is drawn first
	PlayerHand   []Card
	OpponentHand []Card
	Discard      []Card // append-only; the last element is the top card
	ActiveSuit   Suit
	Winner       Actor // meaningful only in PhaseGameOver

	// TurnID is bumped on every accepted transition. Deferred work scheduled
	// for one phase entry compares it before acting.
	TurnID uint64

	Status Status
}

// NewGame returns a game sitting in the lobby.
func NewGame() State {
	return State{
		Phase:  PhaseLobby,
		Status: Status{Code: StatusWelcome},
	}
}

// Clone returns a deep copy of the game.
func (g State) Clone() State {
	out := g
	out.Deck = cloneCards(g.Deck)
	out.PlayerHand = cloneCards(g.PlayerHand)
	out.OpponentHand = cloneCards(g.OpponentHand)
	out.Discard = cloneCards(g.Discard)
	if g.Status.Card != nil {
		c := *g.Status.Card
		out.Status.Card = &c
	}
	return out
}

func cloneCards(in []Card) []Card {
	if in == nil {
		return nil
	}
	out := make([]Card, len(in))
	copy(out, in)
	return out
}

// TopCard returns the top of the discard pile. ok is false before the first
// deal.
func (g State) TopCard() (top Card, ok bool) {
	if len(g.Discard) == 0 {
		return Card{}, false
	}
	return g.Discard[len(g.Discard)-1], true
}

// Hand returns the given actor's hand. The slice aliases the state.
func (g State) Hand(a Actor) []Card {
	if a == ActorOpponent {
		return g.OpponentHand
	}
	return g.PlayerHand
}

func (g *State) setHand(a Actor, hand []Card) {
	if a == ActorOpponent {
		g.OpponentHand = hand
		return
	}
	g.PlayerHand = hand
}

// IsOver reports whether the game has ended.
func (g State) IsOver() bool { return g.Phase == PhaseGameOver }

// ActingActor returns who must act next and whether anyone may act at all.
// SelectingSuit belongs to the player who just played the eight.
func (g State) ActingActor() (Actor, bool) {
	switch g.Phase {
	case PhasePlayerTurn, PhaseSelectingSuit:
		return ActorPlayer, true
	case PhaseOpponentTurn:
		return ActorOpponent, true
	default:
		return ActorPlayer, false
	}
}

// StartGame deals a fresh shuffled deck. Allowed from the lobby and after a
// finished game.
func StartGame(g State, rng Rand) (State, error) {
	if g.Phase != PhaseLobby && g.Phase != PhaseGameOver {
		return reject(g, fmt.Errorf("start game: %w (phase %s)", ErrWrongPhase, g.Phase))
	}
	return Deal(g, NewDeck(rng))
}

// Deal starts a game from an already ordered deck: the first HandSize cards
// go to the player, the next HandSize to the opponent, and the first non-eight
// among the rest becomes the starter card. Eights skipped during that scan stay
// in the deck in their original order.
func Deal(g State, deck []Card) (State, error) {
	if g.Phase != PhaseLobby && g.Phase != PhaseGameOver {
		return reject(g, fmt.Errorf("deal: %w (phase %s)", ErrWrongPhase, g.Phase))
	}
	if len(deck) < 2*HandSize+1 {
		return g, fmt.Errorf("deal %d cards: %w", len(deck), ErrShortDeck)
	}

	rest := deck[2*HandSize:]
	starter := -1
	for i, c := range rest {
		if c.Rank != WildRank {
			starter = i
			break
		}
	}
	if starter < 0 {
		return g, ErrNoStarterCard
	}

	next := State{
		Phase:        PhasePlayerTurn,
		Turn:         ActorPlayer,
		PlayerHand:   cloneCards(deck[:HandSize]),
		OpponentHand: cloneCards(deck[HandSize : 2*HandSize]),
		Discard:      []Card{rest[starter]},
		ActiveSuit:   rest[starter].Suit,
		TurnID:       g.TurnID + 1,
		Status:       Status{Code: StatusYourTurn},
	}
	next.Deck = make([]Card, 0, len(rest)-1)
	next.Deck = append(next.Deck, rest[:starter]...)
	next.Deck = append(next.Deck, rest[starter+1:]...)
	return next, nil
}

// ReturnToLobby clears the table after a finished game.
func ReturnToLobby(g State) (State, error) {
	if g.Phase != PhaseGameOver && g.Phase != PhaseLobby {
		return reject(g, fmt.Errorf("return to lobby: %w (phase %s)", ErrWrongPhase, g.Phase))
	}
	next := NewGame()
	next.TurnID = g.TurnID + 1
	return next, nil
}

// reject returns g unchanged apart from a status describing err.
func reject(g State, err error) (State, error) {
	out := g.Clone()
	out.Status = Status{Code: statusForError(err)}
	return out, err
}
