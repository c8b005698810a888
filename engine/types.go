package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Suit is one of the four French suits.
type Suit uint8

const (
	SuitHearts   Suit = 0
	SuitDiamonds Suit = 1
	SuitClubs    Suit = 2
	SuitSpades   Suit = 3
)

// Suits is the fixed enumeration order. Anything that iterates suits and
// needs a deterministic tie-break uses this order.
var Suits = [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return s <= SuitSpades }

// String returns the suit symbol.
func (s Suit) String() string {
	switch s {
	case SuitHearts:
		return "♥"
	case SuitDiamonds:
		return "♦"
	case SuitClubs:
		return "♣"
	case SuitSpades:
		return "♠"
	default:
		return "?"
	}
}

// Letter returns the single-letter code used on the wire ("H", "D", "C", "S").
func (s Suit) Letter() string {
	switch s {
	case SuitHearts:
		return "H"
	case SuitDiamonds:
		return "D"
	case SuitClubs:
		return "C"
	case SuitSpades:
		return "S"
	default:
		return "?"
	}
}

// IsRed reports whether the suit is printed in red.
func (s Suit) IsRed() bool { return s == SuitHearts || s == SuitDiamonds }

// ParseSuit accepts a letter code, an English name or a suit symbol.
func ParseSuit(v string) (Suit, error) {
	switch v {
	case "H", "h", "hearts", "Hearts", "♥":
		return SuitHearts, nil
	case "D", "d", "diamonds", "Diamonds", "♦":
		return SuitDiamonds, nil
	case "C", "c", "clubs", "Clubs", "♣":
		return SuitClubs, nil
	case "S", "s", "spades", "Spades", "♠":
		return SuitSpades, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSuit, v)
}

// MarshalText encodes the suit as its letter code.
func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSuit, s)
	}
	return []byte(s.Letter()), nil
}

// UnmarshalText decodes a letter code, name or symbol.
func (s *Suit) UnmarshalText(b []byte) error {
	v, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Rank is the card rank, Ace through King.
type Rank uint8

const (
	RankAce   Rank = 0
	RankTwo   Rank = 1
	RankThree Rank = 2
	RankFour  Rank = 3
	RankFive  Rank = 4
	RankSix   Rank = 5
	RankSeven Rank = 6
	RankEight Rank = 7
	RankNine  Rank = 8
	RankTen   Rank = 9
	RankJack  Rank = 10
	RankQueen Rank = 11
	RankKing  Rank = 12
)

const (
	NumSuits = 4
	NumRanks = 13
	DeckSize = NumSuits * NumRanks
)

var rankNames = [NumRanks]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Valid reports whether r is Ace through King.
func (r Rank) Valid() bool { return r <= RankKing }

// String returns the printed rank ("A", "2" … "10", "J", "Q", "K").
func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return rankNames[r]
}

// ParseRank is the inverse of Rank.String. "T" is accepted for ten.
func ParseRank(v string) (Rank, error) {
	if v == "T" || v == "t" {
		return RankTen, nil
	}
	for i, name := range rankNames {
		if name == v {
			return Rank(i), nil
		}
	}
	switch v {
	case "a", "j", "q", "k":
		return ParseRank(string(v[0] - 'a' + 'A'))
	}
	return 0, fmt.Errorf("invalid rank %q", v)
}

// MarshalText encodes the printed rank.
func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rank %d", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a printed rank.
func (r *Rank) UnmarshalText(b []byte) error {
	v, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Card is a single playing card. Two cards are the same card only if their
// IDs match; suit and rank alone are never used to remove a card from a hand.
type Card struct {
	ID   uuid.UUID `json:"id"`
	Suit Suit      `json:"suit"`
	Rank Rank      `json:"rank"`
}

// NewCard constructs a card with a fresh random ID.
func NewCard(suit Suit, rank Rank) Card {
	return Card{ID: uuid.New(), Suit: suit, Rank: rank}
}

// IsWild reports whether the card is an eight.
func (c Card) IsWild() bool { return c.Rank == RankEight }

// String renders the card as rank followed by suit symbol, e.g. "10♠".
func (c Card) String() string { return c.Rank.String() + c.Suit.String() }

// Phase is the current stage of the turn state machine.
type Phase uint8

const (
	PhaseLobby         Phase = iota // 0
	PhasePlayerTurn                 // 1
	PhaseOpponentTurn               // 2
	PhaseSelectingSuit              // 3: player played an eight and must declare a suit
	PhaseGameOver                   // 4
)

var phaseNames = [...]string{"lobby", "player_turn", "opponent_turn", "selecting_suit", "game_over"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// MarshalText encodes the phase name.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// Actor identifies one of the two seats.
type Actor uint8

const (
	ActorPlayer   Actor = 0
	ActorOpponent Actor = 1
)

// Other returns the opposite seat.
func (a Actor) Other() Actor { return 1 - a }

func (a Actor) String() string {
	switch a {
	case ActorPlayer:
		return "player"
	case ActorOpponent:
		return "opponent"
	default:
		return fmt.Sprintf("actor(%d)", uint8(a))
	}
}

// MarshalText encodes the actor name.
func (a Actor) MarshalText() ([]byte, error) { return []byte(a.String()), nil }
