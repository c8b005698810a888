package engine

import "errors"

// Rejection reasons. A rejected intent leaves the game untouched except for
// State.Status.
var (
	ErrWrongPhase    = errors.New("intent not allowed in current phase")
	ErrNotYourTurn   = errors.New("not this actor's turn")
	ErrIllegalMove   = errors.New("card does not match active suit or top rank")
	ErrCardNotInHand = errors.New("card not in hand")
	ErrInvalidSuit   = errors.New("invalid suit")
	ErrShortDeck     = errors.New("deck too small to deal")
	ErrNoStarterCard = errors.New("no non-eight card left to start the discard pile")
	ErrUnknownIntent = errors.New("unknown intent")
)

// StatusCode identifies the human-readable message that describes the last
// transition or rejection. Rendering to text happens outside the engine.
type StatusCode uint8

const (
	StatusWelcome             StatusCode = iota // 0
	StatusYourTurn                              // 1
	StatusInvalidMove                           // 2
	StatusChooseSuit                            // 3
	StatusSuitChosen                            // 4: Suit
	StatusOpponentThinking                      // 5
	StatusOpponentPlayed                        // 6: Card
	StatusOpponentPlayedEight                   // 7: Card, Suit
	StatusPlayerDrew                            // 8: Card
	StatusOpponentDrew                          // 9
	StatusDeckEmpty                             // 10: Actor
	StatusPlayerWon                             // 11
	StatusOpponentWon                           // 12
	StatusWrongPhase                            // 13
	StatusNotYourTurn                           // 14
	StatusCardNotInHand                         // 15
)

var statusNames = [...]string{
	"welcome",
	"your_turn",
	"invalid_move",
	"choose_suit",
	"suit_chosen",
	"opponent_thinking",
	"opponent_played",
	"opponent_played_eight",
	"player_drew",
	"opponent_drew",
	"deck_empty",
	"player_won",
	"opponent_won",
	"wrong_phase",
	"not_your_turn",
	"card_not_in_hand",
}

func (c StatusCode) String() string {
	if int(c) < len(statusNames) {
		return statusNames[c]
	}
	return "unknown"
}

// MarshalText encodes the status name.
func (c StatusCode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Status describes the outcome of the most recent intent. Card, Suit and
// Actor are set only for the codes that mention them.
type Status struct {
	Code  StatusCode `json:"code"`
	Card  *Card      `json:"card,omitempty"`
	Suit  Suit       `json:"suit"`
	Actor Actor      `json:"actor"`
}

// statusForError maps a rejection to the status shown to the user.
func statusForError(err error) StatusCode {
	switch {
	case errors.Is(err, ErrIllegalMove):
		return StatusInvalidMove
	case errors.Is(err, ErrNotYourTurn):
		return StatusNotYourTurn
	case errors.Is(err, ErrCardNotInHand):
		return StatusCardNotInHand
	default:
		return StatusWrongPhase
	}
}
