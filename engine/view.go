package engine

// HandCard is a card in the player's hand as shown to the presentation.
type HandCard struct {
	Card
	Playable bool `json:"playable"`
}

// View is the read-only projection handed to the presentation layer. The
// opponent's cards are reduced to a count.
type View struct {
	Phase            Phase      `json:"phase"`
	Turn             Actor      `json:"turn"`
	TurnID           uint64     `json:"turnId"`
	PlayerHand       []HandCard `json:"playerHand"`
	OpponentHandSize int        `json:"opponentHandSize"`
	DeckSize         int        `json:"deckSize"`
	Discard          []Card     `json:"discard"`
	TopCard          *Card      `json:"topCard,omitempty"`
	ActiveSuit       *Suit      `json:"activeSuit,omitempty"`
	Winner           *Actor     `json:"winner,omitempty"`
	Status           Status     `json:"status"`
}

// View builds the presentation projection of g. Cards are only marked
// playable while the player may play them.
func (g State) View() View {
	v := View{
		Phase:            g.Phase,
		Turn:             g.Turn,
		TurnID:           g.TurnID,
		OpponentHandSize: len(g.OpponentHand),
		DeckSize:         len(g.Deck),
		Discard:          cloneCards(g.Discard),
		Status:           g.Status,
	}

	top, hasTop := g.TopCard()
	if hasTop {
		v.TopCard = &top
		suit := g.ActiveSuit
		v.ActiveSuit = &suit
	}
	if g.Phase == PhaseGameOver {
		winner := g.Winner
		v.Winner = &winner
	}

	v.PlayerHand = make([]HandCard, len(g.PlayerHand))
	for i, c := range g.PlayerHand {
		v.PlayerHand[i] = HandCard{
			Card:     c,
			Playable: g.Phase == PhasePlayerTurn && hasTop && IsValidMove(c, top, g.ActiveSuit),
		}
	}
	return v
}
