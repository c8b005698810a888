package engine

// Fixed table rules. There are no house-rule variants.
const (
	HandSize = 8
	WildRank = RankEight

	// DefaultDeclaredSuit is declared when an eight leaves its player with
	// no cards to count.
	DefaultDeclaredSuit = SuitHearts
)

// IsValidMove reports whether candidate may be played on top with activeSuit
// in force. Eights are always playable; anything else must follow the active
// suit or match the top card's rank.
func IsValidMove(candidate, top Card, activeSuit Suit) bool {
	if candidate.Rank == WildRank {
		return true
	}
	return candidate.Suit == activeSuit || candidate.Rank == top.Rank
}

// PlayableCards returns the cards of hand that IsValidMove accepts, in hand
// order.
func PlayableCards(hand []Card, top Card, activeSuit Suit) []Card {
	var out []Card
	for _, c := range hand {
		if IsValidMove(c, top, activeSuit) {
			out = append(out, c)
		}
	}
	return out
}
