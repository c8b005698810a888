package engine

// NewOrderedDeck returns the 52 cards in suit-major order
// (♥A..♥K, ♦A..♦K, ♣A..♣K, ♠A..♠K), each with a fresh ID.
func NewOrderedDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for rank := RankAce; rank <= RankKing; rank++ {
			deck = append(deck, NewCard(suit, rank))
		}
	}
	return deck
}

// NewDeck returns a freshly built, shuffled 52-card deck.
func NewDeck(rng Rand) []Card {
	return Shuffle(NewOrderedDeck(), rng)
}

// Shuffle returns a Fisher-Yates permutation of in. The input is not modified.
func Shuffle[T any](in []T, rng Rand) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
