package agent

import engine "github.com/jason-s-yu/crazyeights/engine"

// Greedy is a single-ply heuristic with no memory of the player's hand.
//
// It prefers any ordinary matching card, chosen at random. Failing that it
// plays its first eight and names the suit it holds most of. Otherwise it
// draws.
type Greedy struct{}

// Decide implements Policy.
func (Greedy) Decide(g engine.State, rng engine.Rand) Decision {
	hand := g.OpponentHand
	top, _ := g.TopCard()

	if normal := normalPlayable(hand, top, g.ActiveSuit); len(normal) > 0 {
		return Decision{Kind: DecisionPlay, Card: normal[rng.IntN(len(normal))]}
	}

	for i, c := range hand {
		if c.IsWild() {
			rest := make([]engine.Card, 0, len(hand)-1)
			rest = append(rest, hand[:i]...)
			rest = append(rest, hand[i+1:]...)
			return Decision{Kind: DecisionPlay, Card: c, Suit: BestSuit(rest)}
		}
	}

	return Decision{Kind: DecisionDraw}
}

// normalPlayable returns the non-eight cards that follow suit or rank.
func normalPlayable(hand []engine.Card, top engine.Card, active engine.Suit) []engine.Card {
	var out []engine.Card
	for _, c := range hand {
		if !c.IsWild() && (c.Suit == active || c.Rank == top.Rank) {
			out = append(out, c)
		}
	}
	return out
}

// SuitCounts tallies hand by suit, indexed by engine.Suit.
func SuitCounts(hand []engine.Card) [engine.NumSuits]int {
	var counts [engine.NumSuits]int
	for _, c := range hand {
		if c.Suit.Valid() {
			counts[c.Suit]++
		}
	}
	return counts
}

// BestSuit returns the most common suit in hand. Ties go to the suit that
// comes first in engine.Suits; an empty hand yields engine.DefaultDeclaredSuit.
func BestSuit(hand []engine.Card) engine.Suit {
	if len(hand) == 0 {
		return engine.DefaultDeclaredSuit
	}
	counts := SuitCounts(hand)
	best := engine.Suits[0]
	for _, s := range engine.Suits[1:] {
		if counts[s] > counts[best] {
			best = s
		}
	}
	return best
}
