package engine

// LegalIntents returns every intent the acting seat may submit right now.
// Play intents come in hand order followed by the draw; in SelectingSuit it
// is one intent per suit. Opponent eights are listed once per declarable suit.
// Lobby and GameOver only offer IntentStart (plus IntentLobby after a game).
func (g State) LegalIntents() []Intent {
	switch g.Phase {
	case PhaseLobby:
		return []Intent{{Kind: IntentStart}}
	case PhaseGameOver:
		return []Intent{{Kind: IntentStart}, {Kind: IntentLobby}}
	case PhaseSelectingSuit:
		out := make([]Intent, 0, NumSuits)
		for _, s := range Suits {
			out = append(out, Intent{Kind: IntentSelectSuit, Actor: ActorPlayer, Suit: s})
		}
		return out
	}

	actor := g.Turn
	top, _ := g.TopCard()
	var out []Intent
	for _, c := range g.Hand(actor) {
		if !IsValidMove(c, top, g.ActiveSuit) {
			continue
		}
		if actor == ActorOpponent && c.IsWild() {
			for _, s := range Suits {
				out = append(out, Intent{Kind: IntentPlay, Actor: actor, CardID: c.ID, Suit: s})
			}
			continue
		}
		out = append(out, Intent{Kind: IntentPlay, Actor: actor, CardID: c.ID})
	}
	return append(out, Intent{Kind: IntentDraw, Actor: actor})
}
