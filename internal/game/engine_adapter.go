package game

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/crazyeights/engine"
	"github.com/jason-s-yu/crazyeights/engine/agent"
)

// apply runs one intent through the engine and reports the outcome.
// Assumes lock is held by caller.
func (g *CrazyEightsGame) apply(in engine.Intent) error {
	if g.closed {
		return fmt.Errorf("%s: %w", intentName(in), ErrClosed)
	}

	next, err := engine.Apply(g.State, in, g.rng)
	g.State = next
	if err != nil {
		g.rejectIntent(in, err)
		return err
	}

	if in.Kind == engine.IntentStart || in.Kind == engine.IntentLobby {
		g.stopTurnTimer()
	}
	g.emitEventsForIntent(in)
	g.onTurnAdvanced()
	return nil
}

// rejectIntent reports a refused intent. The engine has already replaced the
// status; nothing else changed. Assumes lock is held by caller.
func (g *CrazyEightsGame) rejectIntent(in engine.Intent, err error) {
	g.log.WithFields(logrus.Fields{
		"intent": intentName(in),
		"actor":  in.Actor,
		"phase":  g.State.Phase,
	}).Infof("Intent rejected: %v", err)

	view := g.State.View()
	g.fireEvent(GameEvent{
		Type:    EventGameRejected,
		Actor:   actorRef(in.Actor),
		Message: g.catalog.Status(g.State.Status),
		Error:   err.Error(),
		State:   &view,
	})
}

// emitEventsForIntent broadcasts what an accepted intent did. g.State is
// already the new state. Assumes lock is held by caller.
func (g *CrazyEightsGame) emitEventsForIntent(in engine.Intent) {
	st := g.State
	view := st.View()
	ev := GameEvent{
		Message: g.catalog.Status(st.Status),
		State:   &view,
	}
	payload := map[string]interface{}{}

	switch in.Kind {
	case engine.IntentStart:
		ev.Type = EventGameStart
		top, _ := st.TopCard()
		payload["starter"] = top.String()
		g.log.WithField("turn", st.TurnID).Infof("Game dealt; starter %s.", top)

	case engine.IntentLobby:
		ev.Type = EventGameLobby

	case engine.IntentSelectSuit:
		ev.Type = EventPlayerSelectSuit
		ev.Actor = actorRef(engine.ActorPlayer)
		ev.Suit = suitRef(st.ActiveSuit)
		payload["suit"] = st.ActiveSuit.Letter()

	case engine.IntentDraw:
		ev.Actor = actorRef(in.Actor)
		if in.Actor == engine.ActorPlayer {
			ev.Type = EventPlayerDraw
			ev.Card = st.Status.Card
		} else {
			ev.Type = EventOpponentDraw
		}
		payload["deckEmpty"] = st.Status.Code == engine.StatusDeckEmpty

	case engine.IntentPlay:
		played, _ := st.TopCard()
		ev.Actor = actorRef(in.Actor)
		ev.Card = &played
		payload["card"] = played.String()
		if in.Actor == engine.ActorPlayer {
			ev.Type = EventPlayerPlay
		} else {
			ev.Type = EventOpponentPlay
			if played.IsWild() {
				ev.Suit = suitRef(st.ActiveSuit)
				payload["suit"] = st.ActiveSuit.Letter()
			}
		}
	}

	g.logAction(ev.Actor, string(ev.Type), payload)
	g.fireEvent(ev)

	switch st.Phase {
	case engine.PhaseSelectingSuit:
		g.fireEvent(GameEvent{
			Type:    EventPlayerChooseSuit,
			Actor:   actorRef(engine.ActorPlayer),
			Message: ev.Message,
			State:   &view,
		})
	case engine.PhaseGameOver:
		g.endGame()
	}
}

// onTurnAdvanced schedules the opponent when it is its turn.
// Assumes lock is held by caller.
func (g *CrazyEightsGame) onTurnAdvanced() {
	if g.State.Phase == engine.PhaseOpponentTurn {
		g.scheduleOpponentTurn()
	}
}

// scheduleOpponentTurn arms the opponent timer for the current TurnID.
// Assumes lock is held by caller.
func (g *CrazyEightsGame) scheduleOpponentTurn() {
	g.stopTurnTimer()
	if g.OpponentDelay <= 0 {
		g.runOpponentTurn()
		return
	}

	curTurnID := g.State.TurnID
	g.turnTimer = time.AfterFunc(g.OpponentDelay, func() {
		g.opponentTimerFired(curTurnID)
	})
}

// opponentTimerFired runs the opponent if the game is still in the phase the
// timer was armed for.
func (g *CrazyEightsGame) opponentTimerFired(expectedTurnID uint64) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.closed || g.State.TurnID != expectedTurnID || g.State.Phase != engine.PhaseOpponentTurn {
		g.log.WithFields(logrus.Fields{
			"expected": expectedTurnID,
			"turn":     g.State.TurnID,
		}).Debug("Stale opponent timer ignored.")
		return
	}
	g.stopTurnTimer()
	g.runOpponentTurn()
}

// runOpponentTurn lets the policy move. A policy that picks an illegal move
// draws instead. Assumes lock is held by caller.
func (g *CrazyEightsGame) runOpponentTurn() {
	next, d, err := agent.Play(g.State, g.Policy, g.rng)
	in := d.Intent()
	if err != nil {
		g.log.WithField("decision", d.Kind).Warnf("Opponent move rejected, drawing instead: %v", err)
		in = engine.Intent{Kind: engine.IntentDraw, Actor: engine.ActorOpponent}
		next, err = engine.Apply(g.State, in, g.rng)
		if err != nil {
			g.log.Errorf("Opponent cannot act: %v", err)
			return
		}
	}
	g.State = next
	g.emitEventsForIntent(in)
	g.onTurnAdvanced()
}

// endGame reports the winner. Assumes lock is held by caller.
func (g *CrazyEightsGame) endGame() {
	g.stopTurnTimer()
	winner := g.State.Winner
	view := g.State.View()

	g.logAction(actorRef(winner), string(EventGameEnd), map[string]interface{}{
		"winner":   winner.String(),
		"discards": len(g.State.Discard),
	})
	g.fireEvent(GameEvent{
		Type:    EventGameEnd,
		Actor:   actorRef(winner),
		Message: g.catalog.Status(g.State.Status),
		State:   &view,
	})
	g.log.WithField("winner", winner).Info("Game over.")

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, winner, view)
	}
}

func intentName(in engine.Intent) string {
	switch in.Kind {
	case engine.IntentStart:
		return "start"
	case engine.IntentPlay:
		return "play"
	case engine.IntentDraw:
		return "draw"
	case engine.IntentSelectSuit:
		return "select_suit"
	case engine.IntentLobby:
		return "lobby"
	default:
		return fmt.Sprintf("intent(%d)", in.Kind)
	}
}

func actorRef(a engine.Actor) *engine.Actor { return &a }

func suitRef(s engine.Suit) *engine.Suit { return &s }
