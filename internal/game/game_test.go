package game

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/jason-s-yu/crazyeights/engine"
	"github.com/jason-s-yu/crazyeights/internal/logging"
)

// lastRand always returns n-1: shuffles leave the deck in order and the
// opponent picks its last matching card.
type lastRand struct{}

func (lastRand) IntN(n int) int { return n - 1 }

// mockBroadcaster captures game events for testing assertions.
type mockBroadcaster struct {
	mu        sync.Mutex
	allEvents []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = nil
}

func (mb *mockBroadcaster) types() []GameEventType {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	out := make([]GameEventType, len(mb.allEvents))
	for i, ev := range mb.allEvents {
		out[i] = ev.Type
	}
	return out
}

func (mb *mockBroadcaster) getLastEvent() *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.allEvents) == 0 {
		return nil
	}
	return &mb.allEvents[len(mb.allEvents)-1]
}

func (mb *mockBroadcaster) findEventByType(eventType GameEventType) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.allEvents) - 1; i >= 0; i-- {
		if mb.allEvents[i].Type == eventType {
			return &mb.allEvents[i]
		}
	}
	return nil
}

// setupTestGame deals the unshuffled deck. The player holds ♥A-♥8, the
// opponent ♥9-♥K and ♦A-♦3, and ♦4 starts the pile.
func setupTestGame(t *testing.T, delay time.Duration) (*CrazyEightsGame, *mockBroadcaster) {
	t.Helper()
	g := NewCrazyEightsGame(lastRand{}, logging.Discard())
	g.OpponentDelay = delay
	mb := &mockBroadcaster{}
	g.BroadcastFn = mb.broadcastFn
	t.Cleanup(g.Close)

	require.NoError(t, g.StartGame())
	require.Equal(t, engine.PhasePlayerTurn, g.View().Phase)
	mb.clear()
	return g, mb
}

// playerCard finds a heart in the player's hand.
func playerCard(t *testing.T, g *CrazyEightsGame, r engine.Rank) engine.Card {
	t.Helper()
	for _, c := range g.View().PlayerHand {
		if c.Suit == engine.SuitHearts && c.Rank == r {
			return c.Card
		}
	}
	t.Fatalf("%s♥ not in hand", r)
	return engine.Card{}
}

func TestStartGameBroadcasts(t *testing.T) {
	g := NewCrazyEightsGame(lastRand{}, logging.Discard())
	mb := &mockBroadcaster{}
	g.BroadcastFn = mb.broadcastFn
	defer g.Close()

	require.NoError(t, g.StartGame())

	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventGameStart, ev.Type)
	assert.Equal(t, "Your turn! Play a card or draw.", ev.Message)
	require.NotNil(t, ev.State)
	assert.Len(t, ev.State.PlayerHand, engine.HandSize)
	assert.Equal(t, engine.HandSize, ev.State.OpponentHandSize)
	assert.Equal(t, 35, ev.State.DeckSize)
	require.NotNil(t, ev.State.TopCard)
	assert.Equal(t, "4♦", ev.State.TopCard.String())

	history := g.History()
	require.Len(t, history, 1)
	assert.Equal(t, string(EventGameStart), history[0].ActionType)
	assert.Equal(t, g.ID, history[0].GameID)

	// A running game cannot be restarted.
	err := g.StartGame()
	assert.ErrorIs(t, err, engine.ErrWrongPhase)
}

func TestPlayCardRunsOpponentInline(t *testing.T) {
	g, mb := setupTestGame(t, 0)

	four := playerCard(t, g, engine.RankFour)
	require.NoError(t, g.PlayCard(four.ID))

	assert.Equal(t, []GameEventType{EventPlayerPlay, EventOpponentPlay}, mb.types())

	played := mb.findEventByType(EventPlayerPlay)
	require.NotNil(t, played.Card)
	assert.Equal(t, four.ID, played.Card.ID)
	require.NotNil(t, played.Actor)
	assert.Equal(t, engine.ActorPlayer, *played.Actor)

	reply := mb.getLastEvent()
	require.NotNil(t, reply.Card)
	assert.Equal(t, "K♥", reply.Card.String())
	assert.Equal(t, "Opponent played K♥. Your turn!", reply.Message)

	v := g.View()
	assert.Equal(t, engine.PhasePlayerTurn, v.Phase)
	assert.Len(t, v.PlayerHand, 7)
	assert.Equal(t, 7, v.OpponentHandSize)
	assert.Equal(t, "K♥", v.TopCard.String())
	assert.Equal(t, "Opponent played K♥. Your turn!", g.Message())
}

func TestRejectedPlayLeavesStateAlone(t *testing.T) {
	g, mb := setupTestGame(t, 0)
	before := g.View()

	ace := playerCard(t, g, engine.RankAce)
	err := g.PlayCard(ace.ID)
	require.ErrorIs(t, err, engine.ErrIllegalMove)

	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventGameRejected, ev.Type)
	assert.Equal(t, "Invalid move! Suit or rank doesn't match.", ev.Message)
	assert.NotEmpty(t, ev.Error)

	after := g.View()
	assert.Equal(t, before.TurnID, after.TurnID)
	assert.Equal(t, before.PlayerHand, after.PlayerHand)
	assert.Equal(t, before.Discard, after.Discard)
	assert.Equal(t, engine.StatusInvalidMove, after.Status.Code)

	err = g.PlayCard(uuid.New())
	assert.ErrorIs(t, err, engine.ErrCardNotInHand)

	err = g.SelectSuit(engine.SuitClubs)
	assert.ErrorIs(t, err, engine.ErrWrongPhase)

	err = g.ReturnToLobby()
	assert.ErrorIs(t, err, engine.ErrWrongPhase)
}

func TestEightThenSuitSelection(t *testing.T) {
	g, mb := setupTestGame(t, 0)

	eight := playerCard(t, g, engine.RankEight)
	require.NoError(t, g.PlayCard(eight.ID))

	assert.Equal(t, []GameEventType{EventPlayerPlay, EventPlayerChooseSuit}, mb.types())
	assert.Equal(t, engine.PhaseSelectingSuit, g.View().Phase)
	assert.Equal(t, "Wild eight! Choose a suit.", mb.getLastEvent().Message)

	// The player may not draw while a suit is owed.
	assert.ErrorIs(t, g.DrawCard(), engine.ErrWrongPhase)

	mb.clear()
	require.NoError(t, g.SelectSuit(engine.SuitDiamonds))

	types := mb.types()
	require.Len(t, types, 2)
	assert.Equal(t, EventPlayerSelectSuit, types[0])
	assert.Equal(t, EventOpponentPlay, types[1])

	chosen := mb.findEventByType(EventPlayerSelectSuit)
	require.NotNil(t, chosen.Suit)
	assert.Equal(t, engine.SuitDiamonds, *chosen.Suit)
	assert.Equal(t, "You chose ♦ Diamonds. Opponent's turn...", chosen.Message)

	// Diamonds are active, so the opponent answers with its last diamond.
	assert.Equal(t, "3♦", mb.getLastEvent().Card.String())
	assert.Equal(t, engine.PhasePlayerTurn, g.View().Phase)
}

func TestPlayerDraw(t *testing.T) {
	g, mb := setupTestGame(t, 0)

	require.NoError(t, g.DrawCard())

	draw := mb.findEventByType(EventPlayerDraw)
	require.NotNil(t, draw)
	require.NotNil(t, draw.Card)
	assert.Equal(t, "K♠", draw.Card.String())
	assert.Equal(t, "You drew K♠.", draw.Message)

	// ♦4 is still on top, so the opponent plays its last diamond.
	reply := mb.getLastEvent()
	assert.Equal(t, EventOpponentPlay, reply.Type)
	assert.Equal(t, "3♦", reply.Card.String())

	v := g.View()
	assert.Len(t, v.PlayerHand, 9)
	assert.Equal(t, 34, v.DeckSize)
}

func TestDelayedOpponentTimer(t *testing.T) {
	g, mb := setupTestGame(t, 200*time.Millisecond)

	four := playerCard(t, g, engine.RankFour)
	require.NoError(t, g.PlayCard(four.ID))

	v := g.View()
	assert.Equal(t, engine.PhaseOpponentTurn, v.Phase)
	assert.Equal(t, "Opponent is thinking...", g.Message())

	// Acting during the opponent's turn is refused.
	assert.ErrorIs(t, g.DrawCard(), engine.ErrNotYourTurn)

	require.Eventually(t, func() bool {
		return g.View().Phase == engine.PhasePlayerTurn
	}, 2*time.Second, 10*time.Millisecond)

	reply := mb.findEventByType(EventOpponentPlay)
	require.NotNil(t, reply)
	assert.Equal(t, "K♥", reply.Card.String())
}

func TestCloseStopsPendingOpponent(t *testing.T) {
	g, mb := setupTestGame(t, 100*time.Millisecond)

	four := playerCard(t, g, engine.RankFour)
	require.NoError(t, g.PlayCard(four.ID))
	g.Close()

	time.Sleep(250 * time.Millisecond)

	assert.Equal(t, engine.PhaseOpponentTurn, g.View().Phase)
	assert.Nil(t, mb.findEventByType(EventOpponentPlay))
	assert.ErrorIs(t, g.DrawCard(), ErrClosed)
	assert.ErrorIs(t, g.HandleAction(Action{ActionType: ActionDraw}), ErrClosed)
}

func TestStaleOpponentTimerIgnored(t *testing.T) {
	g, mb := setupTestGame(t, time.Hour)

	four := playerCard(t, g, engine.RankFour)
	require.NoError(t, g.PlayCard(four.ID))
	turnID := g.View().TurnID

	g.opponentTimerFired(turnID - 1)
	assert.Equal(t, engine.PhaseOpponentTurn, g.View().Phase)
	assert.Nil(t, mb.findEventByType(EventOpponentPlay))

	g.opponentTimerFired(turnID)
	assert.Equal(t, engine.PhasePlayerTurn, g.View().Phase)
	require.NotNil(t, mb.findEventByType(EventOpponentPlay))

	// Firing again for the consumed token does nothing.
	mb.clear()
	g.opponentTimerFired(turnID)
	assert.Empty(t, mb.types())
}

func TestHandleAction(t *testing.T) {
	g, mb := setupTestGame(t, 0)

	var play Action
	require.NoError(t, json.Unmarshal([]byte(`{"type":"action_play","payload":{"idx":3}}`), &play))
	require.NoError(t, g.HandleAction(play))
	assert.Equal(t, "4♥", mb.findEventByType(EventPlayerPlay).Card.String())

	seven := playerCard(t, g, engine.RankSeven)
	require.NoError(t, g.HandleAction(Action{
		ActionType: ActionPlay,
		Payload:    map[string]interface{}{"id": seven.ID.String()},
	}))
	assert.Equal(t, "Q♥", mb.getLastEvent().Card.String())

	err := g.HandleAction(Action{ActionType: ActionPlay, Payload: map[string]interface{}{"id": 5}})
	assert.ErrorIs(t, err, ErrBadPayload)
	assert.Equal(t, EventGameRejected, mb.getLastEvent().Type)

	err = g.HandleAction(Action{ActionType: ActionPlay, Payload: map[string]interface{}{"idx": float64(40)}})
	assert.ErrorIs(t, err, engine.ErrCardNotInHand)

	err = g.HandleAction(Action{ActionType: ActionPlay})
	assert.ErrorIs(t, err, ErrBadPayload)

	err = g.HandleAction(Action{ActionType: ActionSelectSuit, Payload: map[string]interface{}{"suit": "x"}})
	assert.ErrorIs(t, err, engine.ErrInvalidSuit)

	err = g.HandleAction(Action{ActionType: "action_shuffle"})
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, EventGameRejected, mb.getLastEvent().Type)

	mb.clear()
	require.NoError(t, g.HandleAction(Action{ActionType: ActionSync}))
	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	assert.Equal(t, EventPrivateSyncState, ev.Type)
	assert.Len(t, ev.State.PlayerHand, 6)
}

func TestViewNeverShowsOpponentCards(t *testing.T) {
	g, mb := setupTestGame(t, 0)

	g.SendSyncState()
	ev := mb.getLastEvent()
	require.NotNil(t, ev)
	raw, err := json.Marshal(ev)
	require.NoError(t, err)

	g.Mu.Lock()
	opponent := append([]engine.Card(nil), g.State.OpponentHand...)
	g.Mu.Unlock()
	require.Len(t, opponent, engine.HandSize)
	for _, c := range opponent {
		assert.NotContains(t, string(raw), c.ID.String())
	}
}

// TestScriptedWin plays the whole unshuffled game through the controller:
// the player empties its hand first.
func TestScriptedWin(t *testing.T) {
	g, mb := setupTestGame(t, 0)

	var (
		ended  int
		winner engine.Actor
	)
	g.OnGameEnd = func(id uuid.UUID, w engine.Actor, final engine.View) {
		assert.Equal(t, g.ID, id)
		assert.Equal(t, engine.PhaseGameOver, final.Phase)
		ended++
		winner = w
	}

	for _, r := range []engine.Rank{engine.RankFour, engine.RankSeven, engine.RankSix, engine.RankFive, engine.RankThree} {
		require.NoError(t, g.PlayCard(playerCard(t, g, r).ID))
	}
	require.NoError(t, g.PlayCard(playerCard(t, g, engine.RankEight).ID))
	require.NoError(t, g.SelectSuit(engine.SuitDiamonds))
	require.NoError(t, g.PlayCard(playerCard(t, g, engine.RankTwo).ID))
	assert.Equal(t, 1, g.View().OpponentHandSize)

	require.NoError(t, g.PlayCard(playerCard(t, g, engine.RankAce).ID))

	assert.Equal(t, 1, ended)
	assert.Equal(t, engine.ActorPlayer, winner)

	end := mb.getLastEvent()
	require.NotNil(t, end)
	assert.Equal(t, EventGameEnd, end.Type)
	assert.Equal(t, "You win! 🎉", end.Message)
	require.NotNil(t, end.State.Winner)
	assert.Equal(t, engine.ActorPlayer, *end.State.Winner)

	history := g.History()
	assert.Equal(t, string(EventGameEnd), history[len(history)-1].ActionType)

	assert.ErrorIs(t, g.DrawCard(), engine.ErrWrongPhase)

	require.NoError(t, g.ReturnToLobby())
	assert.Equal(t, EventGameLobby, mb.getLastEvent().Type)
	v := g.View()
	assert.Equal(t, engine.PhaseLobby, v.Phase)
	assert.Empty(t, v.PlayerHand)

	require.NoError(t, g.StartGame())
	assert.Equal(t, engine.PhasePlayerTurn, g.View().Phase)
}
