package game

import engine "github.com/jason-s-yu/crazyeights/engine"

// View returns the presentation projection of the current state. The
// opponent's cards are never part of it.
func (g *CrazyEightsGame) View() engine.View {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.State.View()
}

// SendSyncState broadcasts the full view, e.g. to a freshly connected client.
func (g *CrazyEightsGame) SendSyncState() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.sendSyncState()
}

// sendSyncState assumes lock is held by caller.
func (g *CrazyEightsGame) sendSyncState() {
	view := g.State.View()
	g.fireEvent(GameEvent{
		Type:    EventPrivateSyncState,
		Message: g.catalog.Status(g.State.Status),
		State:   &view,
	})
}
