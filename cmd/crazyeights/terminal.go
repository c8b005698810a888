package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	engine "github.com/jason-s-yu/crazyeights/engine"
	"github.com/jason-s-yu/crazyeights/internal/game"
)

var errQuit = errors.New("quit")

const helpText = `start          deal a new game
play <n>       play card n from your hand
draw           draw a card and pass
suit <h|d|c|s> name the suit after an eight
lobby          leave a finished game
show           redraw the table
quit           exit`

// parseCommand turns one input line into an action. Card numbers are
// 1-based as shown on screen.
func parseCommand(line string) (game.Action, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return game.Action{}, fmt.Errorf("empty command")
	}

	switch fields[0] {
	case "start", "new":
		return game.Action{ActionType: game.ActionStart}, nil
	case "draw", "d":
		return game.Action{ActionType: game.ActionDraw}, nil
	case "lobby":
		return game.Action{ActionType: game.ActionLobby}, nil
	case "show", "sync":
		return game.Action{ActionType: game.ActionSync}, nil
	case "quit", "exit", "q":
		return game.Action{}, errQuit
	case "play", "p":
		if len(fields) != 2 {
			return game.Action{}, fmt.Errorf("usage: play <n>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return game.Action{}, fmt.Errorf("not a card number: %q", fields[1])
		}
		return game.Action{ActionType: game.ActionPlay, Payload: map[string]interface{}{"idx": n - 1}}, nil
	case "suit", "s":
		if len(fields) != 2 {
			return game.Action{}, fmt.Errorf("usage: suit <h|d|c|s>")
		}
		suit, err := engine.ParseSuit(fields[1])
		if err != nil {
			return game.Action{}, err
		}
		return game.Action{ActionType: game.ActionSelectSuit, Payload: map[string]interface{}{"suit": suit.Letter()}}, nil
	}
	return game.Action{}, fmt.Errorf("unknown command %q (try help)", fields[0])
}

// cardLabel colours red suits the way a printed deck does.
func cardLabel(c engine.Card) string {
	if c.Suit.IsRed() {
		return pterm.LightRed(c.String())
	}
	return pterm.White(c.String())
}

func renderEvent(ev game.GameEvent) {
	switch ev.Type {
	case game.EventGameRejected:
		msg := ev.Message
		if msg == "" {
			msg = ev.Error
		}
		pterm.Error.Println(msg)
		return
	case game.EventGameEnd:
		pterm.Success.Println(ev.Message)
	case game.EventPlayerPlay:
		// the follow-up opponent or suit prompt event says the rest
		if ev.Card != nil {
			pterm.Info.Printfln("You played %s.", cardLabel(*ev.Card))
		}
		if ev.State != nil && ev.State.Phase == engine.PhaseGameOver {
			return
		}
		if ev.State != nil && ev.State.Phase == engine.PhaseOpponentTurn {
			pterm.Info.Println(ev.Message)
		}
		return
	default:
		pterm.Info.Println(ev.Message)
	}

	if ev.State == nil {
		return
	}
	switch ev.State.Phase {
	case engine.PhasePlayerTurn, engine.PhaseSelectingSuit, engine.PhaseGameOver:
		renderTable(*ev.State)
	}
}

func renderTable(v engine.View) {
	pterm.DefaultSection.Println("Table")

	top, active := "-", "-"
	if v.TopCard != nil {
		top = cardLabel(*v.TopCard)
	}
	if v.ActiveSuit != nil {
		active = v.ActiveSuit.String()
	}
	pterm.Printfln("Top: %s   Active suit: %s   Deck: %d   Opponent holds: %d",
		top, active, v.DeckSize, v.OpponentHandSize)

	if len(v.PlayerHand) == 0 {
		return
	}
	data := pterm.TableData{{"#", "Card", ""}}
	for i, c := range v.PlayerHand {
		mark := ""
		if c.Playable {
			mark = "playable"
		}
		data = append(data, []string{strconv.Itoa(i + 1), cardLabel(c.Card), mark})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		pterm.Error.Println(err)
	}
}

// runTerminal plays one session on the terminal until quit or EOF.
func runTerminal(ctx context.Context, g *game.CrazyEightsGame, in io.Reader) error {
	events := make(chan game.GameEvent, 64)
	g.BroadcastFn = func(ev game.GameEvent) {
		select {
		case events <- ev:
		default:
		}
	}
	defer g.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case ev := <-events:
				renderEvent(ev)
			case <-done:
				return
			}
		}
	}()

	pterm.DefaultHeader.WithFullWidth().Println("Crazy Eights")
	pterm.Println(helpText)
	pterm.Info.Println(g.Message())

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			lines <- sc.Text()
		}
		scanErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-scanErr:
			return err
		case line := <-lines:
			if strings.TrimSpace(line) == "help" {
				pterm.Println(helpText)
				continue
			}
			action, err := parseCommand(line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				pterm.Warning.Println(err)
				continue
			}
			// Refusals arrive as game_rejected events.
			_ = g.HandleAction(action)
		}
	}
}
