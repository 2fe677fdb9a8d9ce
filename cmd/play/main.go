// Interactive terminal player for a single board file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"boulderdash/game"
)

type model struct {
	board  string
	params game.GameParameters
	state  *game.GameState
	ticks  int
	status string
	err    error
}

func newModel(board string, params game.GameParameters) (model, error) {
	state, err := game.NewGameState(board, params)
	if err != nil {
		return model{}, err
	}
	return model{
		board:  board,
		params: params,
		state:  state,
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		fresh, err := game.NewGameState(m.board, m.params)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.state = fresh
		m.ticks = 0
		m.status = "restarted"
		return m, nil
	}

	if m.state.IsTerminal() {
		m.status = "episode over, press r to restart"
		return m, nil
	}

	var action game.Action
	switch keyMsg.String() {
	case "up", "k":
		action = game.ActionUp
	case "right", "l":
		action = game.ActionRight
	case "down", "j":
		action = game.ActionDown
	case "left", "h":
		action = game.ActionLeft
	default:
		return m, nil
	}

	if err := m.state.ApplyAction(action); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.ticks++
	m.status = ""
	if m.state.IsSolution() {
		m.status = "you made it out!"
	} else if !m.state.AgentAlive() {
		m.status = "you died, press r to restart"
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.state.String())
	fmt.Fprintf(&b, "ticks: %d  gems: %d/%d  hash: %016x\n",
		m.ticks, m.state.GemsCollected(), m.state.GemsRequired(), m.state.Hash())
	if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("\narrows/hjkl to move, r to restart, q to quit\n")
	return b.String()
}

func main() {
	boardFile := flag.String("board", "", "Path to a board specification file")
	gravity := flag.Bool("gravity", true, "Enable gravity for stones/gems")
	flag.Parse()

	if *boardFile == "" {
		log.Fatal("-board is required")
	}
	raw, err := os.ReadFile(*boardFile)
	if err != nil {
		log.Fatalf("read board: %v", err)
	}

	params := game.DefaultParameters()
	params.Gravity = *gravity

	m, err := newModel(strings.TrimSpace(string(raw)), params)
	if err != nil {
		log.Fatalf("load board: %v", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		log.Fatal(err)
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		log.Fatalf("game error: %v", fm.err)
	}
}
