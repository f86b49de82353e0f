package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Game is the part of the game service the play screen drives.
type Game interface {
	ProcessPitch(ctx context.Context, gameID string, pitch domain.PitchType) (*domain.GameState, error)
	ProcessAtBat(ctx context.Context, gameID string, action domain.BatAction) (*domain.GameState, error)
	SimulateGame(ctx context.Context, gameID string) (*domain.SimulationResult, error)
}

type keyMap struct {
	Fastball  key.Binding
	Curveball key.Binding
	Slider    key.Binding
	Changeup  key.Binding
	Swing     key.Binding
	Take      key.Binding
	Auto      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Fastball:  key.NewBinding(key.WithKeys("f", "1"), key.WithHelp("f", "fastball")),
	Curveball: key.NewBinding(key.WithKeys("c", "2"), key.WithHelp("c", "curveball")),
	Slider:    key.NewBinding(key.WithKeys("s", "3"), key.WithHelp("s", "slider")),
	Changeup:  key.NewBinding(key.WithKeys("x", "4"), key.WithHelp("x", "changeup")),
	Swing:     key.NewBinding(key.WithKeys("w", " "), key.WithHelp("w", "swing")),
	Take:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "take")),
	Auto:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "simulate the rest")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(0, 1)

	lastPlayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))
)

type stateMsg struct {
	state *domain.GameState
	err   error
}

// Model is the bubbletea model of an interactive game.
type Model struct {
	ctx   context.Context
	game  Game
	state *domain.GameState

	log  viewport.Model
	help help.Model

	busy   bool
	err    error
	width  int
	height int
}

// NewModel builds the play screen for an existing game.
func NewModel(ctx context.Context, game Game, state *domain.GameState) Model {
	vp := viewport.New(60, 12)
	m := Model{
		ctx:   ctx,
		game:  game,
		state: state,
		log:   vp,
		help:  help.New(),
	}
	m.refreshLog()
	return m
}

// State returns the latest game state seen by the model.
func (m Model) State() *domain.GameState { return m.state }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.busy || m.state.IsFinal() {
			return m, nil
		}
		if cmd := m.command(msg); cmd != nil {
			m.busy = true
			m.err = nil
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.log.Width = max(msg.Width-4, 20)
		m.log.Height = max(msg.Height-12, 5)
		m.refreshLog()

	case stateMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.state = msg.state
		m.refreshLog()
	}

	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	return m, cmd
}

// command maps a key to a game action valid for the player's current role.
func (m Model) command(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Auto) {
		return m.simulate()
	}

	if m.state.Role == domain.RolePitching {
		for binding, pitch := range map[*key.Binding]domain.PitchType{
			&keys.Fastball:  domain.PitchFastball,
			&keys.Curveball: domain.PitchCurveball,
			&keys.Slider:    domain.PitchSlider,
			&keys.Changeup:  domain.PitchChangeup,
		} {
			if key.Matches(msg, *binding) {
				return m.pitch(pitch)
			}
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Swing):
		return m.bat(domain.ActionSwing)
	case key.Matches(msg, keys.Take):
		return m.bat(domain.ActionTake)
	}
	return nil
}

func (m Model) pitch(p domain.PitchType) tea.Cmd {
	return func() tea.Msg {
		state, err := m.game.ProcessPitch(m.ctx, m.state.ID, p)
		return stateMsg{state, err}
	}
}

func (m Model) bat(a domain.BatAction) tea.Cmd {
	return func() tea.Msg {
		state, err := m.game.ProcessAtBat(m.ctx, m.state.ID, a)
		return stateMsg{state, err}
	}
}

func (m Model) simulate() tea.Cmd {
	return func() tea.Msg {
		res, err := m.game.SimulateGame(m.ctx, m.state.ID)
		if err != nil {
			return stateMsg{err: err}
		}
		if res.CeilingReached {
			return stateMsg{state: res.State, err: errors.New("simulation stopped at the play ceiling, press a to continue")}
		}
		return stateMsg{state: res.State}
	}
}

func (m *Model) refreshLog() {
	m.log.SetContent(strings.Join(m.state.PlayLog, "\n"))
	m.log.GotoBottom()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(headline(m.state)))
	b.WriteString("\n")
	b.WriteString(boardStyle.Render(Scoreboard(m.state)))
	b.WriteString("\n")
	b.WriteString(m.log.View())
	b.WriteString("\n\n")

	if m.state.LastPlay != "" {
		b.WriteString(lastPlayStyle.Render(m.state.LastPlay))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(m.bindings()))
	return b.String()
}

func (m Model) bindings() []key.Binding {
	switch {
	case m.state.IsFinal():
		return []key.Binding{keys.Quit}
	case m.state.Role == domain.RolePitching:
		return []key.Binding{keys.Fastball, keys.Curveball, keys.Slider, keys.Changeup, keys.Auto, keys.Quit}
	}
	return []key.Binding{keys.Swing, keys.Take, keys.Auto, keys.Quit}
}

// Scoreboard is the compact situation panel: count, outs, bases and score.
func Scoreboard(s *domain.GameState) string {
	bases := func(on bool) string {
		if on {
			return "◆"
		}
		return "◇"
	}
	diamond := fmt.Sprintf("  %s\n%s   %s", bases(s.Bases[1]), bases(s.Bases[2]), bases(s.Bases[0]))

	situation := fmt.Sprintf("B %d  S %d  O %d\nYou are %s", s.Balls, s.Strikes, s.Outs, s.Role)
	if s.IsFinal() {
		situation = "Game over"
	} else if s.CurrentBatterName != "" {
		situation += "\nAt bat: " + s.CurrentBatterName
	}

	score := fmt.Sprintf("%-4s %2d\n%-4s %2d",
		teamLabel(s.AwayAbbreviation, "", "AWY"), s.AwayTotal,
		teamLabel(s.HomeAbbreviation, "", "HOME"), s.HomeTotal)

	return lipgloss.JoinHorizontal(lipgloss.Top, score, "    ", diamond, "    ", situation)
}

// Play runs the interactive screen until the player quits and returns the last state.
func Play(ctx context.Context, game Game, state *domain.GameState, opts ...tea.ProgramOption) (*domain.GameState, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(NewModel(ctx, game, state), opts...).Run()
	if m, ok := final.(Model); ok {
		return m.State(), err
	}
	return state, err
}
