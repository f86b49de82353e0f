package tui

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/ballpark"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/probability"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the model and resolves the command it returns, if any.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	if res, ok := cmd().(stateMsg); ok {
		next, _ = m.Update(res)
		m = next.(Model)
	}
	return m
}

func newGame(t *testing.T) (*ballpark.Engine, *domain.GameState) {
	t.Helper()
	eng := ballpark.New(ballpark.WithSource(probability.NewSeededSource(21)))
	state, err := eng.CreateGame(context.Background(), domain.NewGameRequest{})
	require.NoError(t, err)
	return eng, state
}

func TestModel_PitchKeys(t *testing.T) {
	eng, state := newGame(t)
	m := NewModel(context.Background(), eng, state)

	m = send(t, m, runes("c"))
	assert.False(t, m.busy)
	require.GreaterOrEqual(t, len(m.State().PlayLog), 2)
	assert.Contains(t, m.State().PlayLog[1], "You throw a curveball.")
	lines := len(m.State().PlayLog)

	// Batting keys do nothing while pitching.
	m = send(t, m, runes("w"))
	assert.Len(t, m.State().PlayLog, lines)

	view := m.View()
	assert.Contains(t, view, "fastball")
	assert.Contains(t, view, "You are pitching")
	assert.Contains(t, view, m.State().LastPlay)
}

func TestModel_BatKeysWhenBatting(t *testing.T) {
	eng, state := newGame(t)
	m := NewModel(context.Background(), eng, state)

	for m.State().Role == domain.RolePitching {
		m = send(t, m, runes("f"))
	}
	before := len(m.State().PlayLog)

	m = send(t, m, runes("t"))
	assert.Greater(t, len(m.State().PlayLog), before)
	assert.Contains(t, m.View(), "swing")
}

func TestModel_Autoplay(t *testing.T) {
	eng, state := newGame(t)
	m := NewModel(context.Background(), eng, state)

	for range 5 {
		if m.State().IsFinal() {
			break
		}
		m = send(t, m, runes("a"))
	}
	require.True(t, m.State().IsFinal())
	assert.NoError(t, m.err)
	assert.Contains(t, m.View(), "Game over")

	// Game keys are ignored once the game is over.
	m = send(t, m, runes("f"))
	assert.True(t, m.State().IsFinal())
}

func TestModel_ErrorIsShown(t *testing.T) {
	eng, state := newGame(t)
	m := NewModel(context.Background(), eng, state)
	require.NoError(t, eng.DeleteGame(context.Background(), state.ID))

	m = send(t, m, runes("f"))
	assert.ErrorIs(t, m.err, domain.ErrGameNotFound)
	assert.Contains(t, m.View(), "Error: ")
}

func TestModel_Quit(t *testing.T) {
	_, state := newGame(t)
	m := NewModel(context.Background(), nil, state)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBoxScore(t *testing.T) {
	s := domain.NewGameState("g")
	s.AwayAbbreviation, s.HomeAbbreviation = "STL", "CHC"
	s.AwayTeam, s.HomeTeam = "St. Louis Cardinals", "Chicago Cubs"
	s.Inning = 2
	s.Half = domain.HalfBottom
	s.AwayScore[0], s.AwayScore[1] = 1, 2
	s.AwayTotal = 3

	md := BoxScore(s)
	assert.Contains(t, md, "St. Louis Cardinals at Chicago Cubs, Bottom 2")
	assert.Contains(t, md, "| STL | 1 | 2 |  |")
	assert.Contains(t, md, "| CHC | 0 | 0 |  |")
	assert.Contains(t, md, "**3**")
}

func TestBoxScore_SkippedBottomHalf(t *testing.T) {
	s := domain.NewGameState("g")
	s.Inning = 9
	s.Half = domain.HalfBottom
	s.Status = domain.StatusFinal
	s.HomeScore[3] = 2
	s.HomeTotal = 2

	md := BoxScore(s)
	assert.Contains(t, md, "Final: Home win 2-0")
	assert.Contains(t, md, "| Home | 0 | 0 | 0 | 2 | 0 | 0 | 0 | 0 | X | **2** |")
}

func TestBoxScore_Pitchers(t *testing.T) {
	s := domain.NewGameState("g")
	s.HomePitcher = &domain.Pitcher{Name: "Zach Kato", Stats: &domain.PitchingStats{ERA: 4.19}}
	s.AwayPitcher = &domain.Pitcher{Name: "Frank Jensen"}

	md := BoxScore(s)
	assert.Contains(t, md, "- **Home** starter: Zach Kato (4.19 ERA)")
	assert.Contains(t, md, "- **Away** starter: Frank Jensen\n")
}

func TestRenderer(t *testing.T) {
	render := NewRenderer(80)
	out, err := render(BoxScore(domain.NewGameState("g")))
	require.NoError(t, err)
	assert.Contains(t, out, "Away at Home")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|____/")
}
