package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/ballpark/internal/presentation/tui"
	"github.com/aretw0/ballpark/pkg/domain"
)

// commands maps line input to game actions. Single letters match the TUI keys.
var (
	pitchCommands = map[string]domain.PitchType{
		"f": domain.PitchFastball, "fastball": domain.PitchFastball,
		"c": domain.PitchCurveball, "curveball": domain.PitchCurveball,
		"s": domain.PitchSlider, "slider": domain.PitchSlider,
		"x": domain.PitchChangeup, "changeup": domain.PitchChangeup,
	}
	batCommands = map[string]domain.BatAction{
		"w": domain.ActionSwing, "swing": domain.ActionSwing,
		"t": domain.ActionTake, "take": domain.ActionTake,
	}
)

// PlayLines runs a game over plain line input, for pipes and dumb terminals.
// It returns when the game ends, the player quits or in is exhausted.
func PlayLines(ctx context.Context, game tui.Game, state *domain.GameState, in io.Reader, out io.Writer) (*domain.GameState, error) {
	scanner := bufio.NewScanner(in)
	shown := len(state.PlayLog)

	for _, line := range state.PlayLog {
		fmt.Fprintln(out, line)
	}

	for !state.IsFinal() {
		fmt.Fprintf(out, "\n%s\n%s > ", tui.Scoreboard(state), prompt(state))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return state, scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		next, err := step(ctx, game, state, input)
		if errors.Is(err, errQuit) {
			return state, nil
		}
		if err != nil {
			if next == nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "%v\n", err)
		}
		if next == nil {
			continue
		}

		state = next
		if len(state.PlayLog) < shown {
			shown = 0
		}
		for _, line := range state.PlayLog[shown:] {
			fmt.Fprintln(out, line)
		}
		if len(state.PlayLog) == shown {
			// Out-of-role input only changes the last play.
			fmt.Fprintln(out, state.LastPlay)
		}
		shown = len(state.PlayLog)
	}

	return state, nil
}

var errQuit = errors.New("quit")

func step(ctx context.Context, game tui.Game, state *domain.GameState, input string) (*domain.GameState, error) {
	switch input {
	case "":
		return nil, nil
	case "q", "quit", "exit":
		return nil, errQuit
	case "a", "auto", "simulate":
		res, err := game.SimulateGame(ctx, state.ID)
		if err != nil {
			return nil, err
		}
		if res.CeilingReached {
			return res.State, fmt.Errorf("simulation stopped after %d plays, type a to continue", res.Plays)
		}
		return res.State, nil
	}

	if pitch, ok := pitchCommands[input]; ok {
		return game.ProcessPitch(ctx, state.ID, pitch)
	}
	if action, ok := batCommands[input]; ok {
		return game.ProcessAtBat(ctx, state.ID, action)
	}
	return nil, fmt.Errorf("unknown command %q (%s)", input, prompt(state))
}

func prompt(s *domain.GameState) string {
	if s.Role == domain.RolePitching {
		return "pitch: [f]astball [c]urveball [s]lider change[x] | [a]uto [q]uit"
	}
	return "bat: s[w]ing [t]ake | [a]uto [q]uit"
}
