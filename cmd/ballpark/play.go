package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/ballpark/internal/cli"
	"github.com/aretw0/ballpark/internal/presentation/tui"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game in the terminal",
	Long: `Starts a new game (or resumes one with --game) and plays it interactively.
On a terminal this opens the full-screen scoreboard; with piped input it
reads one command per line.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, _, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		state, err := startOrResume(ctx, cmd, app.Engine)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		plain, _ := cmd.Flags().GetBool("plain")
		if plain || !isTerminal() {
			final, err := cli.PlayLines(ctx, app.Engine, state, cmd.InOrStdin(), out)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\nGame ID: %s\n", final.ID)
			return nil
		}

		tui.PrintBanner(out)
		final, err := tui.Play(ctx, app.Engine, state)
		if err != nil {
			return err
		}
		printBoxScore(cmd, final)
		fmt.Fprintf(out, "Game ID: %s\n", final.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(playCmd)
	addMatchupFlags(playCmd.Flags())
	playCmd.Flags().String("game", "", "Resume an existing game instead of starting one")
	playCmd.Flags().Bool("plain", false, "Read line commands even on a terminal")
}

func addMatchupFlags(fs *pflag.FlagSet) {
	fs.Int("team", 0, "Your team ID (see 'ballpark teams'); omit for generic lineups")
	fs.Int("season", 0, "Season of your roster (default 2024)")
	fs.Int("opponent", 0, "Opponent team ID; random when omitted")
	fs.Int("opponent-season", 0, "Season of the opponent roster (default: --season)")
	fs.Int("pitcher", 0, "Your starting pitcher ID; defaults to the best ERA")
	fs.Int("opponent-pitcher", 0, "Opponent starting pitcher ID; defaults to the best ERA")
}

func matchupRequest(fs *pflag.FlagSet) domain.NewGameRequest {
	get := func(name string) int {
		v, _ := fs.GetInt(name)
		return v
	}
	return domain.NewGameRequest{
		TeamID:        get("team"),
		Season:        get("season"),
		AwayTeamID:    get("opponent"),
		AwaySeason:    get("opponent-season"),
		HomePitcherID: get("pitcher"),
		AwayPitcherID: get("opponent-pitcher"),
	}
}

type gameStarter interface {
	CreateGame(ctx context.Context, req domain.NewGameRequest) (*domain.GameState, error)
	GetGame(ctx context.Context, gameID string) (*domain.GameState, error)
}

func startOrResume(ctx context.Context, cmd *cobra.Command, games gameStarter) (*domain.GameState, error) {
	if id, _ := cmd.Flags().GetString("game"); id != "" {
		state, err := games.GetGame(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("error loading game '%s': %w", id, err)
		}
		return state, nil
	}
	return games.CreateGame(ctx, matchupRequest(cmd.Flags()))
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// printBoxScore renders the line score with glamour on a terminal and as
// plain markdown otherwise.
func printBoxScore(cmd *cobra.Command, s *domain.GameState) {
	md := tui.BoxScore(s)
	if !isTerminal() {
		fmt.Fprintln(cmd.OutOrStdout(), md)
		return
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width = 80
	}
	out, err := tui.NewRenderer(width)(md)
	if err != nil {
		out = md
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
}
