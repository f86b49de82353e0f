package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Let the computer play a whole game",
	Long: `Creates a game (or picks up one with --game), simulates it to the end and
prints the box score. With --json the full simulation result is printed,
including one snapshot per play.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, _, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		state, err := startOrResume(ctx, cmd, app.Engine)
		if err != nil {
			return err
		}

		res, err := app.Engine.SimulateGame(ctx, state.ID)
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		if showLog, _ := cmd.Flags().GetBool("log"); showLog {
			for _, line := range res.State.PlayLog {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out)
		}
		printBoxScore(cmd, res.State)
		fmt.Fprintf(out, "%d plays. Game ID: %s\n", res.Plays, res.State.ID)
		if res.CeilingReached {
			fmt.Fprintf(out, "Stopped at the play ceiling; run 'ballpark simulate --game %s' to continue.\n", res.State.ID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	addMatchupFlags(simulateCmd.Flags())
	simulateCmd.Flags().String("game", "", "Simulate an existing game instead of starting one")
	simulateCmd.Flags().Bool("json", false, "Print the simulation result as JSON")
	simulateCmd.Flags().Bool("log", false, "Print the play-by-play before the box score")
}
