package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Manage stored games",
	Long: `List, inspect, and remove games kept in the configured store.
The memory store forgets games on exit; use --store file, redis or postgres.`,
}

var gameLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored games",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		ids, err := app.Engine.ListGames(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing games: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No games found.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var gameInspectCmd = &cobra.Command{
	Use:   "inspect <game-id>",
	Short: "Print the state of a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		state, err := app.Engine.GetGame(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading game '%s': %w", args[0], err)
		}

		if box, _ := cmd.Flags().GetBool("box"); box {
			printBoxScore(cmd, state)
			return nil
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var gameRmCmd = &cobra.Command{
	Use:   "rm <game-id>...",
	Short: "Remove one or more games",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		out := cmd.OutOrStdout()
		failed := 0
		for _, id := range args {
			if err := app.Engine.DeleteGame(cmd.Context(), id); err != nil {
				fmt.Fprintf(out, "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "Removed game '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d games could not be removed", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gameCmd)
	gameCmd.AddCommand(gameLsCmd)
	gameCmd.AddCommand(gameInspectCmd)
	gameCmd.AddCommand(gameRmCmd)
	gameInspectCmd.Flags().Bool("box", false, "Print the box score instead of JSON")
}
