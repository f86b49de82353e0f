package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the teams of the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		teams, err := app.Engine.Teams(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable("ID", "Team", "Abbr", "League")
		for _, team := range teams {
			t.Row(strconv.Itoa(team.ID), team.Name, team.Abbreviation, team.League)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

var pitchersCmd = &cobra.Command{
	Use:   "pitchers <team-id>",
	Short: "List a team's pitchers, best ERA first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid team id %q", args[0])
		}
		season, _ := cmd.Flags().GetInt("season")

		app, _, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		pitchers, err := app.Engine.Pitchers(cmd.Context(), teamID, season)
		if err != nil {
			return err
		}

		t := newTable("ID", "Name", "ERA", "K/9", "BB/9")
		for _, p := range pitchers {
			row := []string{strconv.Itoa(p.ID), p.Name, "-", "-", "-"}
			if p.Stats != nil {
				row[2] = strconv.FormatFloat(p.Stats.ERA, 'f', 2, 64)
				row[3] = strconv.FormatFloat(p.Stats.KPer9, 'f', 1, 64)
				row[4] = strconv.FormatFloat(p.Stats.BBPer9, 'f', 1, 64)
			}
			t.Row(row...)
		}
		fmt.Fprintln(cmd.OutOrStdout(), t)
		return nil
	},
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#5F5F87"))).
		Headers(headers...)
}

func init() {
	rootCmd.AddCommand(teamsCmd)
	teamsCmd.AddCommand(pitchersCmd)
	pitchersCmd.Flags().Int("season", 0, "Season (default 2024)")
}
