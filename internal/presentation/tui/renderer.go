package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer(width int) func(string) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)

	return func(markdown string) (string, error) {
		if err != nil {
			return markdown, err
		}
		return r.Render(markdown)
	}
}

// BoxScore renders the line score of a game as a markdown table.
// Half-innings not yet played are blank; a bottom half skipped because the
// home team was ahead shows "X".
func BoxScore(s *domain.GameState) string {
	innings := max(len(s.AwayScore), len(s.HomeScore), domain.RegulationInnings)

	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", headline(s))

	b.WriteString("| |")
	for i := 1; i <= innings; i++ {
		fmt.Fprintf(&b, " %d |", i)
	}
	b.WriteString(" **R** |\n|---|")
	for range innings + 1 {
		b.WriteString("---:|")
	}
	b.WriteString("\n")

	writeRow := func(team string, runs []int, total int, played func(int) bool, skipped func(int) bool) {
		fmt.Fprintf(&b, "| %s |", team)
		for i := 1; i <= innings; i++ {
			switch {
			case skipped(i):
				b.WriteString(" X |")
			case played(i) && i <= len(runs):
				fmt.Fprintf(&b, " %d |", runs[i-1])
			default:
				b.WriteString("  |")
			}
		}
		fmt.Fprintf(&b, " **%d** |\n", total)
	}

	never := func(int) bool { return false }
	writeRow(teamLabel(s.AwayAbbreviation, s.AwayTeam, "Away"), s.AwayScore, s.AwayTotal,
		func(i int) bool { return i <= s.Inning },
		never)
	writeRow(teamLabel(s.HomeAbbreviation, s.HomeTeam, "Home"), s.HomeScore, s.HomeTotal,
		func(i int) bool { return i < s.Inning || (i == s.Inning && !s.IsTop()) },
		func(i int) bool { return s.IsFinal() && !s.IsTop() && i == s.Inning })

	if s.HomePitcher != nil || s.AwayPitcher != nil {
		b.WriteString("\n")
		if s.AwayPitcher != nil {
			fmt.Fprintf(&b, "- **%s** starter: %s\n", teamLabel(s.AwayAbbreviation, s.AwayTeam, "Away"), pitcherLine(s.AwayPitcher))
		}
		if s.HomePitcher != nil {
			fmt.Fprintf(&b, "- **%s** starter: %s\n", teamLabel(s.HomeAbbreviation, s.HomeTeam, "Home"), pitcherLine(s.HomePitcher))
		}
	}
	return b.String()
}

func headline(s *domain.GameState) string {
	away := teamLabel("", s.AwayTeam, "Away")
	home := teamLabel("", s.HomeTeam, "Home")

	if !s.IsFinal() {
		half := "Top"
		if !s.IsTop() {
			half = "Bottom"
		}
		return fmt.Sprintf("%s at %s, %s %d", away, home, half, s.Inning)
	}

	switch {
	case s.HomeTotal > s.AwayTotal:
		return fmt.Sprintf("Final: %s win %d-%d", home, s.HomeTotal, s.AwayTotal)
	case s.AwayTotal > s.HomeTotal:
		return fmt.Sprintf("Final: %s win %d-%d", away, s.AwayTotal, s.HomeTotal)
	}
	return fmt.Sprintf("Final: %d-%d", s.AwayTotal, s.HomeTotal)
}

func teamLabel(abbr, name, def string) string {
	if abbr != "" {
		return abbr
	}
	if name != "" {
		return name
	}
	return def
}

func pitcherLine(p *domain.Pitcher) string {
	if p.Stats == nil {
		return p.Name
	}
	return fmt.Sprintf("%s (%.2f ERA)", p.Name, p.Stats.ERA)
}
