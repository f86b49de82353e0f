package mlbstats

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/stats"
	"golang.org/x/sync/errgroup"
)

// ListTeams returns all major league teams sorted by name. The list is cached.
func (c *Client) ListTeams(ctx context.Context) ([]domain.Team, error) {
	c.mu.Lock()
	if c.teams != nil && time.Since(c.teamsAt) < c.teamsTTL {
		teams := append([]domain.Team(nil), c.teams...)
		c.mu.Unlock()
		return teams, nil
	}
	c.mu.Unlock()

	var resp teamsResponse
	if err := c.get(ctx, "/api/v1/teams", url.Values{"sportId": {"1"}}, &resp); err != nil {
		return nil, err
	}

	teams := make([]domain.Team, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		teams = append(teams, domain.Team{
			ID:           t.ID,
			Name:         t.Name,
			Abbreviation: t.Abbreviation,
			League:       leagueFor(t.League.Name),
		})
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })

	c.mu.Lock()
	c.teams, c.teamsAt = teams, time.Now()
	c.mu.Unlock()
	return append([]domain.Team(nil), teams...), nil
}

// Team finds one team in the team list.
func (c *Client) Team(ctx context.Context, teamID int) (domain.Team, error) {
	teams, err := c.ListTeams(ctx)
	if err != nil {
		return domain.Team{}, err
	}
	for _, t := range teams {
		if t.ID == teamID {
			return t, nil
		}
	}
	return domain.Team{}, fmt.Errorf("%w: %d", domain.ErrTeamNotFound, teamID)
}

// RandomOpponent draws any team other than excludeTeamID.
func (c *Client) RandomOpponent(ctx context.Context, excludeTeamID int) (domain.Team, error) {
	teams, err := c.ListTeams(ctx)
	if err != nil {
		return domain.Team{}, err
	}
	opponents := teams[:0]
	for _, t := range teams {
		if t.ID != excludeTeamID {
			opponents = append(opponents, t)
		}
	}
	if len(opponents) == 0 {
		return domain.Team{}, fmt.Errorf("%w: no opponent for team %d", domain.ErrTeamNotFound, excludeTeamID)
	}
	return opponents[c.src.IntN(len(opponents))], nil
}

// Lineup fetches the active roster and builds a nine-man order from its hitters.
func (c *Client) Lineup(ctx context.Context, teamID, season int) ([]domain.Batter, error) {
	roster, err := c.roster(ctx, teamID, season)
	if err != nil {
		return nil, err
	}

	var hitters []domain.Batter
	for _, e := range roster {
		if e.isPitcher() {
			continue
		}
		hitters = append(hitters, domain.Batter{
			ID:       e.Person.ID,
			Name:     nameOr(e.Person.FullName),
			Position: e.Position.Abbreviation,
		})
	}

	err = c.each(ctx, len(hitters), func(ctx context.Context, i int) error {
		s := c.battingStats(ctx, hitters[i].ID, season)
		hitters[i].Stats = &s
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return stats.BuildLineup(hitters), nil
}

// Pitchers fetches the active staff with season stats, best ERA first.
func (c *Client) Pitchers(ctx context.Context, teamID, season int) ([]domain.Pitcher, error) {
	roster, err := c.roster(ctx, teamID, season)
	if err != nil {
		return nil, err
	}

	var staff []domain.Pitcher
	for _, e := range roster {
		if !e.isPitcher() {
			continue
		}
		pos := e.Position.Abbreviation
		if pos == "" {
			pos = "P"
		}
		staff = append(staff, domain.Pitcher{ID: e.Person.ID, Name: nameOr(e.Person.FullName), Position: pos})
	}

	err = c.each(ctx, len(staff), func(ctx context.Context, i int) error {
		s := c.pitchingStats(ctx, staff[i].ID, season)
		staff[i].Stats = &s
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return stats.SortPitchers(staff), nil
}

// StartingPitcher returns the requested pitcher, or the staff ace.
func (c *Client) StartingPitcher(ctx context.Context, teamID, season, pitcherID int) (domain.Pitcher, error) {
	staff, err := c.Pitchers(ctx, teamID, season)
	if err != nil {
		return domain.Pitcher{}, err
	}
	return stats.ChoosePitcher(staff, pitcherID), nil
}

func (c *Client) roster(ctx context.Context, teamID, season int) ([]rosterEntry, error) {
	var resp rosterResponse
	path := "/api/v1/teams/" + strconv.Itoa(teamID) + "/roster"
	query := url.Values{"rosterType": {"active"}, "season": {strconv.Itoa(season)}}
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	return resp.Roster, nil
}

// battingStats returns the season line, or league averages when the player
// has fewer than stats.MinAtBats or the request fails.
func (c *Client) battingStats(ctx context.Context, playerID, season int) domain.BattingStats {
	league := domain.LeagueBatting()
	line, ok := c.seasonLine(ctx, playerID, season, "hitting")
	if !ok || line.AtBats < stats.MinAtBats {
		return league
	}

	out := domain.BattingStats{
		AVG:    number(line.Avg, league.AVG),
		SLG:    number(line.Slg, league.SLG),
		KRate:  league.KRate,
		HRRate: float64(line.HomeRuns) / float64(line.AtBats),
	}
	if line.PlateAppearances > 0 {
		out.KRate = float64(line.StrikeOuts) / float64(line.PlateAppearances)
	}
	return out
}

// pitchingStats returns the season line, or league averages below
// stats.MinInningsPitched or on failure.
func (c *Client) pitchingStats(ctx context.Context, playerID, season int) domain.PitchingStats {
	league := domain.LeaguePitching()
	line, ok := c.seasonLine(ctx, playerID, season, "pitching")
	if !ok || innings(line.InningsPitched) < stats.MinInningsPitched {
		return league
	}
	return domain.PitchingStats{
		ERA:    number(line.Era, league.ERA),
		KPer9:  number(line.StrikeoutsPer9Inn, league.KPer9),
		BBPer9: number(line.WalksPer9Inn, league.BBPer9),
	}
}

func (c *Client) seasonLine(ctx context.Context, playerID, season int, group string) (statLine, bool) {
	if playerID == 0 {
		return statLine{}, false
	}

	var resp statsResponse
	path := "/api/v1/people/" + strconv.Itoa(playerID) + "/stats"
	query := url.Values{
		"stats":   {"season"},
		"group":   {group},
		"season":  {strconv.Itoa(season)},
		"sportId": {"1"},
	}
	if err := c.get(ctx, path, query, &resp); err != nil {
		c.logger.Debug("player stats unavailable, using league averages",
			"player_id", playerID,
			"group", group,
			"err", err,
		)
		return statLine{}, false
	}

	want := strconv.Itoa(season)
	for _, st := range resp.Stats {
		if st.Group.DisplayName != group {
			continue
		}
		for _, split := range st.Splits {
			if split.Season == want {
				return split.Stat, true
			}
		}
	}
	return statLine{}, false
}

// each runs fn for 0..n-1 with at most c.concurrency calls in flight.
// No call starts once ctx is done or a call has failed; the first error wins.
func (c *Client) each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func nameOr(name string) string {
	if name == "" {
		return "Unknown"
	}
	return name
}
