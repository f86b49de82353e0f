package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/probability"
	"github.com/aretw0/ballpark/pkg/stats"
)

// Roster is one team's players for a season. Season 0 applies to every
// season without a roster of its own.
type Roster struct {
	Team     domain.Team
	Season   int
	Batters  []domain.Batter
	Pitchers []domain.Pitcher
}

type rosterKey struct {
	team   int
	season int
}

// Provider implements ports.DataProvider from rosters held in memory.
// Safe for concurrent use.
type Provider struct {
	mu      sync.RWMutex
	teams   map[int]domain.Team
	rosters map[rosterKey]Roster
	src     probability.Source
}

// ProviderOption configures the Provider.
type ProviderOption func(*Provider)

// WithSource sets the random source used to draw opponents.
func WithSource(src probability.Source) ProviderOption {
	return func(p *Provider) {
		p.src = src
	}
}

// NewProvider creates a provider serving the given rosters.
func NewProvider(rosters []Roster, opts ...ProviderOption) (*Provider, error) {
	p := &Provider{
		teams:   make(map[int]domain.Team),
		rosters: make(map[rosterKey]Roster),
		src:     probability.DefaultSource(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, r := range rosters {
		if err := p.Add(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Add registers a roster, replacing any previous one for the same team and season.
func (p *Provider) Add(r Roster) error {
	if r.Team.ID == 0 {
		return fmt.Errorf("roster for %q missing team id", r.Team.Name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.teams[r.Team.ID] = r.Team
	p.rosters[rosterKey{r.Team.ID, r.Season}] = r
	return nil
}

// ListTeams returns every team sorted by name.
func (p *Provider) ListTeams(ctx context.Context) ([]domain.Team, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	teams := make([]domain.Team, 0, len(p.teams))
	for _, t := range p.teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

// Team returns one team.
func (p *Provider) Team(ctx context.Context, teamID int) (domain.Team, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	t, ok := p.teams[teamID]
	if !ok {
		return domain.Team{}, fmt.Errorf("%w: %d", domain.ErrTeamNotFound, teamID)
	}
	return t, nil
}

// Lineup builds the batting order from the season's roster.
func (p *Provider) Lineup(ctx context.Context, teamID, season int) ([]domain.Batter, error) {
	r, err := p.roster(teamID, season)
	if err != nil {
		return nil, err
	}
	return stats.BuildLineup(r.Batters), nil
}

// Pitchers returns the season's staff, best ERA first.
func (p *Provider) Pitchers(ctx context.Context, teamID, season int) ([]domain.Pitcher, error) {
	r, err := p.roster(teamID, season)
	if err != nil {
		return nil, err
	}
	return stats.SortPitchers(r.Pitchers), nil
}

// StartingPitcher returns the requested pitcher or the staff ace.
func (p *Provider) StartingPitcher(ctx context.Context, teamID, season, pitcherID int) (domain.Pitcher, error) {
	staff, err := p.Pitchers(ctx, teamID, season)
	if err != nil {
		return domain.Pitcher{}, err
	}
	return stats.ChoosePitcher(staff, pitcherID), nil
}

// RandomOpponent draws any team other than excludeTeamID.
func (p *Provider) RandomOpponent(ctx context.Context, excludeTeamID int) (domain.Team, error) {
	teams, err := p.ListTeams(ctx)
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
	return opponents[p.src.IntN(len(opponents))], nil
}

// roster finds the season roster, then the any-season roster. A known team
// without players gets an empty roster, which lineups pad with placeholders.
func (p *Provider) roster(teamID, season int) (Roster, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	team, ok := p.teams[teamID]
	if !ok {
		return Roster{}, fmt.Errorf("%w: %d", domain.ErrTeamNotFound, teamID)
	}
	if r, ok := p.rosters[rosterKey{teamID, season}]; ok {
		return r, nil
	}
	if r, ok := p.rosters[rosterKey{teamID, 0}]; ok {
		return r, nil
	}
	return Roster{Team: team, Season: season}, nil
}
