package roster_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/ballpark/pkg/adapters/roster"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = `
teams:
  - id: 1
    name: River Cats
    abbreviation: RVC
    league: AL
    season: 2024
    batters:
      - id: 11
        name: Power Bat
        position: 1B
        stats: {avg: .290, slg: ".610", hr_rate: 0.07}
      - id: 12
        name: Glove Only
        position: SS
    pitchers:
      - id: 21
        name: Closer
        position: RP
        stats: {era: 2.10}
      - id: 22
        name: Workhorse
        stats: {era: 3.40, k_per_9: 9, bb_per_9: 2.5}
  - id: 2
    name: Harbor Dogs
    abbreviation: HBD
`

func TestParse_DecodesStatsOverDefaults(t *testing.T) {
	p, err := roster.Parse([]byte(book))
	require.NoError(t, err)
	ctx := context.Background()

	lineup, err := p.Lineup(ctx, 1, 2024)
	require.NoError(t, err)
	require.Len(t, lineup, domain.LineupSize)

	power := lineup[0]
	assert.Equal(t, "Power Bat", power.Name)
	assert.InDelta(t, .610, power.Stats.SLG, 1e-9, "quoted numbers are weakly typed")
	assert.InDelta(t, .07, power.Stats.HRRate, 1e-9)
	assert.InDelta(t, domain.LeagueKRate, power.Stats.KRate, 1e-9, "missing keys keep league averages")

	assert.Equal(t, domain.LeagueBatting(), *lineup[1].Stats)

	staff, err := p.Pitchers(ctx, 1, 2024)
	require.NoError(t, err)
	require.Len(t, staff, 2)
	assert.Equal(t, "Closer", staff[0].Name)
	assert.InDelta(t, domain.LeagueKPer9, staff[0].Stats.KPer9, 1e-9)
	assert.Equal(t, "P", staff[1].Position)
}

func TestParse_RejectsUnknownStat(t *testing.T) {
	_, err := roster.Parse([]byte(`
teams:
  - id: 1
    name: Typos
    batters:
      - name: Oops
        stats: {avgg: .300}
`))
	assert.ErrorContains(t, err, "Oops")
}

func TestParse_RejectsMissingTeamID(t *testing.T) {
	_, err := roster.Parse([]byte("teams:\n  - name: Nameless\n"))
	assert.Error(t, err)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"teams":[{"id":5,"name":"Json Jays","batters":[{"name":"A","position":"C","stats":{"avg":0.3}}]}]}`), 0o644))

	p, err := roster.Load(path)
	require.NoError(t, err)

	team, err := p.Team(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Json Jays", team.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := roster.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSample_Contract(t *testing.T) {
	p, err := roster.Sample()
	require.NoError(t, err)

	teams, err := p.ListTeams(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, 4)

	tests.DataProviderContractTest(t, p, 112, 2024)
}
