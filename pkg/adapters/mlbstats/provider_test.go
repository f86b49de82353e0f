package mlbstats_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aretw0/ballpark/pkg/adapters/mlbstats"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/aretw0/ballpark/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type player struct {
	id       int
	name     string
	pos      string
	pitcher  bool
	hitting  map[string]any
	pitching map[string]any
}

// fakeAPI serves a two-team slice of the Stats API.
type fakeAPI struct {
	players    []player
	statCalls  atomic.Int32
	failRoster bool
	onStat     func()
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	write := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(v))
	}

	mux.HandleFunc("GET /api/v1/teams", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("sportId"))
		write(w, map[string]any{"teams": []map[string]any{
			{"id": 147, "name": "New York Yankees", "abbreviation": "NYY", "league": map[string]any{"name": "American League"}},
			{"id": 112, "name": "Chicago Cubs", "abbreviation": "CHC", "league": map[string]any{"name": "National League"}},
		}})
	})

	mux.HandleFunc("GET /api/v1/teams/{id}/roster", func(w http.ResponseWriter, r *http.Request) {
		if f.failRoster {
			http.Error(w, "upstream down", http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "active", r.URL.Query().Get("rosterType"))
		roster := []map[string]any{}
		for _, p := range f.players {
			typ := "Infielder"
			if p.pitcher {
				typ = "Pitcher"
			}
			roster = append(roster, map[string]any{
				"person":   map[string]any{"id": p.id, "fullName": p.name},
				"position": map[string]any{"abbreviation": p.pos, "type": typ},
			})
		}
		write(w, map[string]any{"roster": roster})
	})

	mux.HandleFunc("GET /api/v1/people/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
		f.statCalls.Add(1)
		if f.onStat != nil {
			f.onStat()
		}
		group := r.URL.Query().Get("group")
		season := r.URL.Query().Get("season")
		for _, p := range f.players {
			if fmt.Sprint(p.id) != r.PathValue("id") {
				continue
			}
			stat := p.hitting
			if group == "pitching" {
				stat = p.pitching
			}
			if stat == nil {
				write(w, map[string]any{"stats": []any{}})
				return
			}
			write(w, map[string]any{"stats": []map[string]any{{
				"group":  map[string]any{"displayName": group},
				"splits": []map[string]any{{"season": season, "stat": stat}},
			}}})
			return
		}
		http.NotFound(w, r)
	})
	return mux
}

func defaultRoster() []player {
	return []player{
		{id: 1, name: "Slugger", pos: "1B", hitting: map[string]any{"atBats": 500, "plateAppearances": 600, "strikeOuts": 120, "homeRuns": 40, "avg": ".300", "slg": ".600"}},
		{id: 2, name: "Rookie", pos: "C", hitting: map[string]any{"atBats": 20, "plateAppearances": 22, "strikeOuts": 10, "homeRuns": 5, "avg": ".400", "slg": ".900"}},
		{id: 3, name: "Shortstop", pos: "SS", hitting: map[string]any{"atBats": 400, "plateAppearances": 450, "strikeOuts": 90, "homeRuns": 8, "avg": ".250", "slg": ".380"}},
		{id: 4, name: "Center", pos: "CF"},
		{id: 10, name: "Ace", pos: "P", pitcher: true, pitching: map[string]any{"inningsPitched": "180.1", "era": "2.50", "strikeoutsPer9Inn": "10.50", "walksPer9Inn": "2.00"}},
		{id: 11, name: "Opener", pos: "P", pitcher: true, pitching: map[string]any{"inningsPitched": "15.2", "era": "1.00", "strikeoutsPer9Inn": "12.00", "walksPer9Inn": "1.00"}},
		{id: 12, name: "Swingman", pos: "P", pitcher: true, pitching: map[string]any{"inningsPitched": "60.0", "era": "3.80", "strikeoutsPer9Inn": "8.00", "walksPer9Inn": "3.00"}},
	}
}

func newClient(t *testing.T, api *fakeAPI, opts ...mlbstats.Option) *mlbstats.Client {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return mlbstats.New(append([]mlbstats.Option{
		mlbstats.WithBaseURL(srv.URL),
		mlbstats.WithHTTPClient(srv.Client()),
		mlbstats.WithRateLimit(1000, 100),
	}, opts...)...)
}

func TestClient_Contract(t *testing.T) {
	tests.DataProviderContractTest(t, newClient(t, &fakeAPI{players: defaultRoster()}), 112, 2024)
}

func TestClient_ListTeams(t *testing.T) {
	teams, err := newClient(t, &fakeAPI{}).ListTeams(context.Background())
	require.NoError(t, err)

	require.Len(t, teams, 2)
	assert.Equal(t, domain.Team{ID: 112, Name: "Chicago Cubs", Abbreviation: "CHC", League: "NL"}, teams[0])
	assert.Equal(t, "AL", teams[1].League)
}

func TestClient_LineupUsesSamplesAndDefaults(t *testing.T) {
	api := &fakeAPI{players: defaultRoster()}
	lineup, err := newClient(t, api).Lineup(context.Background(), 112, 2024)
	require.NoError(t, err)
	require.Len(t, lineup, domain.LineupSize)

	byName := map[string]domain.Batter{}
	for _, b := range lineup {
		byName[b.Name] = b
	}

	slugger := byName["Slugger"]
	require.NotNil(t, slugger.Stats)
	assert.InDelta(t, .300, slugger.Stats.AVG, 1e-9)
	assert.InDelta(t, .200, slugger.Stats.KRate, 1e-9)
	assert.InDelta(t, .080, slugger.Stats.HRRate, 1e-9)
	assert.Equal(t, "Slugger", lineup[0].Name, "best OPS leads off")

	assert.Equal(t, domain.LeagueBatting(), *byName["Rookie"].Stats, "under 50 AB uses league averages")
	assert.Equal(t, domain.LeagueBatting(), *byName["Center"].Stats, "missing stats use league averages")
	assert.NotContains(t, byName, "Ace", "pitchers never bat")
	assert.Equal(t, "Player 5", lineup[4].Name)
	assert.Equal(t, int32(4), api.statCalls.Load())
}

func TestClient_PitchersByERA(t *testing.T) {
	staff, err := newClient(t, &fakeAPI{players: defaultRoster()}).Pitchers(context.Background(), 112, 2024)
	require.NoError(t, err)
	require.Len(t, staff, 3)

	assert.Equal(t, "Ace", staff[0].Name)
	assert.InDelta(t, 10.5, staff[0].Stats.KPer9, 1e-9)
	assert.Equal(t, "Swingman", staff[1].Name)
	assert.Equal(t, "Opener", staff[2].Name, "under 20 IP falls back to league ERA")
	assert.InDelta(t, domain.LeagueERA, staff[2].Stats.ERA, 1e-9)
}

func TestClient_RosterFailure(t *testing.T) {
	c := newClient(t, &fakeAPI{players: defaultRoster(), failRoster: true})

	_, err := c.Lineup(context.Background(), 112, 2024)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.True(t, strings.Contains(err.Error(), "503"))

	_, err = c.StartingPitcher(context.Background(), 112, 2024, 0)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := mlbstats.New(mlbstats.WithBaseURL(srv.URL)).ListTeams(context.Background())
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestClient_CanceledFanOutStopsFetching(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	api := &fakeAPI{players: defaultRoster(), onStat: cancel}
	c := newClient(t, api, mlbstats.WithConcurrency(1))

	_, err := c.Lineup(ctx, 112, 2024)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), api.statCalls.Load(), "no stat request starts after cancellation")

	_, err = c.Pitchers(ctx, 112, 2024)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), api.statCalls.Load())
}
