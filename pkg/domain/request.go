package domain

// DefaultSeason is used when a request does not name a season.
const DefaultSeason = 2024

// NewGameRequest configures the matchup of a new game.
// Zero IDs mean "not provided": no team gives the default game, no opponent
// gives a random one and no pitcher gives the team's best by ERA.
type NewGameRequest struct {
	TeamID        int `json:"team_id,omitempty"`
	Season        int `json:"season,omitempty"`
	HomePitcherID int `json:"home_pitcher_id,omitempty"`
	AwayTeamID    int `json:"away_team_id,omitempty"`
	AwaySeason    int `json:"away_season,omitempty"`
	AwayPitcherID int `json:"away_pitcher_id,omitempty"`
}

// Normalize fills in the seasons. The away season follows the home season.
func (r NewGameRequest) Normalize() NewGameRequest {
	if r.Season == 0 {
		r.Season = DefaultSeason
	}
	if r.AwaySeason == 0 {
		r.AwaySeason = r.Season
	}
	return r
}
