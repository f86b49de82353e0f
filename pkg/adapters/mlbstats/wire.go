package mlbstats

import (
	"strconv"
	"strings"
)

// Response shapes of the Stats API, reduced to the fields we read.

type teamsResponse struct {
	Teams []struct {
		ID           int    `json:"id"`
		Name         string `json:"name"`
		Abbreviation string `json:"abbreviation"`
		League       struct {
			Name string `json:"name"`
		} `json:"league"`
	} `json:"teams"`
}

type rosterResponse struct {
	Roster []rosterEntry `json:"roster"`
}

type rosterEntry struct {
	Person struct {
		ID       int    `json:"id"`
		FullName string `json:"fullName"`
	} `json:"person"`
	Position struct {
		Abbreviation string `json:"abbreviation"`
		Type         string `json:"type"`
	} `json:"position"`
}

func (e rosterEntry) isPitcher() bool { return e.Position.Type == "Pitcher" }

type statsResponse struct {
	Stats []struct {
		Group struct {
			DisplayName string `json:"displayName"`
		} `json:"group"`
		Splits []struct {
			Season string   `json:"season"`
			Stat   statLine `json:"stat"`
		} `json:"splits"`
	} `json:"stats"`
}

// statLine holds both hitting and pitching fields; the API sends rate stats as strings.
type statLine struct {
	AtBats            int    `json:"atBats"`
	PlateAppearances  int    `json:"plateAppearances"`
	StrikeOuts        int    `json:"strikeOuts"`
	HomeRuns          int    `json:"homeRuns"`
	Avg               string `json:"avg"`
	Slg               string `json:"slg"`
	InningsPitched    string `json:"inningsPitched"`
	Era               string `json:"era"`
	StrikeoutsPer9Inn string `json:"strikeoutsPer9Inn"`
	WalksPer9Inn      string `json:"walksPer9Inn"`
}

// leagueFor maps "American League" and "National League" to AL and NL.
func leagueFor(name string) string {
	switch {
	case strings.Contains(name, "American"):
		return "AL"
	case strings.Contains(name, "National"):
		return "NL"
	}
	return ""
}

// number parses ".312" and "3.45", falling back to def on anything else
// (the API sends "-.--" for undefined rates).
func number(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// innings converts baseball notation, where "45.2" is 45 and two thirds, to a float.
func innings(s string) float64 {
	whole, frac, _ := strings.Cut(s, ".")
	n, err := strconv.Atoi(whole)
	if err != nil {
		return 0
	}
	outs, _ := strconv.Atoi(frac)
	return float64(n) + float64(outs)/3
}
