// Package roster loads an offline roster book and serves it as a ports.DataProvider.
//
// A book is YAML (or JSON, by extension) listing teams with their hitters and
// pitchers. Stat blocks are flat maps; any stat left out takes the league
// average, so a book can be as sparse as names and positions.
package roster

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/ballpark/pkg/adapters/memory"
	"github.com/aretw0/ballpark/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sample []byte

// Book is the file layout.
type Book struct {
	Teams []TeamEntry `yaml:"teams" json:"teams"`
}

// TeamEntry is one team for one season. Season 0 serves every season.
type TeamEntry struct {
	ID           int           `yaml:"id" json:"id"`
	Name         string        `yaml:"name" json:"name"`
	Abbreviation string        `yaml:"abbreviation" json:"abbreviation"`
	League       string        `yaml:"league" json:"league"`
	Season       int           `yaml:"season" json:"season"`
	Batters      []PlayerEntry `yaml:"batters" json:"batters"`
	Pitchers     []PlayerEntry `yaml:"pitchers" json:"pitchers"`
}

// PlayerEntry is a player with an untyped stat block.
type PlayerEntry struct {
	ID       int            `yaml:"id" json:"id"`
	Name     string         `yaml:"name" json:"name"`
	Position string         `yaml:"position" json:"position"`
	Stats    map[string]any `yaml:"stats" json:"stats"`
}

// Load reads a book from path. YAML unless the extension is .json.
func Load(path string, opts ...memory.ProviderOption) (*memory.Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster book: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var book Book
		if err := json.Unmarshal(data, &book); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return book.Provider(opts...)
	}
	return Parse(data, opts...)
}

// Parse decodes a YAML book.
func Parse(data []byte, opts ...memory.ProviderOption) (*memory.Provider, error) {
	var book Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("failed to parse roster book: %w", err)
	}
	return book.Provider(opts...)
}

// Sample returns the built-in book, used when no roster file is configured.
func Sample(opts ...memory.ProviderOption) (*memory.Provider, error) {
	return Parse(sample, opts...)
}

// Provider converts the book into an in-memory provider.
func (b Book) Provider(opts ...memory.ProviderOption) (*memory.Provider, error) {
	rosters := make([]memory.Roster, 0, len(b.Teams))
	for _, t := range b.Teams {
		r := memory.Roster{
			Team: domain.Team{
				ID:           t.ID,
				Name:         t.Name,
				Abbreviation: t.Abbreviation,
				League:       t.League,
			},
			Season: t.Season,
		}
		for _, p := range t.Batters {
			stats := domain.LeagueBatting()
			if err := decodeStats(p.Stats, &stats); err != nil {
				return nil, fmt.Errorf("%s, batter %q: %w", t.Name, p.Name, err)
			}
			r.Batters = append(r.Batters, domain.Batter{ID: p.ID, Name: p.Name, Position: p.Position, Stats: &stats})
		}
		for _, p := range t.Pitchers {
			stats := domain.LeaguePitching()
			if err := decodeStats(p.Stats, &stats); err != nil {
				return nil, fmt.Errorf("%s, pitcher %q: %w", t.Name, p.Name, err)
			}
			pos := p.Position
			if pos == "" {
				pos = "P"
			}
			r.Pitchers = append(r.Pitchers, domain.Pitcher{ID: p.ID, Name: p.Name, Position: pos, Stats: &stats})
		}
		rosters = append(rosters, r)
	}
	return memory.NewProvider(rosters, opts...)
}

// decodeStats overlays a flat stat map onto dst, which holds the defaults.
// Unknown keys are rejected so typos do not silently fall back to averages.
func decodeStats(in map[string]any, dst any) error {
	if len(in) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
