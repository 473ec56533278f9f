package store

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abelbrown/arcade/internal/catalog"
)

// seedFile is the YAML layout read by LoadSeed:
//
//	games:
//	  - id: hades
//	    name: Hades
//	    rating: 4.8          # or "N/A"
//	    release_date: 2020-09-17
//	    genres: [Action, Roguelike]   # or "Action, Roguelike"
type seedFile struct {
	Games []seedGame `yaml:"games"`
}

type seedGame struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name"`
	Summary      string     `yaml:"summary"`
	Cover        string     `yaml:"cover"`
	Rating       string     `yaml:"rating"`
	ReleaseDate  string     `yaml:"release_date"`
	AddedAt      string     `yaml:"added_at"`
	Genres       seedValues `yaml:"genres"`
	Themes       seedValues `yaml:"themes"`
	Platforms    seedValues `yaml:"platforms"`
	GameModes    seedValues `yaml:"game_modes"`
	Perspectives seedValues `yaml:"player_perspectives"`
	ContentType  string     `yaml:"content_type"`
	Developers   seedValues `yaml:"developers"`
	Keywords     seedValues `yaml:"keywords"`
}

// seedValues accepts a comma-delimited scalar or a sequence.
type seedValues catalog.Values

func (v *seedValues) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = seedValues(catalog.SplitValues(node.Value))
	case yaml.SequenceNode:
		var out catalog.Values
		for _, n := range node.Content {
			if n.Kind == yaml.ScalarNode {
				out = append(out, catalog.SplitValues(n.Value)...)
			}
		}
		*v = seedValues(out)
	default:
		return fmt.Errorf("line %d: expected a list or comma-separated string", node.Line)
	}
	return nil
}

// LoadSeed parses a YAML seed document into catalog items, in file order.
func LoadSeed(r io.Reader) ([]catalog.Item, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	items := make([]catalog.Item, 0, len(f.Games))
	seen := make(map[string]bool, len(f.Games))
	for i, g := range f.Games {
		id := strings.TrimSpace(g.ID)
		if id == "" || strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("seed game %d: id and name are required", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("seed game %d: duplicate id %q", i+1, id)
		}
		seen[id] = true

		it := catalog.Item{
			ID:           id,
			Name:         strings.TrimSpace(g.Name),
			Summary:      strings.TrimSpace(g.Summary),
			Cover:        g.Cover,
			Rating:       catalog.ParseRating(g.Rating),
			Genres:       catalog.Values(g.Genres),
			Themes:       catalog.Values(g.Themes),
			Platforms:    catalog.Values(g.Platforms),
			GameModes:    catalog.Values(g.GameModes),
			Perspectives: catalog.Values(g.Perspectives),
			ContentType:  strings.TrimSpace(g.ContentType),
			Developers:   catalog.Values(g.Developers),
			Keywords:     catalog.Values(g.Keywords),
		}
		if g.ReleaseDate != "" {
			t, err := parseSeedTime(g.ReleaseDate)
			if err != nil {
				return nil, fmt.Errorf("seed game %q: release_date: %w", id, err)
			}
			it.ReleaseDate = t
		}
		if g.AddedAt != "" {
			t, err := parseSeedTime(g.AddedAt)
			if err != nil {
				return nil, fmt.Errorf("seed game %q: added_at: %w", id, err)
			}
			it.AddedAt = t
		}
		items = append(items, it)
	}
	return items, nil
}

func parseSeedTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, dateLayout, "2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
