package server

import (
	"time"

	"github.com/abelbrown/arcade/internal/catalog"
)

// gameJSON is the response shape of one game. List fields are always
// arrays; rating is a number or "N/A"; dates are omitted when unknown.
type gameJSON struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Summary      string         `json:"summary,omitempty"`
	Cover        string         `json:"cover,omitempty"`
	Rating       catalog.Rating `json:"rating"`
	ReleaseDate  string         `json:"release_date,omitempty"`
	AddedAt      string         `json:"added_at,omitempty"`
	Genres       []string       `json:"genres"`
	Themes       []string       `json:"themes"`
	Platforms    []string       `json:"platforms"`
	GameModes    []string       `json:"game_modes"`
	Perspectives []string       `json:"player_perspectives"`
	ContentType  string         `json:"content_type,omitempty"`
	Developers   []string       `json:"developers"`
	Keywords     []string       `json:"keywords"`
}

func toJSON(it catalog.Item) gameJSON {
	g := gameJSON{
		ID:           it.ID,
		Name:         it.Name,
		Summary:      it.Summary,
		Cover:        it.Cover,
		Rating:       it.Rating,
		Genres:       list(it.Genres),
		Themes:       list(it.Themes),
		Platforms:    list(it.Platforms),
		GameModes:    list(it.GameModes),
		Perspectives: list(it.Perspectives),
		ContentType:  it.ContentType,
		Developers:   list(it.Developers),
		Keywords:     list(it.Keywords),
	}
	if !it.ReleaseDate.IsZero() {
		g.ReleaseDate = it.ReleaseDate.Format("2006-01-02")
	}
	if !it.AddedAt.IsZero() {
		g.AddedAt = it.AddedAt.UTC().Format(time.RFC3339)
	}
	return g
}

func list(v catalog.Values) []string {
	if v == nil {
		return []string{}
	}
	return v
}
