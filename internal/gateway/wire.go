package gateway

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abelbrown/arcade/internal/catalog"
)

// wireItem is the JSON shape of one search result. Optional fields may be
// missing, null, or of the wrong type; they decode to their empty value.
type wireItem struct {
	ID           flexString     `json:"id"`
	Name         flexString     `json:"name"`
	Summary      flexString     `json:"summary"`
	Cover        flexString     `json:"cover"`
	Rating       catalog.Rating `json:"rating"`
	ReleaseDate  flexTime       `json:"release_date"`
	AddedAt      flexTime       `json:"added_at"`
	Genres       catalog.Values `json:"genres"`
	Themes       catalog.Values `json:"themes"`
	Platforms    catalog.Values `json:"platforms"`
	GameModes    catalog.Values `json:"game_modes"`
	Perspectives catalog.Values `json:"player_perspectives"`
	ContentType  flexString     `json:"content_type"`
	Developers   catalog.Values `json:"developers"`
	Keywords     catalog.Values `json:"keywords"`
}

func (w wireItem) toItem() catalog.Item {
	return catalog.Item{
		ID:           string(w.ID),
		Name:         strings.TrimSpace(string(w.Name)),
		Summary:      string(w.Summary),
		Cover:        string(w.Cover),
		Rating:       w.Rating,
		ReleaseDate:  time.Time(w.ReleaseDate),
		AddedAt:      time.Time(w.AddedAt),
		Genres:       w.Genres,
		Themes:       w.Themes,
		Platforms:    w.Platforms,
		GameModes:    w.GameModes,
		Perspectives: w.Perspectives,
		ContentType:  string(w.ContentType),
		Developers:   w.Developers,
		Keywords:     w.Keywords,
	}
}

// decodeItems parses a search response. A bare array is expected; an
// {"items": [...]} envelope is also accepted.
func decodeItems(body []byte) ([]catalog.Item, error) {
	var raw []wireItem
	if err := json.Unmarshal(body, &raw); err != nil {
		var env struct {
			Items []wireItem `json:"items"`
		}
		if envErr := json.Unmarshal(body, &env); envErr != nil || env.Items == nil {
			return nil, fmt.Errorf("parse search response: %w", err)
		}
		raw = env.Items
	}

	items := make([]catalog.Item, 0, len(raw))
	for _, w := range raw {
		items = append(items, w.toItem())
	}
	return items, nil
}

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = ""
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case string:
		*s = flexString(v)
	case float64:
		*s = flexString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return nil
}

// flexTime accepts RFC 3339, a bare date, or unix seconds. Anything else,
// including null, is the zero time (unknown).
type flexTime time.Time

func (t *flexTime) UnmarshalJSON(data []byte) error {
	*t = flexTime{}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		if v > 0 {
			*t = flexTime(time.Unix(int64(v), 0).UTC())
		}
	case string:
		v = strings.TrimSpace(v)
		for _, layout := range []string{time.RFC3339, "2006-01-02", "2006"} {
			if parsed, err := time.Parse(layout, v); err == nil {
				*t = flexTime(parsed)
				return nil
			}
		}
	}
	return nil
}
