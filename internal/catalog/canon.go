package catalog

import "strings"

// platformAliases maps raw platform names to the short labels shown in the
// facet panel. Facet extraction and filter matching both go through
// CanonicalPlatform so a label always matches what it filters.
var platformAliases = map[string]string{
	"playstation 5":                       "PS5",
	"playstation 4":                       "PS4",
	"playstation 3":                       "PS3",
	"playstation 2":                       "PS2",
	"playstation":                         "PS1",
	"playstation vita":                    "PS Vita",
	"playstation portable":                "PSP",
	"nintendo switch":                     "Switch",
	"nintendo switch 2":                   "Switch 2",
	"nintendo 3ds":                        "3DS",
	"nintendo ds":                         "DS",
	"wii u":                               "Wii U",
	"pc (microsoft windows)":              "PC",
	"microsoft windows":                   "PC",
	"windows":                             "PC",
	"mac":                                 "Mac",
	"macos":                               "Mac",
	"linux":                               "Linux",
	"xbox series x|s":                     "Xbox Series",
	"xbox series x":                       "Xbox Series",
	"xbox one":                            "Xbox One",
	"xbox 360":                            "Xbox 360",
	"ios":                                 "iOS",
	"android":                             "Android",
	"google stadia":                       "Stadia",
	"super nintendo entertainment system": "SNES",
	"nintendo entertainment system":       "NES",
}

// CanonicalPlatform returns the display label for a raw platform name.
// Unknown names pass through trimmed.
func CanonicalPlatform(raw string) string {
	raw = strings.TrimSpace(raw)
	if alias, ok := platformAliases[strings.ToLower(raw)]; ok {
		return alias
	}
	return raw
}

// CanonicalPlatforms maps every value through CanonicalPlatform.
func CanonicalPlatforms(vals Values) Values {
	if len(vals) == 0 {
		return nil
	}
	out := make(Values, len(vals))
	for i, v := range vals {
		out[i] = CanonicalPlatform(v)
	}
	return out
}

// Content type labels. The gateway calls base games "Main Game"; the facet
// panel shows them as "Base Game".
const (
	ContentMainGame = "Main Game"
	ContentBaseGame = "Base Game"
)

// ContentLabel returns the facet label for a raw content type.
func ContentLabel(raw string) string {
	if raw == ContentMainGame {
		return ContentBaseGame
	}
	return raw
}
