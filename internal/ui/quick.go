package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/arcade/internal/catalog"
)

// renderQuickOverlay renders the typeahead box: the input line and up to
// height-4 results.
func renderQuickOverlay(input, text string, results []catalog.Item, cursor, width, height int) string {
	inner := max(width-4, 10)
	lines := []string{input, MetaItem.Render(strings.Repeat("─", inner))}

	switch {
	case strings.TrimSpace(text) == "":
		lines = append(lines, MetaItem.Render("type a title, enter to search, esc to close"))
	case len(results) == 0:
		lines = append(lines, MetaItem.Render("no matches yet"))
	}

	room := max(height-len(lines)-2, 1)
	for i, item := range results {
		if i >= room {
			break
		}
		year := yearLabel(item.ReleaseDate)
		name := runewidth.Truncate(item.Name, inner-12, "…")
		line := fmt.Sprintf("%s  %s  %s", runewidth.FillRight(name, inner-12), year, runewidth.FillLeft(item.Rating.String(), 4))
		if i == cursor {
			line = SelectedItem.Render(line)
		}
		lines = append(lines, line)
	}
	return OverlayStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}
