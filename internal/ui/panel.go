package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/arcade/internal/filter"
)

// panelWidth is the facet panel width including its border.
const panelWidth = 32

// facetRow is one selectable value in the facet panel.
type facetRow struct {
	facet filter.Facet
	value string
}

// facetRows flattens the panel in display order. Selected values that are
// missing from the loaded window are kept so they can still be toggled off.
func facetRows(facets filter.Facets, f filter.Filters) []facetRow {
	var rows []facetRow
	for _, facet := range filter.AllFacets() {
		seen := make(map[string]bool)
		for _, v := range facets[facet] {
			seen[v] = true
			rows = append(rows, facetRow{facet: facet, value: v})
		}
		for _, v := range f.Values(facet) {
			if !seen[v] {
				rows = append(rows, facetRow{facet: facet, value: v})
			}
		}
	}
	return rows
}

// renderFacetPanel renders facet headers and checkboxes, scrolled so the
// cursor row stays visible.
func renderFacetPanel(facets filter.Facets, f filter.Filters, cursor, width, height int) string {
	inner := width - 3 // right border and padding
	rows := facetRows(facets, f)

	var lines []string
	cursorLine := 0
	var current filter.Facet
	for i, row := range rows {
		if row.facet != current {
			current = row.facet
			lines = append(lines, PanelHeader.Render(current.Label()))
		}
		box := "[ ] "
		if f.IsSelected(row.facet, row.value) {
			box = "[x] "
		}
		text := runewidth.Truncate(box+row.value, inner, "…")
		switch {
		case i == cursor:
			cursorLine = len(lines)
			text = SelectedItem.Render(runewidth.FillRight(text, inner))
		case f.IsSelected(row.facet, row.value):
			text = PanelChecked.Render(text)
		}
		lines = append(lines, text)
	}
	if len(lines) == 0 {
		lines = append(lines, MetaItem.Render("no facets loaded"))
	}

	height = max(height, 1)
	offset := scrollOffset(cursorLine, height)
	end := min(offset+height, len(lines))
	return PanelStyle.Width(width - 1).Render(strings.Join(lines[offset:end], "\n"))
}
