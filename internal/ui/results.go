package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/session"
)

// List columns, in terminal cells.
const (
	ratingCol   = 4
	yearCol     = 4
	platformCol = 28
	minNameCol  = 12
)

// Grid cells. cardWidth includes the border; cardHeight is three text
// lines plus the border.
const (
	cardWidth  = 30
	cardHeight = 5
)

// renderList renders one line per item, scrolled so the cursor is visible.
func renderList(items []catalog.Item, cursor, width, height int) string {
	height = max(height, 1)
	offset := scrollOffset(cursor, height)
	end := min(offset+height, len(items))

	lines := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		lines = append(lines, renderRow(items[i], i == cursor, width))
	}
	return strings.Join(lines, "\n")
}

// scrollOffset returns the first visible index that keeps cursor on screen.
func scrollOffset(cursor, visible int) int {
	if cursor >= visible {
		return cursor - visible + 1
	}
	return 0
}

// renderRow lays out rating, year, name and platforms in fixed columns.
// Widths are measured in cells so wide runes do not break alignment.
func renderRow(item catalog.Item, selected bool, width int) string {
	nameCol := max(width-ratingCol-yearCol-platformCol-8, minNameCol)

	rating := runewidth.FillLeft(item.Rating.String(), ratingCol)
	year := yearLabel(item.ReleaseDate)
	name := runewidth.FillRight(runewidth.Truncate(item.Name, nameCol, "…"), nameCol)
	platforms := runewidth.Truncate(item.Platforms.String(), platformCol, "…")

	if selected {
		line := fmt.Sprintf(" %s  %s  %s  %s", rating, year, name, platforms)
		return SelectedItem.Width(max(width, 1)).Render(line)
	}

	ratingStyle := RatingStyle
	if item.Rating.IsNA() {
		ratingStyle = MetaItem
	}
	return fmt.Sprintf(" %s  %s  %s  %s",
		ratingStyle.Render(rating),
		MetaItem.Render(year),
		NormalItem.Render(name),
		MetaItem.Render(platforms))
}

func yearLabel(t time.Time) string {
	if t.IsZero() {
		return "----"
	}
	return fmt.Sprintf("%04d", t.Year())
}

// gridColumns returns how many cards fit side by side.
func gridColumns(width int) int {
	return max(width/cardWidth, 1)
}

// renderGrid renders items as cards, scrolled by rows.
func renderGrid(items []catalog.Item, cursor, width, height int) string {
	cols := gridColumns(width)
	visibleRows := max(height/cardHeight, 1)
	offset := scrollOffset(cursor/cols, visibleRows)

	var rows []string
	for r := offset; r < offset+visibleRows; r++ {
		start := r * cols
		if start >= len(items) {
			break
		}
		end := min(start+cols, len(items))
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, renderCard(items[i], i == cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(item catalog.Item, selected bool) string {
	inner := cardWidth - 4 // border and padding
	name := runewidth.Truncate(item.Name, inner, "…")
	meta := fmt.Sprintf("★ %s  %s", item.Rating, yearLabel(item.ReleaseDate))
	if item.ContentType != "" {
		meta += "  " + catalog.ContentLabel(item.ContentType)
	}
	meta = runewidth.Truncate(meta, inner, "…")
	platforms := runewidth.Truncate(item.Platforms.String(), inner, "…")

	style := Card
	if selected {
		style = CardSelected
	}
	return style.Width(cardWidth - 2).Render(name + "\n" + meta + "\n" + MetaItem.Render(platforms))
}

// emptyMessage explains an empty result list. Failed searches, searches
// with no matches and over-filtered results each read differently.
func emptyMessage(st session.Status, empty session.Empty) string {
	switch empty {
	case session.EmptyFailed:
		msg := "Search failed."
		if st.Err != nil {
			msg = "Search failed: " + st.Err.Error()
		}
		return msg + "\nPress / to try again."
	case session.EmptyNoResults:
		if st.Query == "" {
			return fmt.Sprintf("Nothing in %s.", st.Category)
		}
		return fmt.Sprintf("No games match %q in %s.", st.Query, st.Category)
	case session.EmptyFiltered:
		return fmt.Sprintf("%d loaded, none pass the %d active filter(s).\nPress c to clear filters.", st.Loaded, st.Active)
	}
	return "Press / to search the catalog, ctrl+k for quick search."
}

// renderStatusBar shows state, shown/loaded/total counts, sort key and the
// active filter count.
func renderStatusBar(st session.Status, spin string, width int) string {
	var state string
	switch st.State {
	case session.StateLoading:
		state = spin + " searching"
	case session.StateLoadingMore:
		state = spin + " loading more"
	default:
		state = st.State.String()
	}

	counts := fmt.Sprintf("%d/%d/%d", st.Shown, st.Loaded, st.Total)
	if st.HasMore {
		counts += "+"
	}

	parts := []string{
		state,
		counts,
		StatusBarKey.Render("sort") + StatusBarText.Render(":"+st.Sort.Label()),
	}
	if st.Active > 0 {
		parts = append(parts, StatusBarKey.Render("filters")+StatusBarText.Render(fmt.Sprintf(":%d", st.Active)))
	}
	if st.PageErr != nil {
		parts = append(parts, WarnStyle.Render("load more failed"))
	}
	return StatusBar.Width(max(width, 1)).Render(strings.Join(parts, "  "))
}
