package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/arcade/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing session stats and recent events.
// Pure function with no side effects. Returns empty string if ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	recent := ring.Last(20)

	// --- Stats section (keyed lookups, not map iteration) ---
	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Session Stats"))
	lines = append(lines, fmt.Sprintf("  Sessions:   %d started, %d ready, %d errors, %d stale",
		stats[otel.KindSessionStart], stats[otel.KindSessionReady], stats[otel.KindSessionError], stats[otel.KindSessionStale]))
	lines = append(lines, fmt.Sprintf("  Pages:      %d started, %d complete, %d errors, %d skipped",
		stats[otel.KindPageStart], stats[otel.KindPageComplete], stats[otel.KindPageError], stats[otel.KindPageSkip]))
	lines = append(lines, fmt.Sprintf("  Quick:      %d searches, %d stale",
		stats[otel.KindQuickSearch], stats[otel.KindQuickStale]))
	lines = append(lines, fmt.Sprintf("  Gateway:    %d retries, prefs %d errors",
		stats[otel.KindGatewayRetry], stats[otel.KindPrefsError]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()))
	lines = append(lines, "")

	// --- Recent events section ---
	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		age := time.Since(e.Time)
		ageStr := formatAge(age)

		line := fmt.Sprintf("  %6s  %-18s", ageStr, string(e.Kind))
		if e.Token != 0 {
			line += fmt.Sprintf("  #%d", e.Token)
		}
		if e.Msg != "" {
			line += "  " + runewidth.Truncate(e.Msg, 40, "…")
		}
		if e.Err != "" {
			line += "  ERR:" + runewidth.Truncate(e.Err, 30, "…")
		}
		if e.QueryID != "" {
			qidDisplay := e.QueryID
			if len(qidDisplay) > 8 {
				qidDisplay = qidDisplay[:8]
			}
			line += fmt.Sprintf("  qid:%s", qidDisplay)
		}
		lines = append(lines, line)
	}

	// Truncate to fit terminal height (subtract chrome added by DebugPanel border/padding)
	maxHeight := max(height-debugPanelChrome, 1)
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := min(86, width-4)
	panelWidth = max(panelWidth, 20)

	content := strings.Join(lines, "\n")
	return DebugPanel.Width(panelWidth).Render(content)
}

// formatAge formats a duration as a compact human string.
// Handles negative durations from clock skew by clamping to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("ctrl+d") + StatusBarText.Render(":close")
	return StatusBar.Width(max(width, 1)).Render("[DEBUG]  " + keys)
}
