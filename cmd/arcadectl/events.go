package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "debug":
		return 0
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

// eventFilter selects events by kind prefix, minimum level and ids.
type eventFilter struct {
	kind  string
	level string
	comp  string
	qid   string
	token uint64
}

func (f eventFilter) match(ev eventRecord) bool {
	if f.kind != "" && !strings.HasPrefix(ev.Kind, f.kind) {
		return false
	}
	if f.level != "" && levelRank(ev.Level) < levelRank(f.level) {
		return false
	}
	if f.comp != "" && ev.Comp != f.comp {
		return false
	}
	if f.qid != "" && !strings.HasPrefix(ev.QueryID, f.qid) {
		return false
	}
	if f.token != 0 && ev.Token != f.token {
		return false
	}
	return true
}

// formatEvent renders one event as a single human-readable line.
func formatEvent(ev eventRecord) string {
	ts := ev.Time.Format("15:04:05.000")
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}

	parts := []string{fmt.Sprintf("%s %-5s [%-7s] %-20s", ts, lvl, ev.Comp, ev.Kind)}

	if ev.Token > 0 {
		parts = append(parts, fmt.Sprintf("#%d", ev.Token))
	}
	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Total > 0 {
		parts = append(parts, fmt.Sprintf("total=%d", ev.Total))
	}
	if ev.Query != "" {
		parts = append(parts, fmt.Sprintf("q=%q", ev.Query))
	}
	if ev.Category != "" {
		parts = append(parts, "cat="+ev.Category)
	}
	if ev.QueryID != "" {
		parts = append(parts, "qid="+truncate(ev.QueryID, 8))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}

	return strings.Join(parts, " ")
}

func runEvents() {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	tail := fs.Int("tail", 50, "Number of recent lines to show")
	follow := fs.Bool("f", false, "Follow mode (like tail -f)")
	kind := fs.String("kind", "", "Filter by event kind prefix (e.g. 'page')")
	level := fs.String("level", "", "Minimum level: debug, info, warn, error")
	comp := fs.String("comp", "", "Filter by component name")
	qid := fs.String("qid", "", "Filter by query ID prefix")
	token := fs.Uint64("token", 0, "Filter by request token")
	rawJSON := fs.Bool("json", false, "Output raw JSON lines")
	fs.Parse(os.Args[1:])

	f := openEventLog()
	defer f.Close()

	filter := eventFilter{kind: *kind, level: *level, comp: *comp, qid: *qid, token: *token}
	show := func(ev eventRecord, raw []byte) {
		if *rawJSON {
			fmt.Println(string(raw))
			return
		}
		fmt.Println(formatEvent(ev))
	}

	for _, l := range readTailLines(f, *tail, filter.match) {
		show(l.ev, l.raw)
	}
	if !*follow {
		return
	}

	// Poll for new lines from the current offset
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return
		}
		line = trimLine(line)
		if len(line) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		if filter.match(ev) {
			show(ev, line)
		}
	}
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// readTailLines reads r and returns the last n lines matching the filter.
func readTailLines(r io.Reader, n int, match func(eventRecord) bool) []parsedLine {
	if n <= 0 {
		return nil
	}
	ring := make([]parsedLine, 0, n)

	_ = scanEvents(r, func(ev eventRecord, raw []byte) {
		if !match(ev) {
			return
		}
		// Make a copy of raw since the scanner reuses the buffer
		rawCopy := make([]byte, len(raw))
		copy(rawCopy, raw)

		if len(ring) < n {
			ring = append(ring, parsedLine{ev: ev, raw: rawCopy})
			return
		}
		// Shift left
		copy(ring, ring[1:])
		ring[n-1] = parsedLine{ev: ev, raw: rawCopy}
	})

	return ring
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
