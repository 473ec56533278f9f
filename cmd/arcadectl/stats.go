package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// durStats accumulates latency samples for one event kind.
type durStats struct {
	n     int
	sumMs float64
	maxMs float64
}

func (d *durStats) add(ms float64) {
	d.n++
	d.sumMs += ms
	if ms > d.maxMs {
		d.maxMs = ms
	}
}

func (d durStats) avg() float64 {
	if d.n == 0 {
		return 0
	}
	return d.sumMs / float64(d.n)
}

// logStats summarizes an event log.
type logStats struct {
	events   int
	runs     map[string]bool
	kinds    map[string]int
	latency  map[string]*durStats
	queries  map[string]int
	errors   map[string]int
	first    time.Time
	last     time.Time
	maxTotal int
}

func newLogStats() *logStats {
	return &logStats{
		runs:    make(map[string]bool),
		kinds:   make(map[string]int),
		latency: make(map[string]*durStats),
		queries: make(map[string]int),
		errors:  make(map[string]int),
	}
}

func (s *logStats) add(ev eventRecord) {
	s.events++
	if ev.SessionID != "" {
		s.runs[ev.SessionID] = true
	}
	s.kinds[ev.Kind]++
	if s.first.IsZero() || ev.Time.Before(s.first) {
		s.first = ev.Time
	}
	if ev.Time.After(s.last) {
		s.last = ev.Time
	}
	if ev.DurMs > 0 {
		d := s.latency[ev.Kind]
		if d == nil {
			d = &durStats{}
			s.latency[ev.Kind] = d
		}
		d.add(ev.DurMs)
	}
	if ev.Kind == "session.start" {
		s.queries[ev.Query]++
	}
	if ev.Err != "" {
		s.errors[ev.Err]++
	}
	if ev.Total > s.maxTotal {
		s.maxTotal = ev.Total
	}
}

// ratio returns a/b as a percentage, 0 when b is 0.
func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b) * 100
}

func (s *logStats) write(w io.Writer, top int) {
	fmt.Fprintf(w, "Events:                %d\n", s.events)
	fmt.Fprintf(w, "Runs:                  %d\n", len(s.runs))
	if !s.first.IsZero() {
		fmt.Fprintf(w, "Span:                  %s .. %s\n", s.first.Format(time.RFC3339), s.last.Format(time.RFC3339))
	}

	started := s.kinds["session.start"]
	fmt.Fprintln(w, "\n=== Sessions ===")
	fmt.Fprintf(w, "Started:               %d\n", started)
	fmt.Fprintf(w, "Ready:                 %d\n", s.kinds["session.ready"])
	fmt.Fprintf(w, "Failed:                %d (%.1f%%)\n", s.kinds["session.error"], ratio(s.kinds["session.error"], started))
	fmt.Fprintf(w, "Stale results:         %d\n", s.kinds["session.stale"])
	fmt.Fprintf(w, "Largest total:         %d\n", s.maxTotal)

	pages := s.kinds["page.start"]
	fmt.Fprintln(w, "\n=== Load more ===")
	fmt.Fprintf(w, "Requested:             %d\n", pages)
	fmt.Fprintf(w, "Complete:              %d\n", s.kinds["page.complete"])
	fmt.Fprintf(w, "Failed:                %d (%.1f%%)\n", s.kinds["page.error"], ratio(s.kinds["page.error"], pages))
	fmt.Fprintf(w, "Skipped:               %d\n", s.kinds["page.skip"])

	quick := s.kinds["quick.search"]
	fmt.Fprintln(w, "\n=== Quick search ===")
	fmt.Fprintf(w, "Fired:                 %d\n", quick)
	fmt.Fprintf(w, "Stale:                 %d (%.1f%%)\n", s.kinds["quick.stale"], ratio(s.kinds["quick.stale"], quick))

	fmt.Fprintln(w, "\n=== Collaborators ===")
	fmt.Fprintf(w, "Gateway retries:       %d\n", s.kinds["gateway.retry"])
	fmt.Fprintf(w, "Prefs errors:          %d\n", s.kinds["prefs.error"])

	if len(s.latency) > 0 {
		fmt.Fprintln(w, "\n=== Latency (ms) ===")
		for _, k := range sortedKeys(s.latency) {
			d := s.latency[k]
			fmt.Fprintf(w, "  %-20s n=%-5d avg=%-8.1f max=%.1f\n", k, d.n, d.avg(), d.maxMs)
		}
	}

	if len(s.queries) > 0 {
		fmt.Fprintf(w, "\nTop queries:\n")
		for _, q := range topCounts(s.queries, top) {
			label := q
			if label == "" {
				label = "(empty)"
			}
			fmt.Fprintf(w, "  %-35s %d\n", truncate(label, 35), s.queries[q])
		}
	}

	if len(s.errors) > 0 {
		fmt.Fprintf(w, "\nTop errors:\n")
		for _, e := range topCounts(s.errors, top) {
			fmt.Fprintf(w, "  %-60s %d\n", truncate(e, 60), s.errors[e])
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topCounts returns up to n keys by descending count, ties by key.
func topCounts(m map[string]int, n int) []string {
	keys := sortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool { return m[keys[i]] > m[keys[j]] })
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func runStats() {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	since := fs.Duration("since", 0, "Only count events newer than this (e.g. 24h)")
	top := fs.Int("top", 10, "Number of queries and errors to list")
	fs.Parse(os.Args[1:])

	f := openEventLog()
	defer f.Close()

	var cutoff time.Time
	if *since > 0 {
		cutoff = time.Now().Add(-*since)
	}

	st := newLogStats()
	err := scanEvents(f, func(ev eventRecord, _ []byte) {
		if !cutoff.IsZero() && ev.Time.Before(cutoff) {
			return
		}
		st.add(ev)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	st.write(os.Stdout, *top)
}
