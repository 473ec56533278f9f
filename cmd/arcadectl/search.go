package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/arcade/internal/catalog"
	"github.com/abelbrown/arcade/internal/config"
	"github.com/abelbrown/arcade/internal/filter"
	"github.com/abelbrown/arcade/internal/gateway"
	"github.com/abelbrown/arcade/internal/ranking"
	"github.com/abelbrown/arcade/internal/session"
)

// searchOptions are the browse settings applied to the session after the
// first page lands.
type searchOptions struct {
	category  catalog.Category
	sortKey   ranking.Key
	minRating float64
	title     string
	facets    map[filter.Facet]catalog.Values
	pages     int // extra load-more pages; -1 loads everything
}

// runSession drives one browse session to completion and returns the
// controller holding the final view.
func runSession(ctx context.Context, gw session.Gateway, query string, pageSize int, opts searchOptions) (*session.Controller, error) {
	ctrl := session.NewController(pageSize, nil)
	ctrl.SetCategory(opts.category)
	ctrl.SetSort(opts.sortKey)

	ctrl.CommitStart(session.FetchStart(ctx, gw, ctrl.Submit(query)))
	if st := ctrl.Status(); st.Err != nil {
		return ctrl, st.Err
	}

	for n := 0; opts.pages < 0 || n < opts.pages; n++ {
		req, ok := ctrl.LoadMore()
		if !ok {
			break
		}
		ctrl.CommitPage(session.FetchPage(ctx, gw, req))
		if st := ctrl.Status(); st.PageErr != nil {
			return ctrl, st.PageErr
		}
	}

	for _, facet := range filter.AllFacets() {
		vals := opts.facets[facet]
		if facet == filter.FacetPlatform {
			vals = catalog.CanonicalPlatforms(vals)
		}
		for _, v := range vals {
			if !ctrl.Filters().IsSelected(facet, v) {
				ctrl.ToggleFacet(facet, v)
			}
		}
	}
	if opts.minRating > 0 {
		ctrl.SetMinRating(opts.minRating)
	}
	if opts.title != "" {
		ctrl.SetTitle(opts.title)
	}
	return ctrl, nil
}

// printView writes the session's visible items as a table.
func printView(w io.Writer, ctrl *session.Controller, showFacets bool) {
	st := ctrl.Status()
	more := ""
	if st.HasMore {
		more = "+"
	}
	fmt.Fprintf(w, "query=%q category=%s sort=%s: %d shown, %d/%d%s loaded, %d filter(s)\n",
		st.Query, st.Category, st.Sort.Label(), st.Shown, st.Loaded, st.Total, more, st.Active)
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for i, it := range ctrl.View() {
		year := "----"
		if !it.ReleaseDate.IsZero() {
			year = it.ReleaseDate.Format("2006")
		}
		name := runewidth.FillRight(runewidth.Truncate(it.Name, 40, "..."), 40)
		fmt.Fprintf(w, "%3d. %s %4s  %s  %s\n", i+1, name, it.Rating, year,
			truncate(it.Platforms.String(), 28))
	}

	if e := ctrl.Empty(); e != session.EmptyNone {
		fmt.Fprintf(w, "(empty: %s)\n", emptyLabel(e))
	}

	if !showFacets {
		return
	}
	facets := ctrl.Facets()
	fmt.Fprintf(w, "\nFacets (%d values):\n", facets.Count())
	for _, facet := range filter.AllFacets() {
		if vals := facets[facet]; len(vals) > 0 {
			fmt.Fprintf(w, "  %-14s %s\n", facet.Label(), strings.Join(vals, ", "))
		}
	}
}

func emptyLabel(e session.Empty) string {
	switch e {
	case session.EmptyFailed:
		return "search failed"
	case session.EmptyNoResults:
		return "no results"
	case session.EmptyFiltered:
		return "filtered out"
	}
	return "none"
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	gatewayURL := fs.String("gateway", "", "Search gateway base URL (overrides config)")
	category := fs.String("category", "all", "Category: all, titles, developers, platforms, keywords")
	sortFlag := fs.String("sort", "relevance", "Sort key (relevance, exact_match, name_asc, rating_high, release_new, ...)")
	pages := fs.Int("pages", 0, "Extra pages to load after the first; -1 loads all")
	minRating := fs.Float64("min-rating", 0, "Minimum rating (0-5)")
	title := fs.String("title", "", "Title substring filter")
	showFacets := fs.Bool("facets", false, "Print available facet values")
	facetFlags := make(map[filter.Facet]*string)
	for _, facet := range filter.AllFacets() {
		facetFlags[facet] = fs.String(string(facet), "", "Comma-separated "+strings.ToLower(facet.Label())+" to keep")
	}
	fs.Parse(os.Args[1:])

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: load config: %v\n", err)
		os.Exit(1)
	}
	if *gatewayURL != "" {
		cfg.Gateway.BaseURL = *gatewayURL
	}

	cat, ok := catalog.ParseCategory(*category)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown category %q\n", *category)
		os.Exit(1)
	}
	key, ok := ranking.ParseKey(*sortFlag)
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown sort key %q\n", *sortFlag)
		os.Exit(1)
	}

	opts := searchOptions{
		category:  cat,
		sortKey:   key,
		minRating: *minRating,
		title:     *title,
		facets:    make(map[filter.Facet]catalog.Values),
		pages:     *pages,
	}
	for facet, v := range facetFlags {
		if vals := catalog.SplitValues(*v); len(vals) > 0 {
			opts.facets[facet] = vals
		}
	}

	client := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Timeout(),
		gateway.WithRateLimit(cfg.Gateway.RequestsPerSec))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	t0 := time.Now()
	ctrl, err := runSession(ctx, client, strings.Join(fs.Args(), " "), cfg.Browse.PageSize, opts)
	printView(os.Stdout, ctrl, *showFacets)
	fmt.Printf("\n(%s via %s)\n", time.Since(t0).Round(time.Millisecond), cfg.Gateway.BaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
