package catalog

// SearchParams is the query string of the gateway's /search and
// /search/count endpoints. Count ignores Limit and Offset.
type SearchParams struct {
	Query    string   `schema:"query"`
	Category Category `schema:"category"`
	Limit    int      `schema:"limit,omitempty"`
	Offset   int      `schema:"offset,omitempty"`
}
