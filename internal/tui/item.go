package tui

import (
	"github.com/nikbrunner/lp/internal/model"
	"github.com/nikbrunner/lp/internal/search"
)

// Item is one visible row of the dashboard list.
type Item struct {
	Link    model.Link
	Matches []int // matched offsets in the title when filtered
}

// buildItems returns every link, or the fuzzy matches when query is set.
func buildItems(links []model.Link, query string) []Item {
	if query == "" {
		items := make([]Item, len(links))
		for i, l := range links {
			items[i] = Item{Link: l}
		}
		return items
	}

	results := search.FuzzySearchLinks(links, query)
	items := make([]Item, len(results))
	for i, r := range results {
		items[i] = Item{Link: r.Link, Matches: r.TitleMatches()}
	}
	return items
}
