package search

import (
	"github.com/nikbrunner/lp/internal/model"
	"github.com/sahilm/fuzzy"
)

// SearchResult represents a fuzzy search match.
type SearchResult struct {
	Link           model.Link
	Index          int   // position in the searched slice
	MatchedIndexes []int // byte offsets into Key(Link)
	Score          int
}

// Key returns the text a link is matched against: title, short code, destination.
func Key(link model.Link) string {
	return link.Title + " " + link.ShortCode + " " + link.OriginalURL
}

// linkKeys implements fuzzy.Source for a link slice.
type linkKeys []model.Link

func (lk linkKeys) String(i int) string {
	return Key(lk[i])
}

func (lk linkKeys) Len() int {
	return len(lk)
}

// FuzzySearchLinks searches links by title, short code and destination.
// Returns results sorted by match score (best first).
func FuzzySearchLinks(links []model.Link, query string) []SearchResult {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, linkKeys(links))

	results := make([]SearchResult, len(matches))
	for i, m := range matches {
		results[i] = SearchResult{
			Link:           links[m.Index],
			Index:          m.Index,
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}

// TitleMatches returns the matched offsets that fall inside the link's title.
func (r SearchResult) TitleMatches() []int {
	var out []int
	for _, idx := range r.MatchedIndexes {
		if idx < len(r.Link.Title) {
			out = append(out, idx)
		}
	}
	return out
}
