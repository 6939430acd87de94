package importer

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/lp/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Entry is one bookmark read from an import file.
type Entry struct {
	Title     string
	URL       string
	ShortCode string   // from SHORTCUTURL, may be empty
	Tags      []string // enclosing folder names, then the TAGS attribute
	CreatedAt time.Time
}

// ParseHTMLBookmarks parses Netscape bookmark HTML into entries in document order.
// Folder names become tags on the bookmarks they contain.
func ParseHTMLBookmarks(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse bookmarks: %w", err)
	}

	w := walker{now: time.Now()}
	w.walk(doc)
	return w.entries, nil
}

// walker collects bookmarks while tracking the folders around them.
// In the Netscape format a folder is an <H3> followed by the <DL> holding it.
type walker struct {
	now     time.Time
	folders []string
	pending string
	entries []Entry
}

func (w *walker) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.H3:
			w.pending = textOf(n)
			return
		case atom.A:
			w.bookmark(n)
			return
		case atom.Dl:
			if w.pending != "" {
				w.folders = append(w.folders, w.pending)
				w.pending = ""
				defer func() { w.folders = w.folders[:len(w.folders)-1] }()
			}
		}
	}

	for c := range n.ChildNodes() {
		w.walk(c)
	}
}

func (w *walker) bookmark(n *html.Node) {
	href := attr(n, "href")
	if href == "" {
		return
	}

	title := textOf(n)
	if title == "" {
		title = href
	}

	createdAt := w.now
	if ts, err := strconv.ParseInt(attr(n, "add_date"), 10, 64); err == nil {
		createdAt = time.Unix(ts, 0)
	}

	w.entries = append(w.entries, Entry{
		Title:     title,
		URL:       href,
		ShortCode: attr(n, "shortcuturl"),
		Tags:      mergeTags(w.folders, attr(n, "tags")),
		CreatedAt: createdAt,
	})
}

// mergeTags combines folder names with a comma separated TAGS value,
// keeping first occurrences. Never nil.
func mergeTags(folders []string, tagList string) []string {
	tags := make([]string, 0, len(folders))
	for _, tag := range slices.Concat(folders, strings.Split(tagList, ",")) {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Result summarises an import.
type Result struct {
	Added   []model.Link
	Skipped int // destinations already in the store
}

// Import adds entries to the store, skipping destinations it already holds.
// Imported links keep the file order at the front of the list. A SHORTCUTURL
// is kept as the custom slug unless another link already uses it.
func Import(store *model.Store, entries []Entry) Result {
	var result Result

	for _, e := range entries {
		if store.HasURL(e.URL) {
			result.Skipped++
			continue
		}

		slug := e.ShortCode
		if slug != "" && store.HasShortCode(slug) {
			slug = ""
		}

		link := model.NewLink(store, model.NewLinkParams{
			URL:        e.URL,
			Title:      e.Title,
			CustomSlug: slug,
			Tags:       e.Tags,
			CreatedAt:  e.CreatedAt,
		})
		// Insert after earlier imports so file order survives
		store.Links = slices.Insert(store.Links, len(result.Added), link)
		result.Added = append(result.Added, link)
	}

	return result
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// attr returns an attribute value. The parser lowercases attribute names.
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
