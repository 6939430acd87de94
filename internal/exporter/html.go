package exporter

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/lp/internal/model"
)

// Format selects the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/links-export-YYYY-MM-DD.<ext>
func DefaultExportPath(format Format) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("links-export-%s.%s", time.Now().Format("2006-01-02"), format)
	return filepath.Join(home, "Downloads", filename), nil
}

// FormatForPath picks the format from the file extension. Defaults to CSV.
func FormatForPath(path string) Format {
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".html" || ext == ".htm" {
		return FormatHTML
	}
	return FormatCSV
}

// ExportHTML exports the links to Netscape bookmark HTML format.
// Tags go to the TAGS attribute; the short code is kept in SHORTCUTURL.
func ExportHTML(store *model.Store) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Links</TITLE>\n")
	b.WriteString("<H1>Links</H1>\n")
	b.WriteString("<DL><p>\n")

	for _, link := range store.Links {
		fmt.Fprintf(&b,
			"    <DT><A HREF=\"%s\" ADD_DATE=\"%d\" SHORTCUTURL=\"%s\"",
			html.EscapeString(link.OriginalURL),
			link.CreatedAt.Unix(),
			html.EscapeString(link.ShortCode),
		)
		if len(link.Tags) > 0 {
			fmt.Fprintf(&b, " TAGS=\"%s\"", html.EscapeString(strings.Join(link.Tags, ",")))
		}
		fmt.Fprintf(&b, ">%s</A>\n", html.EscapeString(link.Title))
	}

	b.WriteString("</DL><p>\n")

	return b.String()
}

// WriteFile exports the store to path in the format implied by its extension.
func WriteFile(store *model.Store, path, shortDomain string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var content string
	switch FormatForPath(path) {
	case FormatHTML:
		content = ExportHTML(store)
	default:
		var err error
		content, err = ExportCSV(store, shortDomain)
		if err != nil {
			return err
		}
	}

	return os.WriteFile(path, []byte(content), 0644)
}
