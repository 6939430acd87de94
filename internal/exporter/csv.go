package exporter

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/lp/internal/model"
)

var csvHeader = []string{"id", "title", "originalUrl", "shortUrl", "createdAt", "clicks", "tags"}

// ExportCSV renders the links as CSV, one row per link in list order.
// Tags are joined with ";".
func ExportCSV(store *model.Store, shortDomain string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, link := range store.Links {
		row := []string{
			link.ID,
			link.Title,
			link.OriginalURL,
			link.ShortURL(shortDomain),
			link.CreatedAt.UTC().Format(time.RFC3339),
			strconv.Itoa(link.Clicks),
			strings.Join(link.Tags, ";"),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return b.String(), nil
}
