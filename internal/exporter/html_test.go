package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nikbrunner/lp/internal/model"
)

func TestExportHTML_EmptyStore(t *testing.T) {
	html := ExportHTML(model.NewStore(nil))

	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<TITLE>Links</TITLE>") {
		t.Error("expected TITLE element")
	}
	if strings.Contains(html, "<A ") {
		t.Error("expected no anchors for empty store")
	}
}

func TestExportHTML_Link(t *testing.T) {
	store := model.NewStore([]model.Link{{
		ID:          "1",
		Title:       "Tom & Jerry",
		OriginalURL: "https://example.com/?a=1&b=2",
		ShortCode:   "tj",
		CreatedAt:   time.Unix(1700000000, 0),
		Tags:        []string{"Marketing", "Ads"},
	}})

	html := ExportHTML(store)

	if !strings.Contains(html, `HREF="https://example.com/?a=1&amp;b=2"`) {
		t.Errorf("expected escaped URL, got:\n%s", html)
	}
	if !strings.Contains(html, `ADD_DATE="1700000000"`) {
		t.Error("expected ADD_DATE timestamp")
	}
	if !strings.Contains(html, `SHORTCUTURL="tj"`) {
		t.Error("expected short code")
	}
	if !strings.Contains(html, `TAGS="Marketing,Ads"`) {
		t.Error("expected tags attribute")
	}
	if !strings.Contains(html, "Tom &amp; Jerry</A>") {
		t.Error("expected escaped title")
	}
}

func TestExportHTML_PreservesOrder(t *testing.T) {
	store := model.NewStore([]model.Link{
		{ID: "2", Title: "Newest", OriginalURL: "https://b.com"},
		{ID: "1", Title: "Oldest", OriginalURL: "https://a.com"},
	})

	html := ExportHTML(store)

	if strings.Index(html, "Newest") > strings.Index(html, "Oldest") {
		t.Error("expected list order to be preserved")
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"links.csv", FormatCSV},
		{"links.html", FormatHTML},
		{"links.HTM", FormatHTML},
		{"links", FormatCSV},
	}

	for _, tt := range tests {
		if got := FormatForPath(tt.path); got != tt.want {
			t.Errorf("FormatForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store := model.NewStore(model.SeedLinks(time.Now()))

	csvPath := filepath.Join(dir, "links.csv")
	if err := WriteFile(store, csvPath, "linkpro.co"); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "id,title,originalUrl") {
		t.Errorf("expected CSV header, got %q", string(data))
	}

	htmlPath := filepath.Join(dir, "links.html")
	if err := WriteFile(store, htmlPath, "linkpro.co"); err != nil {
		t.Fatalf("failed to write html: %v", err)
	}
	data, err = os.ReadFile(htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "NETSCAPE-Bookmark-file-1") {
		t.Error("expected HTML export")
	}
}
