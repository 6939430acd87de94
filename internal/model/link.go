package model

import "time"

// DefaultTitle is used when a link is created without a title.
const DefaultTitle = "Untitled Link"

// Link represents a shortened URL with metadata.
type Link struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	OriginalURL string    `json:"originalUrl"`
	ShortCode   string    `json:"shortCode"`
	CustomSlug  string    `json:"customSlug,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Clicks      int       `json:"clicks"`
	Tags        []string  `json:"tags"`
}

// DefaultShortDomain is shown in front of every short code.
const DefaultShortDomain = "linkpro.co"

// ShortURL returns the display URL for the link, e.g. "linkpro.co/verao24".
func (l Link) ShortURL(domain string) string {
	return domain + "/" + l.ShortCode
}

// NewLinkParams holds parameters for creating a new Link.
type NewLinkParams struct {
	URL        string
	Title      string
	CustomSlug string
	Tags       []string
	CreatedAt  time.Time // zero = now
}

// NewLink creates a Link whose ID and short code do not collide with any
// link already in the store. A custom slug is used verbatim.
func NewLink(store *Store, params NewLinkParams) Link {
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	title := params.Title
	if title == "" {
		title = DefaultTitle
	}

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	code := params.CustomSlug
	if code == "" {
		code = GenerateShortCode(store, params.URL)
	}

	return Link{
		ID:          GenerateID(store, params.URL, createdAt),
		Title:       title,
		OriginalURL: params.URL,
		ShortCode:   code,
		CustomSlug:  params.CustomSlug,
		CreatedAt:   createdAt,
		Clicks:      0,
		Tags:        tags,
	}
}

// SeedLinks returns the fallback links used when nothing has been persisted.
func SeedLinks(now time.Time) []Link {
	return []Link{
		{
			ID:          "1",
			Title:       "Summer Campaign 2024",
			OriginalURL: "https://myshop.com/products/summer-collection-exclusive-offers?utm_source=ig",
			ShortCode:   "verao24",
			CreatedAt:   now,
			Clicks:      1245,
			Tags:        []string{"Marketing", "Ads"},
		},
		{
			ID:          "2",
			Title:       "Instagram Bio Landing Page",
			OriginalURL: "https://brand.com/links-hub?ref=bio",
			ShortCode:   "links",
			CreatedAt:   now.Add(-2 * 24 * time.Hour),
			Clicks:      856,
			Tags:        []string{"Social"},
		},
	}
}
