package model

// Store holds the ordered list of links, newest first.
type Store struct {
	Links []Link `json:"links"`
}

// NewStore creates a Store with the given links.
func NewStore(links []Link) *Store {
	if links == nil {
		links = []Link{}
	}
	return &Store{Links: links}
}

// Prepend inserts a link at the front of the list.
func (s *Store) Prepend(link Link) {
	s.Links = append([]Link{link}, s.Links...)
}

// Len returns the number of links.
func (s *Store) Len() int {
	return len(s.Links)
}

// GetLinkByID finds a link by ID, returns nil if not found.
func (s *Store) GetLinkByID(id string) *Link {
	for i := range s.Links {
		if s.Links[i].ID == id {
			return &s.Links[i]
		}
	}
	return nil
}

// GetLinkByShortCode finds a link by short code, returns nil if not found.
func (s *Store) GetLinkByShortCode(code string) *Link {
	for i := range s.Links {
		if s.Links[i].ShortCode == code {
			return &s.Links[i]
		}
	}
	return nil
}

// HasID reports whether a link with the given ID exists.
func (s *Store) HasID(id string) bool {
	return s.GetLinkByID(id) != nil
}

// HasShortCode reports whether a link with the given short code exists.
func (s *Store) HasShortCode(code string) bool {
	return s.GetLinkByShortCode(code) != nil
}

// HasURL reports whether any link points at the given destination.
func (s *Store) HasURL(url string) bool {
	for _, l := range s.Links {
		if l.OriginalURL == url {
			return true
		}
	}
	return false
}
