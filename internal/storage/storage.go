package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nikbrunner/lp/internal/logging"
	"github.com/nikbrunner/lp/internal/model"
)

// LinksKey is the key under which the link list is persisted.
const LinksKey = "linkpro_links"

// ErrMalformed marks a persisted link list that is not a JSON array.
var ErrMalformed = errors.New("persisted links are malformed")

// Links persists the link list under a single backend key.
type Links struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time
}

// LinksParams holds parameters for creating Links.
type LinksParams struct {
	Backend Backend
	Logger  *slog.Logger     // optional, discards if nil
	Now     func() time.Time // optional, used for seed timestamps
}

// NewLinks creates a Links persister over the given backend.
func NewLinks(params LinksParams) *Links {
	logger := params.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Links{backend: params.Backend, logger: logger, now: now}
}

// Load reads the persisted list.
// Returns the seed list if nothing is stored or the stored value is malformed.
func (l *Links) Load() (*model.Store, error) {
	store, err := l.Reload()
	switch {
	case errors.Is(err, ErrNotFound):
		return model.NewStore(model.SeedLinks(l.now())), nil
	case errors.Is(err, ErrMalformed):
		l.logger.Warn("using seed list", "key", LinksKey, "error", err)
		return model.NewStore(model.SeedLinks(l.now())), nil
	case err != nil:
		return nil, err
	}
	return store, nil
}

// Reload reads the persisted list without falling back to the seed list.
// A missing key returns ErrNotFound; empty, truncated or null data returns
// ErrMalformed. Used after external changes, where seeding would replace
// the user's links.
func (l *Links) Reload() (*model.Store, error) {
	data, err := l.backend.Get(LinksKey)
	if err != nil {
		return nil, err
	}

	var links []model.Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if links == nil {
		// JSON null decodes without error
		return nil, fmt.Errorf("%w: null", ErrMalformed)
	}
	return model.NewStore(links), nil
}

// Save writes the list verbatim. An empty list is never written.
func (l *Links) Save(store *model.Store) error {
	if store == nil || store.Len() == 0 {
		return nil
	}

	data, err := json.Marshal(store.Links)
	if err != nil {
		return err
	}

	return l.backend.Set(LinksKey, data)
}

// DefaultDir returns the default data directory: ~/.config/lp
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "lp"), nil
}

// OpenBackend opens the backend selected by the config.
// The returned close function releases database handles.
func OpenBackend(cfg *Config, dir string) (Backend, func() error, error) {
	switch cfg.Backend {
	case BackendSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = filepath.Join(dir, "links.db")
		}
		db, err := NewSQLiteBackend(dsn)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return NewFileBackend(dir), func() error { return nil }, nil
	}
}
