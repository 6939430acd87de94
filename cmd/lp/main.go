package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/nikbrunner/lp/internal/ai"
	"github.com/nikbrunner/lp/internal/logging"
	"github.com/nikbrunner/lp/internal/storage"
	"github.com/nikbrunner/lp/internal/tui"
	"github.com/spf13/cobra"
)

// env is the loaded configuration and storage shared by every command.
type env struct {
	cfg     *storage.Config
	dir     string
	backend storage.Backend
	links   *storage.Links
	logger  *slog.Logger

	closers []func() error
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

// aiClient returns a client for the configured model, or ErrNoAPIKey.
func (e *env) aiClient() (*ai.Client, error) {
	return ai.NewClient(ai.Params{
		APIKey:  ai.APIKeyFromEnv(),
		Model:   e.cfg.Model,
		BaseURL: e.cfg.APIBaseURL,
		Timeout: e.cfg.RequestTimeout(),
		Logger:  e.logger,
	})
}

// openEnv loads .env, the config file and the storage backend.
// logOut receives log output; nil logs to <dir>/lp.log.
func openEnv(configPath string, logOut io.Writer) (*env, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	if configPath == "" {
		var err error
		configPath, err = storage.DefaultConfigFilePath()
		if err != nil {
			return nil, fmt.Errorf("getting config path: %w", err)
		}
	}

	cfg, err := storage.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	e := &env{cfg: cfg, dir: filepath.Dir(configPath)}
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	if logOut == nil {
		f, err := os.OpenFile(filepath.Join(e.dir, "lp.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		e.closers = append(e.closers, f.Close)
		logOut = f
	}
	e.logger = logging.NewLogger(cfg.LogLevel, logOut)

	backend, closeBackend, err := storage.OpenBackend(cfg, e.dir)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}
	e.closers = append(e.closers, closeBackend)
	e.backend = backend
	e.links = storage.NewLinks(storage.LinksParams{Backend: backend, Logger: e.logger})

	return e, nil
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "lp",
		Short: "Shorten links and inspect their analytics",
		Long: `lp is a terminal dashboard for short links.

Paste a long URL to get a short code, browse your links, and open the
analytics view for mock click stats and AI marketing insights.
Set GEMINI_API_KEY (or put it in .env) to enable the AI features.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/lp/config.json)")

	root.AddCommand(
		newAddCmd(&configPath),
		newListCmd(&configPath),
		newFindCmd(&configPath),
		newSuggestCmd(&configPath),
		newInsightsCmd(&configPath),
		newExportCmd(&configPath),
		newImportCmd(&configPath),
		newCheckCmd(&configPath),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI runs the full interactive dashboard.
func runTUI(configPath string) error {
	e, err := openEnv(configPath, nil)
	if err != nil {
		return err
	}
	defer e.close()

	store, err := e.links.Load()
	if err != nil {
		return fmt.Errorf("loading links: %w", err)
	}

	params := tui.AppParams{
		Store:       store,
		Saver:       e.links,
		Opener:      openURL,
		Logger:      e.logger,
		ShortDomain: e.cfg.ShortDomain,
		CreateDelay: e.cfg.CreateDelay(),
	}

	client, err := e.aiClient()
	switch {
	case err == nil:
		params.Suggester = client
		params.Insighter = client
	case errors.Is(err, ai.ErrNoAPIKey):
		e.logger.Info("AI features disabled", "reason", err)
	default:
		return err
	}

	p := tea.NewProgram(tui.NewApp(params), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if fb, ok := e.backend.(*storage.FileBackend); ok {
		go watchStore(ctx, e, fb.Path(storage.LinksKey), p)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

// watchStore reloads the link list when another process writes it.
func watchStore(ctx context.Context, e *env, path string, p *tea.Program) {
	err := storage.Watch(ctx, path, e.logger, func() {
		// Reload never seeds: a half-edited file must not replace the user's links.
		store, err := e.links.Reload()
		if err != nil {
			e.logger.Warn("ignoring external change", "path", path, "error", err)
			return
		}
		p.Send(tui.StoreReloadedMsg{Store: store})
	})
	if err != nil {
		e.logger.Warn("store watcher stopped", "path", path, "error", err)
	}
}
