package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/lp/internal/ai"
	"github.com/nikbrunner/lp/internal/logging"
	"github.com/nikbrunner/lp/internal/model"
	"github.com/nikbrunner/lp/internal/tui/layout"
)

// copiedDuration is how long the "copied" marker stays on a card.
const copiedDuration = 2 * time.Second

// Saver persists the link list after a mutation.
type Saver interface {
	Save(store *model.Store) error
}

// Suggester returns slug ideas for a destination URL.
type Suggester interface {
	SuggestSlugs(ctx context.Context, url, description string) []string
}

// Insighter returns marketing insights for a link.
type Insighter interface {
	LinkInsights(ctx context.Context, link model.Link) []ai.Insight
}

// App is the main bubbletea model for the link dashboard.
type App struct {
	store     *model.Store
	saver     Saver
	suggester Suggester
	insighter Insighter
	clipboard func(string) error
	opener    func(string) error
	logger    *slog.Logger
	now       func() time.Time

	keys         KeyMap
	styles       Styles
	layoutConfig layout.LayoutConfig
	shortDomain  string
	createDelay  time.Duration

	view    View
	mode    Mode
	items   []Item
	cursor  int
	spinner spinner.Model

	// For gg command
	lastKeyWasG bool

	form   FormState
	detail DetailState
	filter FilterState

	copiedID string
	copyGen  int

	messageText string
	messageType MessageType

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Store        *model.Store
	Saver        Saver                // optional, nothing is persisted if nil
	Suggester    Suggester            // optional, slug ideas are disabled if nil
	Insighter    Insighter            // optional, the insight panel stays empty if nil
	Clipboard    func(string) error   // optional, defaults to the system clipboard
	Opener       func(string) error   // optional, opening destinations is disabled if nil
	Logger       *slog.Logger         // optional, discards if nil
	Now          func() time.Time     // optional, used for createdAt
	ShortDomain  string               // optional, defaults to linkpro.co
	CreateDelay  time.Duration        // delay before a submitted link appears
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
}

// DefaultShortDomain is used when AppParams.ShortDomain is empty.
const DefaultShortDomain = model.DefaultShortDomain

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	layoutCfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		layoutCfg = *params.LayoutConfig
	}

	store := params.Store
	if store == nil {
		store = model.NewStore(nil)
	}

	logger := params.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	now := params.Now
	if now == nil {
		now = time.Now
	}

	copyFn := params.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	domain := params.ShortDomain
	if domain == "" {
		domain = DefaultShortDomain
	}

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Suggestion

	app := App{
		store:        store,
		saver:        params.Saver,
		suggester:    params.Suggester,
		insighter:    params.Insighter,
		clipboard:    copyFn,
		opener:       params.Opener,
		logger:       logger,
		now:          now,
		keys:         keys,
		styles:       styles,
		layoutConfig: layoutCfg,
		shortDomain:  domain,
		createDelay:  params.CreateDelay,
		view:         ViewDashboard,
		mode:         ModeNormal,
		spinner:      spin,
		form:         NewFormState(layoutCfg),
		filter:       NewFilterState(layoutCfg),
		width:        80,
		height:       24,
	}

	app.refreshItems()
	return app
}

// refreshItems rebuilds the visible list from the store and filter.
func (a *App) refreshItems() {
	a.items = buildItems(a.store.Links, a.filter.Query)
	if a.cursor >= len(a.items) {
		a.cursor = max(len(a.items)-1, 0)
	}
}

// WithDimensions returns a copy of the app with the given terminal size.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// CurrentView returns the screen being shown.
func (a App) CurrentView() View {
	return a.view
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Items returns the visible list rows.
func (a App) Items() []Item {
	return a.items
}

// Store returns the underlying store.
func (a App) Store() *model.Store {
	return a.store
}

// SelectedLink returns the link shown in the analytics view, or nil.
func (a App) SelectedLink() *model.Link {
	return a.detail.Link
}

// Insights returns the insights for the selected link.
func (a App) Insights() []ai.Insight {
	return a.detail.Insights
}

// InsightsLoading reports whether an insight request is in flight.
func (a App) InsightsLoading() bool {
	return a.detail.Loading
}

// FormValues returns the creation form inputs.
func (a App) FormValues() (url, title, slug string) {
	return a.form.URL.Value(), a.form.Title.Value(), a.form.Slug.Value()
}

// FormFocus returns the focused form field.
func (a App) FormFocus() FormField {
	return a.form.Focus
}

// Submitting reports whether the creation delay is running.
func (a App) Submitting() bool {
	return a.form.Submitting
}

// Suggestions returns the last fetched slug ideas.
func (a App) Suggestions() []string {
	return a.form.Suggestions
}

// CopiedID returns the ID of the link showing the "copied" marker.
func (a App) CopiedID() string {
	return a.copiedID
}

// FilterQuery returns the applied filter.
func (a App) FilterQuery() string {
	return a.filter.Query
}

// Message returns the status line text.
func (a App) Message() string {
	return a.messageText
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case linkReadyMsg:
		return a.handleLinkReady(msg)

	case suggestionsMsg:
		return a.handleSuggestions(msg)

	case insightsMsg:
		return a.handleInsights(msg)

	case copiedResetMsg:
		if msg.gen == a.copyGen {
			a.copiedID = ""
		}
		return a, nil

	case openResultMsg:
		if msg.err != nil {
			a.logger.Warn("open destination failed", "url", msg.url, "error", msg.err)
			a.setMessage(MessageError, "Open failed: "+msg.err.Error())
		}
		return a, nil

	case StoreReloadedMsg:
		return a.handleReload(msg)

	case spinner.TickMsg:
		if !a.detail.Loading && !a.form.Suggesting {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}

// setMessage sets the status line message.
func (a *App) setMessage(msgType MessageType, text string) {
	a.messageType = msgType
	a.messageText = text
}

// clearMessage clears the status line message.
func (a *App) clearMessage() {
	a.messageText = ""
}

// saveStore persists the current store. Failures are shown, not fatal.
func (a *App) saveStore() {
	if a.saver == nil {
		return
	}
	if err := a.saver.Save(a.store); err != nil {
		a.logger.Error("save failed", "error", err)
		a.setMessage(MessageError, "Save failed: "+err.Error())
	}
}

// currentLink returns the link under the cursor, or nil.
func (a App) currentLink() *model.Link {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return nil
	}
	link := a.items[a.cursor].Link
	return &link
}
