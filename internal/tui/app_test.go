package tui_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/lp/internal/ai"
	"github.com/nikbrunner/lp/internal/model"
	"github.com/nikbrunner/lp/internal/tui"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeSaver struct {
	saves int
	last  []model.Link
	err   error
}

func (f *fakeSaver) Save(store *model.Store) error {
	f.saves++
	f.last = append([]model.Link(nil), store.Links...)
	return f.err
}

type fakeSuggester struct {
	slugs []string
	calls int
}

func (f *fakeSuggester) SuggestSlugs(_ context.Context, _, _ string) []string {
	f.calls++
	return f.slugs
}

type fakeInsighter struct {
	mu      sync.Mutex
	results [][]ai.Insight
	ctxErrs []error
	calls   int
}

func (f *fakeInsighter) LinkInsights(ctx context.Context, _ model.Link) []ai.Insight {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	res := f.results[min(f.calls, len(f.results)-1)]
	f.calls++
	return res
}

func newTestApp(t *testing.T, params tui.AppParams) tui.App {
	t.Helper()
	if params.Store == nil {
		params.Store = model.NewStore(model.SeedLinks(testNow))
	}
	if params.Clipboard == nil {
		params.Clipboard = func(string) error { return nil }
	}
	params.Now = func() time.Time { return testNow }
	return tui.NewApp(params).WithDimensions(120, 60)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, app tui.App, msg tea.Msg) (tui.App, tea.Cmd) {
	t.Helper()
	updated, cmd := app.Update(msg)
	return updated.(tui.App), cmd
}

// collect executes cmd and every batched child, skipping spinner ticks.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch m := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, collect(c)...)
		}
		return out
	case spinner.TickMsg:
		return nil
	}
	return []tea.Msg{msg}
}

// settle runs cmd and feeds its messages back into the app.
func settle(t *testing.T, app tui.App, cmd tea.Cmd) tui.App {
	t.Helper()
	for _, msg := range collect(cmd) {
		app, _ = press(t, app, msg)
	}
	return app
}

func typeInto(t *testing.T, app tui.App, s string) tui.App {
	t.Helper()
	app, _ = press(t, app, runes(s))
	return app
}

func TestApp_Navigation(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})
	assert.Equal(t, app.Cursor(), 0)

	app, _ = press(t, app, runes("j"))
	assert.Equal(t, app.Cursor(), 1)

	// j at bottom stays
	app, _ = press(t, app, runes("j"))
	assert.Equal(t, app.Cursor(), 1)

	app, _ = press(t, app, runes("g"))
	app, _ = press(t, app, runes("g"))
	assert.Equal(t, app.Cursor(), 0)

	app, _ = press(t, app, runes("G"))
	assert.Equal(t, app.Cursor(), 1)

	app, _ = press(t, app, runes("k"))
	assert.Equal(t, app.Cursor(), 0)
}

func TestApp_CreateLink(t *testing.T) {
	saver := &fakeSaver{}
	app := newTestApp(t, tui.AppParams{Saver: saver})
	before := app.Store().Len()

	app, _ = press(t, app, runes("a"))
	assert.Equal(t, app.Mode(), tui.ModeForm)

	app = typeInto(t, app, "https://example.com/x")
	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Assert(t, app.Submitting())
	assert.Assert(t, cmd != nil)

	// Submit is disabled while the delay runs
	app, again := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Assert(t, again == nil)

	app = settle(t, app, cmd)

	links := app.Store().Links
	assert.Equal(t, len(links), before+1)
	created := links[0]
	assert.Equal(t, created.OriginalURL, "https://example.com/x")
	assert.Equal(t, created.Title, model.DefaultTitle)
	assert.Equal(t, created.Clicks, 0)
	assert.Assert(t, created.Tags != nil)
	assert.Assert(t, is.Len(created.Tags, 0))
	assert.Assert(t, created.ID != "")
	assert.Assert(t, created.ShortCode != "")
	for _, l := range links[1:] {
		assert.Assert(t, l.ID != created.ID)
		assert.Assert(t, l.ShortCode != created.ShortCode)
	}
	assert.Assert(t, created.CreatedAt.Equal(testNow))

	assert.Equal(t, saver.saves, 1)
	assert.Equal(t, len(saver.last), before+1)

	url, title, slug := app.FormValues()
	assert.Equal(t, url+title+slug, "")
	assert.Assert(t, !app.Submitting())
	assert.Equal(t, app.Cursor(), 0)
}

func TestApp_CreateLink_CustomSlugAndTitle(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app, _ = press(t, app, runes("a"))
	app = typeInto(t, app, "https://example.com/spring")
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, app.FormFocus(), tui.FieldTitle)
	app = typeInto(t, app, "Spring Sale")
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyTab})
	app = typeInto(t, app, "spring")

	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	app = settle(t, app, cmd)

	created := app.Store().Links[0]
	assert.Equal(t, created.ShortCode, "spring")
	assert.Equal(t, created.CustomSlug, "spring")
	assert.Equal(t, created.Title, "Spring Sale")
}

func TestApp_CreateLink_EmptyURLIsNoop(t *testing.T) {
	saver := &fakeSaver{}
	app := newTestApp(t, tui.AppParams{Saver: saver})
	before := app.Store().Len()

	app, _ = press(t, app, runes("a"))
	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Assert(t, cmd == nil)
	assert.Assert(t, !app.Submitting())
	assert.Equal(t, app.Store().Len(), before)
	assert.Equal(t, saver.saves, 0)
}

func TestApp_CreateLink_SaveErrorShown(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	app := newTestApp(t, tui.AppParams{Saver: saver})

	app, _ = press(t, app, runes("a"))
	app = typeInto(t, app, "https://example.com/y")
	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	app = settle(t, app, cmd)

	// The link stays in memory even when persisting fails
	assert.Equal(t, app.Store().Links[0].OriginalURL, "https://example.com/y")
	assert.Assert(t, is.Contains(app.Message(), "disk full"))
}

func TestApp_SelectAndBack(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})
	assert.Equal(t, app.CurrentView(), tui.ViewDashboard)

	app, _ = press(t, app, runes("j"))
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.CurrentView(), tui.ViewAnalytics)
	assert.Equal(t, app.CurrentView().String(), "analytics")
	assert.Assert(t, app.SelectedLink() != nil)
	assert.Equal(t, app.SelectedLink().ID, "2")

	app, _ = press(t, app, runes("h"))
	assert.Equal(t, app.CurrentView(), tui.ViewDashboard)
	assert.Assert(t, app.SelectedLink() == nil)
}

func TestApp_Insights(t *testing.T) {
	insighter := &fakeInsighter{results: [][]ai.Insight{
		{{Title: "Shorter title", Description: "Trim it", Severity: "medium"}},
	}}
	app := newTestApp(t, tui.AppParams{Insighter: insighter})

	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Assert(t, app.InsightsLoading())

	app = settle(t, app, cmd)
	assert.Assert(t, !app.InsightsLoading())
	assert.Equal(t, len(app.Insights()), 1)
	assert.Equal(t, app.Insights()[0].Title, "Shorter title")

	// r issues a fresh request
	app, cmd = press(t, app, runes("r"))
	assert.Assert(t, app.InsightsLoading())
	app = settle(t, app, cmd)
	assert.Equal(t, insighter.calls, 2)
}

func TestApp_StaleInsightsDropped(t *testing.T) {
	insighter := &fakeInsighter{results: [][]ai.Insight{
		{{Title: "stale", Severity: "low"}},
		{{Title: "fresh", Severity: "high"}},
	}}
	app := newTestApp(t, tui.AppParams{Insighter: insighter})

	app, first := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	app, second := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	app = settle(t, app, first)
	assert.Assert(t, app.InsightsLoading(), "stale response must not finish loading")
	assert.Assert(t, is.Len(app.Insights(), 0))

	app = settle(t, app, second)
	assert.Equal(t, len(app.Insights()), 1)
	assert.Equal(t, app.Insights()[0].Title, "fresh")

	assert.ErrorIs(t, insighter.ctxErrs[0], context.Canceled)
	assert.NilError(t, insighter.ctxErrs[1])
}

func TestApp_InsightsAfterBackDropped(t *testing.T) {
	insighter := &fakeInsighter{results: [][]ai.Insight{{{Title: "late"}}}}
	app := newTestApp(t, tui.AppParams{Insighter: insighter})

	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	app, _ = press(t, app, runes("h"))
	app = settle(t, app, cmd)

	assert.Equal(t, app.CurrentView(), tui.ViewDashboard)
	assert.Assert(t, is.Len(app.Insights(), 0))
}

func TestApp_Copy(t *testing.T) {
	var copied string
	app := newTestApp(t, tui.AppParams{
		Clipboard: func(s string) error {
			copied = s
			return nil
		},
	})

	app, cmd := press(t, app, runes("y"))
	assert.Equal(t, copied, "linkpro.co/verao24")
	assert.Equal(t, app.CopiedID(), "1")
	assert.Assert(t, is.Contains(layoutPlain(app), "copied!"))

	// The marker clears after the reset tick
	app = settle(t, app, cmd)
	assert.Equal(t, app.CopiedID(), "")
}

func TestApp_CopyError(t *testing.T) {
	app := newTestApp(t, tui.AppParams{
		Clipboard: func(string) error { return errors.New("no clipboard") },
	})

	app, cmd := press(t, app, runes("y"))
	assert.Assert(t, cmd == nil)
	assert.Equal(t, app.CopiedID(), "")
	assert.Assert(t, is.Contains(app.Message(), "no clipboard"))
}

func TestApp_Open(t *testing.T) {
	var opened string
	app := newTestApp(t, tui.AppParams{
		Opener: func(url string) error {
			opened = url
			return nil
		},
	})

	app, cmd := press(t, app, runes("o"))
	app = settle(t, app, cmd)
	assert.Equal(t, opened, app.Store().Links[0].OriginalURL)
	assert.Equal(t, app.Message(), "")
}

func TestApp_Filter(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})
	assert.Equal(t, len(app.Items()), 2)

	app, _ = press(t, app, runes("/"))
	assert.Equal(t, app.Mode(), tui.ModeFilter)
	app = typeInto(t, app, "bio")
	assert.Equal(t, app.FilterQuery(), "bio")
	assert.Equal(t, len(app.Items()), 1)
	assert.Equal(t, app.Items()[0].Link.ID, "2")

	// Enter keeps the filter applied
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.Mode(), tui.ModeNormal)
	assert.Equal(t, len(app.Items()), 1)

	// Selecting opens the filtered link
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.SelectedLink().ID, "2")
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})

	// Esc on the dashboard clears it
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, app.FilterQuery(), "")
	assert.Equal(t, len(app.Items()), 2)
}

func TestApp_Suggestions(t *testing.T) {
	suggester := &fakeSuggester{slugs: []string{"summer-deal", "sun24"}}
	app := newTestApp(t, tui.AppParams{Suggester: suggester})

	app, _ = press(t, app, runes("a"))

	// No request without a URL
	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Assert(t, cmd == nil)

	app = typeInto(t, app, "https://example.com/summer")
	app, cmd = press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	app = settle(t, app, cmd)

	assert.DeepEqual(t, app.Suggestions(), []string{"summer-deal", "sun24"})

	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	_, _, slug := app.FormValues()
	assert.Equal(t, slug, "sun24")

	// Out of range picks are ignored
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'5'}, Alt: true})
	_, _, slug = app.FormValues()
	assert.Equal(t, slug, "sun24")
}

func TestApp_SuggestionsAfterSubmitDropped(t *testing.T) {
	suggester := &fakeSuggester{slugs: []string{"late"}}
	app := newTestApp(t, tui.AppParams{Suggester: suggester})

	app, _ = press(t, app, runes("a"))
	app = typeInto(t, app, "https://example.com/z")
	app, suggest := press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})
	app, create := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	app = settle(t, app, suggest)
	assert.Assert(t, is.Len(app.Suggestions(), 0))

	app = settle(t, app, create)
	assert.Assert(t, is.Len(app.Suggestions(), 0))
	assert.Equal(t, app.Store().Links[0].OriginalURL, "https://example.com/z")
}

func TestApp_SuggestWithoutClient(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app, _ = press(t, app, runes("a"))
	app = typeInto(t, app, "https://example.com")
	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Assert(t, cmd == nil)
	assert.Assert(t, is.Contains(app.Message(), "GEMINI_API_KEY"))
}

func TestApp_FormEscKeepsValues(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app, _ = press(t, app, runes("a"))
	app = typeInto(t, app, "https://example.com/q")
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, app.Mode(), tui.ModeNormal)
	url, _, _ := app.FormValues()
	assert.Equal(t, url, "https://example.com/q")

	// q quits outside the form
	_, cmd := press(t, app, runes("q"))
	assert.Assert(t, cmd != nil)
}

func TestApp_StoreReloaded(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app, _ = press(t, app, runes("G"))
	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, app.SelectedLink().ID, "2")

	reloaded := model.NewStore([]model.Link{model.SeedLinks(testNow)[0]})
	app, _ = press(t, app, tui.StoreReloadedMsg{Store: reloaded})

	assert.Equal(t, app.CurrentView(), tui.ViewDashboard)
	assert.Assert(t, app.SelectedLink() == nil)
	assert.Equal(t, len(app.Items()), 1)
	assert.Equal(t, app.Cursor(), 0)
}

func TestApp_StoreReloaded_OwnSaveIgnored(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app, _ = press(t, app, runes("a"))
	app = typeInto(t, app, "https://example.com/own")
	app, cmd := press(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	app = settle(t, app, cmd)
	msg := app.Message()

	same := model.NewStore(append([]model.Link(nil), app.Store().Links...))
	app, _ = press(t, app, tui.StoreReloadedMsg{Store: same})

	assert.Equal(t, app.Message(), msg)
	assert.Equal(t, len(app.Items()), 3)
}

func TestApp_Help(t *testing.T) {
	app := newTestApp(t, tui.AppParams{})

	app, _ = press(t, app, runes("?"))
	assert.Equal(t, app.Mode(), tui.ModeHelp)
	assert.Assert(t, is.Contains(layoutPlain(app), "AI slug ideas"))

	app, _ = press(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, app.Mode(), tui.ModeNormal)
}
