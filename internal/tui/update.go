package tui

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/lp/internal/analytics"
	"github.com/nikbrunner/lp/internal/model"
)

// handleKey routes a key press by mode, then by view.
func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeHelp:
		return a.handleHelpMode(msg)
	case ModeForm:
		return a.handleFormMode(msg)
	case ModeFilter:
		return a.handleFilterMode(msg)
	}

	if a.view == ViewAnalytics {
		return a.handleAnalyticsKeys(msg)
	}
	return a.handleDashboardKeys(msg)
}

func (a App) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Help), key.Matches(msg, a.keys.Cancel), msg.String() == "q":
		a.mode = ModeNormal
	case msg.String() == "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

func (a App) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if len(a.items) > 0 && a.cursor < len(a.items)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}

	case key.Matches(msg, a.keys.Select):
		if link := a.currentLink(); link != nil {
			return a.openDetail(*link)
		}

	case key.Matches(msg, a.keys.Copy):
		if link := a.currentLink(); link != nil {
			return a.copyLink(*link)
		}

	case key.Matches(msg, a.keys.Open):
		if link := a.currentLink(); link != nil {
			return a.openDestination(*link)
		}

	case key.Matches(msg, a.keys.NewLink):
		a.mode = ModeForm
		a.clearMessage()
		a.form.FocusField(FieldURL)

	case key.Matches(msg, a.keys.Filter):
		a.mode = ModeFilter
		a.filter.Input.SetValue(a.filter.Query)
		a.filter.Input.CursorEnd()
		a.filter.Input.Focus()

	case key.Matches(msg, a.keys.Cancel):
		if a.filter.Query != "" {
			a.filter.Reset()
			a.cursor = 0
			a.refreshItems()
		}

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a App) handleAnalyticsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	link := a.detail.Link
	if link == nil {
		a.view = ViewDashboard
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Back):
		a.detail.Clear()
		a.view = ViewDashboard

	case key.Matches(msg, a.keys.Refresh):
		return a.requestInsights()

	case key.Matches(msg, a.keys.Copy):
		return a.copyLink(*link)

	case key.Matches(msg, a.keys.Open):
		return a.openDestination(*link)

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a App) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return a, tea.Quit

	case key.Matches(msg, a.keys.Cancel):
		a.mode = ModeNormal
		a.form.Blur()
		return a, nil

	case key.Matches(msg, a.keys.NextField):
		a.form.FocusField((a.form.Focus + 1) % fieldCount)
		return a, nil

	case key.Matches(msg, a.keys.PrevField):
		a.form.FocusField((a.form.Focus + fieldCount - 1) % fieldCount)
		return a, nil

	case key.Matches(msg, a.keys.Submit):
		return a.submitForm()

	case key.Matches(msg, a.keys.Suggest):
		return a.requestSuggestions()
	}

	for i, binding := range a.keys.UseSuggest {
		if key.Matches(msg, binding) {
			if i < len(a.form.Suggestions) {
				a.form.Slug.SetValue(a.form.Suggestions[i])
				a.form.Slug.CursorEnd()
			}
			return a, nil
		}
	}

	var cmd tea.Cmd
	input := a.form.input(a.form.Focus)
	*input, cmd = input.Update(msg)
	return a, cmd
}

func (a App) handleFilterMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		a.mode = ModeNormal
		a.filter.Input.Blur()
		return a, nil

	case tea.KeyEsc:
		a.mode = ModeNormal
		a.filter.Reset()
		a.cursor = 0
		a.refreshItems()
		return a, nil

	case tea.KeyCtrlC:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.filter.Input, cmd = a.filter.Input.Update(msg)
	if q := a.filter.Input.Value(); q != a.filter.Query {
		a.filter.Query = q
		a.cursor = 0
		a.refreshItems()
	}
	return a, cmd
}

// submitForm starts the creation delay. An empty URL does nothing.
func (a App) submitForm() (tea.Model, tea.Cmd) {
	if a.form.Submitting {
		return a, nil
	}

	url := strings.TrimSpace(a.form.URL.Value())
	if url == "" {
		return a, nil
	}

	// Suggestions that arrive after submit are for a form that no longer exists
	a.form.cancelSuggest()
	a.form.Submitting = true

	params := model.NewLinkParams{
		URL:        url,
		Title:      strings.TrimSpace(a.form.Title.Value()),
		CustomSlug: strings.TrimSpace(a.form.Slug.Value()),
	}
	return a, createLinkCmd(a.createDelay, params)
}

func (a App) handleLinkReady(msg linkReadyMsg) (tea.Model, tea.Cmd) {
	if !a.form.Submitting {
		return a, nil
	}

	params := msg.params
	params.CreatedAt = a.now()
	link := model.NewLink(a.store, params)

	a.store.Prepend(link)
	a.form.Reset()
	a.form.FocusField(FieldURL)
	a.setMessage(MessageSuccess, "Created "+link.ShortURL(a.shortDomain))
	a.saveStore()
	a.logger.Info("link created", "id", link.ID, "code", link.ShortCode)

	a.refreshItems()
	a.cursor = 0
	for i, item := range a.items {
		if item.Link.ID == link.ID {
			a.cursor = i
			break
		}
	}
	return a, nil
}

func (a App) requestSuggestions() (tea.Model, tea.Cmd) {
	if a.suggester == nil {
		a.setMessage(MessageWarning, "AI suggestions unavailable: GEMINI_API_KEY is not set")
		return a, nil
	}

	url := strings.TrimSpace(a.form.URL.Value())
	if url == "" || a.form.Submitting {
		return a, nil
	}

	a.form.cancelSuggest()
	ctx, cancel := context.WithCancel(context.Background())
	a.form.suggestCancel = cancel
	a.form.Suggesting = true

	cmd := suggestCmd(ctx, cancel, a.suggester, a.form.suggestGen, url, strings.TrimSpace(a.form.Title.Value()))
	return a, tea.Batch(cmd, a.spinner.Tick)
}

func (a App) handleSuggestions(msg suggestionsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.form.suggestGen {
		return a, nil
	}
	a.form.Suggesting = false
	a.form.suggestCancel = nil
	a.form.Suggestions = msg.slugs
	if len(msg.slugs) == 0 {
		a.setMessage(MessageWarning, "No slug ideas returned")
	}
	return a, nil
}

// openDetail switches to the analytics view and requests fresh insights.
func (a App) openDetail(link model.Link) (tea.Model, tea.Cmd) {
	a.detail.Clear()
	a.detail.Link = &link
	a.detail.Stats = analytics.MockStats(link)
	a.view = ViewAnalytics
	a.clearMessage()
	return a.requestInsights()
}

func (a App) requestInsights() (tea.Model, tea.Cmd) {
	a.detail.stop()
	a.detail.Insights = nil
	if a.insighter == nil || a.detail.Link == nil {
		return a, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.detail.cancel = cancel
	a.detail.Loading = true

	cmd := insightsCmd(ctx, cancel, a.insighter, a.detail.gen, *a.detail.Link)
	return a, tea.Batch(cmd, a.spinner.Tick)
}

func (a App) handleInsights(msg insightsMsg) (tea.Model, tea.Cmd) {
	if msg.gen != a.detail.gen || a.detail.Link == nil {
		return a, nil
	}
	a.detail.Loading = false
	a.detail.cancel = nil
	a.detail.Insights = msg.insights
	return a, nil
}

func (a App) copyLink(link model.Link) (tea.Model, tea.Cmd) {
	url := link.ShortURL(a.shortDomain)
	if err := a.clipboard(url); err != nil {
		a.logger.Warn("clipboard write failed", "error", err)
		a.setMessage(MessageError, "Copy failed: "+err.Error())
		return a, nil
	}

	a.copyGen++
	a.copiedID = link.ID
	a.setMessage(MessageSuccess, "Copied "+url)
	return a, copiedResetCmd(a.copyGen)
}

func (a App) openDestination(link model.Link) (tea.Model, tea.Cmd) {
	if a.opener == nil {
		a.setMessage(MessageWarning, "No browser opener configured")
		return a, nil
	}
	return a, openCmd(a.opener, link.OriginalURL)
}

// handleReload swaps in a store that changed on disk.
func (a App) handleReload(msg StoreReloadedMsg) (tea.Model, tea.Cmd) {
	// Our own saves come back through the watcher too
	if msg.Store == nil || sameIDs(a.store.Links, msg.Store.Links) {
		return a, nil
	}
	a.store = msg.Store
	a.refreshItems()

	if a.detail.Link != nil && !a.store.HasID(a.detail.Link.ID) {
		a.detail.Clear()
		a.view = ViewDashboard
	}
	a.setMessage(MessageInfo, "Links reloaded")
	return a, nil
}

func sameIDs(a, b []model.Link) bool {
	return slices.EqualFunc(a, b, func(x, y model.Link) bool {
		return x.ID == y.ID
	})
}
