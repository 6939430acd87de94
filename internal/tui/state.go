package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/nikbrunner/lp/internal/ai"
	"github.com/nikbrunner/lp/internal/analytics"
	"github.com/nikbrunner/lp/internal/model"
	"github.com/nikbrunner/lp/internal/tui/layout"
)

// View is the screen currently shown.
type View int

const (
	ViewDashboard View = iota
	ViewAnalytics
)

func (v View) String() string {
	if v == ViewAnalytics {
		return "analytics"
	}
	return "dashboard"
}

// Mode decides where key presses go.
type Mode int

const (
	ModeNormal Mode = iota
	ModeForm        // typing into the creation form
	ModeFilter      // typing a filter query
	ModeHelp        // help overlay
)

// FormField identifies a creation form input.
type FormField int

const (
	FieldURL FormField = iota
	FieldTitle
	FieldSlug
	fieldCount
)

// FormState holds the creation form.
type FormState struct {
	URL   textinput.Model
	Title textinput.Model
	Slug  textinput.Model
	Focus FormField

	Submitting  bool     // creation delay running, submit disabled
	Suggesting  bool     // slug request in flight
	Suggestions []string // last fetched slug ideas

	suggestGen    int
	suggestCancel context.CancelFunc
}

// NewFormState creates a FormState with initialized inputs.
func NewFormState(cfg layout.LayoutConfig) FormState {
	url := textinput.New()
	url.Placeholder = "https://example.com/a-very-long-page"
	url.CharLimit = cfg.Input.URLCharLimit
	url.Width = cfg.Input.URLWidth
	url.Prompt = ""

	title := textinput.New()
	title.Placeholder = "Campaign title"
	title.CharLimit = cfg.Input.TitleCharLimit
	title.Width = cfg.Input.FieldWidth
	title.Prompt = ""

	slug := textinput.New()
	slug.Placeholder = "custom-slug"
	slug.CharLimit = cfg.Input.SlugCharLimit
	slug.Width = cfg.Input.FieldWidth
	slug.Prompt = ""

	return FormState{URL: url, Title: title, Slug: slug}
}

// input returns the focused input.
func (f *FormState) input(field FormField) *textinput.Model {
	switch field {
	case FieldTitle:
		return &f.Title
	case FieldSlug:
		return &f.Slug
	default:
		return &f.URL
	}
}

// FocusField moves focus to field and blurs the others.
func (f *FormState) FocusField(field FormField) {
	f.Focus = field
	for i := FormField(0); i < fieldCount; i++ {
		if i == field {
			f.input(i).Focus()
		} else {
			f.input(i).Blur()
		}
	}
}

// Blur removes focus from every input.
func (f *FormState) Blur() {
	f.URL.Blur()
	f.Title.Blur()
	f.Slug.Blur()
}

// cancelSuggest drops any in-flight slug request.
func (f *FormState) cancelSuggest() {
	if f.suggestCancel != nil {
		f.suggestCancel()
		f.suggestCancel = nil
	}
	f.suggestGen++
	f.Suggesting = false
}

// Reset clears all inputs and suggestions after a link is created.
func (f *FormState) Reset() {
	f.cancelSuggest()
	f.URL.Reset()
	f.Title.Reset()
	f.Slug.Reset()
	f.Suggestions = nil
	f.Submitting = false
}

// DetailState holds the analytics view for the selected link.
type DetailState struct {
	Link     *model.Link
	Stats    analytics.Stats
	Insights []ai.Insight
	Loading  bool

	gen    int
	cancel context.CancelFunc
}

// stop cancels the in-flight insight request and invalidates its response.
func (d *DetailState) stop() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
	d.Loading = false
}

// Clear stops any request and forgets the selected link.
func (d *DetailState) Clear() {
	d.stop()
	d.Link = nil
	d.Insights = nil
	d.Stats = analytics.Stats{}
}

// FilterState holds the list filter.
type FilterState struct {
	Input textinput.Model
	Query string // applied query, kept after the input closes
}

// NewFilterState creates a FilterState with an initialized input.
func NewFilterState(cfg layout.LayoutConfig) FilterState {
	input := textinput.New()
	input.Placeholder = "Filter..."
	input.CharLimit = cfg.Input.FilterCharLimit
	input.Width = cfg.Input.FilterWidth
	return FilterState{Input: input}
}

// Reset clears the filter.
func (f *FilterState) Reset() {
	f.Input.Reset()
	f.Input.Blur()
	f.Query = ""
}

// MessageType is the kind of status line message.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)
