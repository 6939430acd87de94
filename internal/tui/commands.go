package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/lp/internal/ai"
	"github.com/nikbrunner/lp/internal/model"
)

// StoreReloadedMsg replaces the store after it changed on disk.
type StoreReloadedMsg struct {
	Store *model.Store
}

// linkReadyMsg fires when the creation delay is over.
type linkReadyMsg struct {
	params model.NewLinkParams
}

// suggestionsMsg carries slug ideas for request gen.
type suggestionsMsg struct {
	gen   int
	slugs []string
}

// insightsMsg carries insights for request gen.
type insightsMsg struct {
	gen      int
	insights []ai.Insight
}

// copiedResetMsg hides the "copied" marker set by copy gen.
type copiedResetMsg struct {
	gen int
}

type openResultMsg struct {
	url string
	err error
}

// createLinkCmd waits out the creation delay.
func createLinkCmd(delay time.Duration, params model.NewLinkParams) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return linkReadyMsg{params: params}
	})
}

// suggestCmd runs one slug request. cancel is released when it returns.
func suggestCmd(ctx context.Context, cancel context.CancelFunc, s Suggester, gen int, url, description string) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		return suggestionsMsg{gen: gen, slugs: s.SuggestSlugs(ctx, url, description)}
	}
}

// insightsCmd runs one insight request. cancel is released when it returns.
func insightsCmd(ctx context.Context, cancel context.CancelFunc, in Insighter, gen int, link model.Link) tea.Cmd {
	return func() tea.Msg {
		defer cancel()
		return insightsMsg{gen: gen, insights: in.LinkInsights(ctx, link)}
	}
}

func copiedResetCmd(gen int) tea.Cmd {
	return tea.Tick(copiedDuration, func(time.Time) tea.Msg {
		return copiedResetMsg{gen: gen}
	})
}

func openCmd(opener func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return openResultMsg{url: url, err: opener(url)}
	}
}
