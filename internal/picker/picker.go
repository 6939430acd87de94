package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/lp/internal/model"
	"github.com/nikbrunner/lp/internal/search"
	"github.com/nikbrunner/lp/internal/tui/layout"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	shortStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	destStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	queryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// linesPerResult is the height of one result row: title line + destination line.
const linesPerResult = 2

// chromeLines is the header, its gap and the footer.
const chromeLines = 4

// Action is what the user chose to do with the selected link.
type Action int

const (
	ActionNone Action = iota
	ActionOpen        // open the destination
	ActionCopy        // copy the short URL
)

type keyMap struct {
	Down   key.Binding
	Up     key.Binding
	Open   key.Binding
	Copy   key.Binding
	Cancel key.Binding
}

var keys = keyMap{
	Down:   key.NewBinding(key.WithKeys("j", "down", "ctrl+n")),
	Up:     key.NewBinding(key.WithKeys("k", "up", "ctrl+p")),
	Open:   key.NewBinding(key.WithKeys("enter", "o")),
	Copy:   key.NewBinding(key.WithKeys("y")),
	Cancel: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// Picker lets the user choose one link from fuzzy search results,
// then open its destination or copy its short URL.
type Picker struct {
	results     []search.SearchResult
	query       string
	shortDomain string
	textCfg     layout.TextConfig
	cursor      int
	action      Action
	width       int
	height      int
}

// New creates a new Picker with the given search results.
func New(results []search.SearchResult, query, shortDomain string) Picker {
	return Picker{
		results:     results,
		query:       query,
		shortDomain: shortDomain,
		textCfg:     layout.DefaultConfig().Text,
		width:       80,
		height:      24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Cancel):
			return p, tea.Quit
		case key.Matches(msg, keys.Open):
			return p.choose(ActionOpen)
		case key.Matches(msg, keys.Copy):
			return p.choose(ActionCopy)
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		}
	}

	return p, nil
}

// choose records action and quits. With no results nothing is chosen.
func (p Picker) choose(action Action) (tea.Model, tea.Cmd) {
	if len(p.results) > 0 {
		p.action = action
	}
	return p, tea.Quit
}

// visibleResults is how many result rows fit in the terminal.
func (p Picker) visibleResults() int {
	return max((p.height-chromeLines)/linesPerResult, 1)
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	noun := "results"
	if len(p.results) == 1 {
		noun = "result"
	}
	b.WriteString(queryStyle.Render(fmt.Sprintf("Search: %s (%d %s)", p.query, len(p.results), noun)))
	b.WriteString("\n\n")

	textWidth := max(p.width-4, 10)
	visible := p.visibleResults()
	offset := layout.CalculateViewportOffset(p.cursor, len(p.results), visible)
	end := min(offset+visible, len(p.results))

	for i := offset; i < end; i++ {
		link := p.results[i].Link

		marker, style := "  ", titleStyle
		if i == p.cursor {
			marker, style = "> ", selectedStyle
		}

		short := link.ShortURL(p.shortDomain)
		title, _ := layout.TruncateText(link.Title, max(textWidth-layout.VisibleLength(short)-2, 1), p.textCfg)
		dest, _ := layout.TruncateText(link.OriginalURL, textWidth, p.textCfg)

		b.WriteString(marker + style.Render(title) + "  " + shortStyle.Render(short) + "\n")
		b.WriteString("   " + destStyle.Render(dest) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k move  enter/o open  y copy  q/esc cancel"))

	return b.String()
}

// Selected returns the chosen link and action, or nil if cancelled.
func (p Picker) Selected() (*model.Link, Action) {
	if p.action == ActionNone || p.cursor >= len(p.results) {
		return nil, ActionNone
	}
	link := p.results[p.cursor].Link
	return &link, p.action
}

// Cancelled returns true if the picker closed without a choice.
func (p Picker) Cancelled() bool {
	return p.action == ActionNone
}
