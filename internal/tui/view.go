package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/lp/internal/analytics"
	"github.com/nikbrunner/lp/internal/tui/layout"
)

const emptyListText = "No links yet. Paste a long URL above to create your first short link."

const emptyInsightsText = "No insights yet. Press r to generate a report."

// renderView renders the current screen.
func (a App) renderView() string {
	if a.mode == ModeHelp {
		return a.renderHelpOverlay()
	}

	var body string
	if a.view == ViewAnalytics && a.detail.Link != nil {
		body = a.renderAnalytics()
	} else {
		body = a.renderDashboard()
	}

	content := a.styles.App.Render(
		lipgloss.JoinVertical(lipgloss.Left, body, a.renderHelpBar()),
	)

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderHeader() string {
	brand := a.styles.Brand.Render("LinkPro")
	sub := a.styles.Subtitle.Render("  shorten, share, measure")
	return brand + sub
}

// renderDashboard renders the header, creation form and link cards.
func (a App) renderDashboard() string {
	width := layout.CalculateContentWidth(a.width, a.layoutConfig.List)

	parts := []string{
		a.renderHeader(),
		a.renderForm(width),
		a.renderListHeader(),
	}
	parts = append(parts, a.renderCards(width)...)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) renderForm(width int) string {
	style := a.styles.Form
	if a.mode == ModeForm {
		style = a.styles.FormActive
	}

	var b strings.Builder
	b.WriteString(a.formRow("Destination", a.form.URL.View(), FieldURL))
	b.WriteString("\n")
	b.WriteString(a.formRow("Title", a.form.Title.View(), FieldTitle))
	b.WriteString("\n")
	b.WriteString(a.formRow("Custom slug", a.form.Slug.View(), FieldSlug))

	switch {
	case a.form.Submitting:
		b.WriteString("\n" + a.styles.Subtitle.Render("Shortening..."))
	case a.form.Suggesting:
		b.WriteString("\n" + a.spinner.View() + a.styles.Suggestion.Render(" Thinking of slugs..."))
	case len(a.form.Suggestions) > 0:
		ideas := make([]string, len(a.form.Suggestions))
		for i, s := range a.form.Suggestions {
			ideas[i] = a.styles.HintKey.Render(strconv.Itoa(i+1)) + " " + a.styles.Suggestion.Render(s)
		}
		b.WriteString("\n" + a.styles.Label.Render("AI ideas  ") + strings.Join(ideas, "  "))
	}

	return style.Width(width - 2).Render(b.String())
}

func (a App) formRow(label, input string, field FormField) string {
	marker := "  "
	if a.mode == ModeForm && a.form.Focus == field {
		marker = a.styles.ShortURL.Render("> ")
	}
	return marker + a.styles.Label.Render(layout.PadRight(label, 13)) + input
}

func (a App) renderListHeader() string {
	title := a.styles.Section.Render("Recent links")
	count := a.styles.Subtitle.Render(fmt.Sprintf(" (%d)", len(a.items)))
	line := title + count
	if a.filter.Query != "" || a.mode == ModeFilter {
		line += "  " + a.styles.Label.Render("filter: ")
		if a.mode == ModeFilter {
			line += a.filter.Input.View()
		} else {
			line += a.styles.Tag.Render(a.filter.Query)
		}
	}
	return "\n" + line
}

// renderCards renders the visible window of link cards.
func (a App) renderCards(width int) []string {
	if len(a.items) == 0 {
		text := emptyListText
		if a.filter.Query != "" {
			text = "No links match \"" + a.filter.Query + "\"."
		}
		return []string{a.styles.Card.Width(width - 2).Render(a.styles.Empty.Render(text))}
	}

	visible := layout.CalculateVisibleCards(a.height, a.layoutConfig.List)
	offset := layout.CalculateViewportOffset(a.cursor, len(a.items), visible)
	end := min(offset+visible, len(a.items))

	cards := make([]string, 0, end-offset)
	for i := offset; i < end; i++ {
		cards = append(cards, a.renderCard(a.items[i], i == a.cursor, width))
	}
	return cards
}

func (a App) renderCard(item Item, selected bool, width int) string {
	link := item.Link
	textWidth := layout.CalculateCardTextWidth(width, a.layoutConfig.List)

	date := link.CreatedAt.Local().Format("Jan 2, 2006")
	clicks := formatThousands(link.Clicks) + " clicks"
	right := a.styles.Date.Render(date)

	titleWidth := max(textWidth-layout.VisibleLength(date)-1, 1)
	title := a.highlightTitle(link.Title, item.Matches)
	title = layout.TruncateANSIAware(title, titleWidth, a.layoutConfig.Text)
	gap := max(textWidth-layout.VisibleLength(title)-layout.VisibleLength(right), 1)
	line1 := title + strings.Repeat(" ", gap) + right

	short := a.styles.ShortURL.Render(link.ShortURL(a.shortDomain)) + a.copiedMarker(link.ID)
	clickText := a.styles.Clicks.Render(clicks)
	gap = max(textWidth-layout.VisibleLength(short)-layout.VisibleLength(clickText), 1)
	line2 := short + strings.Repeat(" ", gap) + clickText

	dest, _ := layout.TruncateWithPrefix(link.OriginalURL, textWidth, "-> ", a.layoutConfig.Text)
	line3 := a.styles.URL.Render(dest)

	// Untagged cards keep an empty tag line so every card has the same height.
	tags := make([]string, len(link.Tags))
	for i, t := range link.Tags {
		tags[i] = "#" + t
	}
	tagLine, _ := layout.TruncateText(strings.Join(tags, " "), textWidth, a.layoutConfig.Text)
	lines := []string{line1, line2, line3, a.styles.Tag.Render(tagLine)}

	style := a.styles.Card
	if selected {
		style = a.styles.CardSelected
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// highlightTitle styles the fuzzy-matched bytes of title.
func (a App) highlightTitle(title string, matches []int) string {
	if len(matches) == 0 {
		return a.styles.CardTitle.Render(title)
	}

	matched := make(map[int]bool, len(matches))
	for _, m := range matches {
		matched[m] = true
	}

	var b strings.Builder
	for i, r := range title {
		if matched[i] {
			b.WriteString(a.styles.Match.Render(string(r)))
		} else {
			b.WriteString(a.styles.CardTitle.Render(string(r)))
		}
	}
	return b.String()
}

// renderAnalytics renders the detail view of the selected link.
func (a App) renderAnalytics() string {
	link := *a.detail.Link
	stats := a.detail.Stats
	width := layout.CalculateContentWidth(a.width, a.layoutConfig.List)
	textWidth := layout.CalculateCardTextWidth(width, a.layoutConfig.List)

	dest, _ := layout.TruncateText(link.OriginalURL, textWidth, a.layoutConfig.Text)
	header := lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Subtitle.Render("<- back to dashboard"),
		"",
		a.styles.Brand.Render(link.Title),
		a.styles.ShortURL.Render(link.ShortURL(a.shortDomain))+a.copiedMarker(link.ID),
		a.styles.URL.Render(dest),
	)

	total := a.styles.Label.Render("Total clicks  ") + a.styles.Clicks.Render(formatThousands(stats.TotalClicks))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		total,
		a.styles.Panel.Width(width-2).Render(a.renderClickHistory(stats)),
		a.styles.Panel.Width(width-2).Render(a.renderShares("Devices", stats.Devices)+"\n\n"+a.renderShares("Referrers", stats.Referrers)),
		a.styles.InsightPanel.Width(width-2).Render(a.renderInsights()),
		a.renderQuickActions(),
	)
}

func (a App) copiedMarker(id string) string {
	if a.copiedID != id {
		return ""
	}
	return " " + a.styles.Copied.Render("copied!")
}

func (a App) renderClickHistory(stats analytics.Stats) string {
	values := make([]int, len(stats.ClicksOverTime))
	days := make([]string, len(stats.ClicksOverTime))
	for i, d := range stats.ClicksOverTime {
		values[i] = d.Clicks
		days[i] = d.Date.Format("Jan 2")
	}

	var b strings.Builder
	b.WriteString(a.styles.Section.Render("Clicks over time"))
	b.WriteString(a.styles.Subtitle.Render(fmt.Sprintf("  last %d days, peak %d", len(values), stats.PeakClicks())))
	b.WriteString("\n")
	b.WriteString(a.styles.Spark.Render(layout.Sparkline(values)))
	if len(days) > 0 {
		b.WriteString("  " + a.styles.Label.Render(days[0]+" - "+days[len(days)-1]))
	}
	return b.String()
}

func (a App) renderShares(title string, shares []analytics.Share) string {
	chart := a.layoutConfig.Chart

	var b strings.Builder
	b.WriteString(a.styles.Section.Render(title))
	for _, s := range shares {
		b.WriteString("\n")
		b.WriteString(a.styles.Label.Render(layout.PadRight(s.Name, chart.LabelWidth)))
		b.WriteString(a.styles.Bar.Render(layout.Bar(s.Percent, chart.BarWidth)))
		b.WriteString(fmt.Sprintf(" %3d%%", s.Percent))
	}
	return b.String()
}

func (a App) renderInsights() string {
	var b strings.Builder
	b.WriteString(a.styles.Suggestion.Bold(true).Render("AI insights"))
	b.WriteString("\n")

	switch {
	case a.detail.Loading:
		b.WriteString(a.spinner.View() + a.styles.Subtitle.Render(" Analyzing link performance..."))
	case len(a.detail.Insights) == 0:
		b.WriteString(a.styles.Empty.Render(emptyInsightsText))
	default:
		for i, in := range a.detail.Insights {
			if i > 0 {
				b.WriteString("\n")
			}
			sev := a.styles.severityStyle(in.Severity).Render(strings.ToUpper(in.Severity))
			b.WriteString(sev + " " + a.styles.CardTitle.Render(in.Title) + "\n")
			b.WriteString(a.styles.Subtitle.Render(in.Description))
		}
	}
	return b.String()
}

func (a App) renderQuickActions() string {
	return a.styles.HintLabel.Render("Quick actions  ") + a.renderHintsInline([]Hint{
		hint(a.keys.Copy, "copy short URL"),
		hint(a.keys.Open, "open destination"),
		hint(a.keys.Refresh, "generate new report"),
	})
}

// renderHelpBar renders the message line and contextual hints.
func (a App) renderHelpBar() string {
	var lines []string

	if a.messageText != "" {
		lines = append(lines, a.renderMessageLine())
	} else {
		lines = append(lines, "")
	}

	if hints := a.renderHints(a.contextualHints()); hints != "" {
		lines = append(lines, hints)
	}

	return strings.Join(lines, "\n")
}

// renderMessageLine renders the styled message with prefix icon based on type.
func (a App) renderMessageLine() string {
	var prefix string
	style := a.styles.Subtitle

	switch a.messageType {
	case MessageError:
		style = a.styles.Error
		prefix = "✗ "
	case MessageWarning:
		style = a.styles.SeverityMed
		prefix = "⚠ "
	case MessageSuccess:
		style = a.styles.Success
		prefix = "✓ "
	}

	return style.Render(prefix + a.messageText)
}

func (a App) renderHelpOverlay() string {
	keyWidth := a.layoutConfig.Modal.HelpKeyColumnWidth

	var b strings.Builder
	for _, section := range a.helpSections() {
		b.WriteString(a.styles.Section.Render(section.title) + "\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(a.styles.HintKey.Render(layout.PadRight(h.Key, keyWidth)) + a.styles.HintDesc.Render(h.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[?/esc] close  [ctrl+c] quit"))

	width := layout.HelpOverlayWidth(a.width, a.layoutConfig.Modal)
	box := a.styles.Panel.Width(width).Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, lipgloss.NewStyle().Padding(1, 2).Render(box))
}

// formatThousands renders n with comma separators, e.g. 1,245.
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
