package layout

// appPadding is the horizontal padding of the app frame, both sides.
const appPadding = 4

// CalculateContentWidth computes the dashboard width, capped at MaxWidth.
func CalculateContentWidth(terminalWidth int, cfg ListConfig) int {
	return max(min(terminalWidth-appPadding, cfg.MaxWidth), 1)
}

// CalculateVisibleCards computes how many link cards fit below the dashboard
// chrome. Returns at least MinVisibleCards.
func CalculateVisibleCards(terminalHeight int, cfg ListConfig) int {
	if cfg.CardHeight <= 0 {
		return cfg.MinVisibleCards
	}
	return max((terminalHeight-cfg.ChromeHeight)/cfg.CardHeight, cfg.MinVisibleCards)
}

// CalculateCardTextWidth is the width left for text inside a card's border.
func CalculateCardTextWidth(cardWidth int, cfg ListConfig) int {
	return max(cardWidth-cfg.ContentPadding, 1)
}

// CalculateViewportOffset returns the first visible index so that selected
// stays on screen, roughly centered once the list scrolls.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}
	offset := max(selected-viewportHeight/2, 0)
	return min(offset, total-viewportHeight)
}
