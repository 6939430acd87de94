package layout

import "github.com/charmbracelet/x/ansi"

// resetCode clears styling left open by a cut in the middle of a styled run.
const resetCode = "\x1b[0m"

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// VisibleLength returns the terminal cell width of s, ignoring ANSI codes.
func VisibleLength(s string) int {
	return ansi.StringWidth(s)
}

// TruncateText cuts text to maxWidth cells, ending in the configured ellipsis.
// Returns the result and whether anything was cut.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", text != ""
	}
	if VisibleLength(text) <= maxWidth {
		return text, false
	}

	// No room for text before the ellipsis
	if maxWidth <= VisibleLength(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, ""), true
	}

	return ansi.Truncate(text, maxWidth, cfg.Ellipsis), true
}

// TruncateWithPrefix keeps prefix intact and cuts text to fit behind it,
// e.g. "-> https://shop.example/very..." for a card's destination line.
func TruncateWithPrefix(text string, maxWidth int, prefix string, cfg TextConfig) (string, bool) {
	room := maxWidth - VisibleLength(prefix) - VisibleLength(cfg.Ellipsis)
	if room <= 0 {
		return TruncateText(prefix+text, maxWidth, cfg)
	}

	cut, truncated := TruncateText(text, maxWidth-VisibleLength(prefix), cfg)
	return prefix + cut, truncated
}

// TruncateANSIAware cuts styled text to maxWidth visible cells.
// Escape codes are kept and a reset is appended when anything was cut.
func TruncateANSIAware(styledText string, maxWidth int, cfg TextConfig) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleLength(styledText) <= maxWidth {
		return styledText
	}
	if maxWidth <= VisibleLength(cfg.Ellipsis) {
		return ansi.Truncate(cfg.Ellipsis, maxWidth, "")
	}
	return ansi.Truncate(styledText, maxWidth, cfg.Ellipsis) + resetCode
}
