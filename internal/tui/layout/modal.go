package layout

// minHelpDescWidth keeps room for the description column next to the keys.
const minHelpDescWidth = 16

// HelpOverlayWidth sizes the help overlay box for a terminal.
// It takes DefaultWidthPercent of the terminal, never narrower than the key
// column plus a readable description, clamped to MinWidth..MaxWidth and
// always leaving a 2-cell margin on each side.
func HelpOverlayWidth(terminalWidth int, cfg ModalConfig) int {
	width := terminalWidth * cfg.DefaultWidthPercent / 100
	width = max(width, cfg.MinWidth, cfg.HelpKeyColumnWidth+minHelpDescWidth)
	width = min(width, cfg.MaxWidth, terminalWidth-4)
	return max(width, 1)
}
