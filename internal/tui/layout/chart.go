package layout

import "strings"

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a row of block characters scaled to the maximum.
// An all-zero series renders as the lowest block.
func Sparkline(values []int) string {
	peak := 0
	for _, v := range values {
		peak = max(peak, v)
	}

	var b strings.Builder
	for _, v := range values {
		idx := 0
		if peak > 0 && v > 0 {
			idx = v * (len(sparkRunes) - 1) / peak
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// Bar renders a horizontal bar for percent (0-100) of width cells.
// The remainder is filled with a light shade.
func Bar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = min(max(percent, 0), 100)

	filled := (percent*width + 50) / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// PadRight pads s with spaces to width runes. Longer strings are returned unchanged.
func PadRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
