package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	List  ListConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
	Chart ChartConfig
}

// ListConfig holds dashboard card list configuration.
type ListConfig struct {
	// ChromeHeight is subtracted from terminal height for the card list.
	// Accounts for: app padding (1) + header (2) + form (5) + section title (1) + help bar (2) = 11
	ChromeHeight int

	// CardHeight is the number of lines one card takes, borders included.
	CardHeight int

	// MinVisibleCards is the minimum number of cards shown.
	MinVisibleCards int

	// MaxWidth caps the dashboard width on wide terminals.
	MaxWidth int

	// ContentPadding is subtracted from card width for text.
	// Accounts for card border and padding on each side.
	ContentPadding int
}

// ModalConfig sizes the help overlay.
type ModalConfig struct {
	// DefaultWidthPercent is the overlay width as a percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum overlay width in characters.
	MinWidth int

	// MaxWidth is the maximum overlay width in characters.
	MaxWidth int

	// HelpKeyColumnWidth: width of the key column in the help overlay.
	HelpKeyColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit  int
	URLCharLimit    int
	SlugCharLimit   int
	FilterCharLimit int

	URLWidth    int
	FieldWidth  int // title and slug
	FilterWidth int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// ChartConfig holds analytics chart configuration.
type ChartConfig struct {
	// BarWidth is the width of a full (100%) share bar.
	BarWidth int

	// LabelWidth pads share labels so bars line up.
	LabelWidth int
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		List: ListConfig{
			ChromeHeight:    12,
			CardHeight:      6,
			MinVisibleCards: 1,
			MaxWidth:        100,
			ContentPadding:  4,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 50,
			MinWidth:            40,
			MaxWidth:            72,
			HelpKeyColumnWidth:  14,
		},
		Input: InputConfig{
			TitleCharLimit:  100,
			URLCharLimit:    2000,
			SlugCharLimit:   32,
			FilterCharLimit: 50,
			URLWidth:        50,
			FieldWidth:      24,
			FilterWidth:     30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
		Chart: ChartConfig{
			BarWidth:   24,
			LabelWidth: 14,
		},
	}
}
