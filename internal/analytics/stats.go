package analytics

import (
	"time"

	"github.com/nikbrunner/lp/internal/model"
)

// DailyClicks is the click count for one day.
type DailyClicks struct {
	Date   time.Time
	Clicks int
}

// Share is a named percentage of traffic.
type Share struct {
	Name    string
	Percent int
}

// Stats is the analytics shown in the detail view.
type Stats struct {
	TotalClicks    int
	ClicksOverTime []DailyClicks
	Devices        []Share
	Referrers      []Share
}

var mockDailyClicks = []int{45, 78, 120, 95, 150, 190, 210}

var mockHistoryStart = time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)

// MockStats returns simulated analytics for a link.
// Only the total reflects the link; the rest is fixed sample data.
func MockStats(link model.Link) Stats {
	history := make([]DailyClicks, len(mockDailyClicks))
	for i, clicks := range mockDailyClicks {
		history[i] = DailyClicks{
			Date:   mockHistoryStart.AddDate(0, 0, i),
			Clicks: clicks,
		}
	}

	return Stats{
		TotalClicks:    link.Clicks,
		ClicksOverTime: history,
		Devices: []Share{
			{Name: "Mobile", Percent: 65},
			{Name: "Desktop", Percent: 30},
			{Name: "Tablet", Percent: 5},
		},
		Referrers: []Share{
			{Name: "Instagram", Percent: 42},
			{Name: "Direct/Email", Percent: 30},
			{Name: "WhatsApp", Percent: 18},
			{Name: "Twitter (X)", Percent: 10},
		},
	}
}

// PeakClicks returns the highest daily count in the history.
func (s Stats) PeakClicks() int {
	peak := 0
	for _, d := range s.ClicksOverTime {
		peak = max(peak, d.Clicks)
	}
	return peak
}
