package tui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/healthtrack/internal/loader"
)

var printer = message.NewPrinter(language.English)

// FormatPopulation formats a head count with thousand separators.
// Example: FormatPopulation(68042591) returns "68,042,591".
func FormatPopulation(n int64) string {
	return printer.Sprintf("%d", n)
}

// StatusMessage is the banner text for a load status.
func StatusMessage(s loader.Status) string {
	switch s {
	case loader.StatusLive:
		return "Live data from the World Bank"
	case loader.StatusStale:
		return "Offline: showing cached data"
	default:
		return "No data available"
	}
}

// EmptyGuidance is shown instead of the selector when there is nothing to
// pick. The wording follows where the empty dataset came from.
func EmptyGuidance(s loader.Status) string {
	switch s {
	case loader.StatusLive:
		return "The World Bank returned no life expectancy observations. Try refreshing later."
	case loader.StatusStale:
		return "The World Bank could not be reached and the cached dataset is empty. " +
			"Check your network connection and refresh."
	default:
		return "No life expectancy data could be loaded and no cache exists yet. " +
			"Check your network connection and refresh."
	}
}

// RenderStatusBanner renders the status line, styled by severity.
func RenderStatusBanner(s loader.Status, styled bool) string {
	text := "[" + string(s) + "] " + StatusMessage(s)
	if !styled {
		return text
	}
	switch s {
	case loader.StatusLive:
		return InfoStyle.Render(text)
	case loader.StatusStale:
		return WarningStyle.Render(text)
	default:
		return CriticalStyle.Render(text)
	}
}
