package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/healthtrack/internal/dataset"
	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/internal/restcountries"
)

// Report is everything shown for one selected country.
type Report struct {
	Status  loader.Status
	Country string
	Series  *dataset.Dataset
	Info    *restcountries.CountryInfo
	Width   int
}

// InfoLines returns the side panel content as label/value pairs.
func InfoLines(info *restcountries.CountryInfo) [][2]string {
	if info == nil {
		return [][2]string{{"Region", "not found"}}
	}
	lines := [][2]string{
		{"Flag", info.FlagURL},
		{"Population", FormatPopulation(info.Population)},
		{"Region", info.Region},
	}
	if info.Subregion != "" {
		lines = append(lines, [2]string{"Subregion", info.Subregion})
	}
	if len(info.Capital) > 0 {
		lines = append(lines, [2]string{"Capital", strings.Join(info.Capital, ", ")})
	}
	return lines
}

// InsightLine returns the peak summary for the series, or "" when empty.
func InsightLine(series *dataset.Dataset) string {
	in, ok := dataset.Peak(series)
	if !ok {
		return ""
	}
	return in.String()
}

// RenderPlain renders r without ANSI styling.
func RenderPlain(r Report) string {
	var b strings.Builder
	b.WriteString(RenderStatusBanner(r.Status, false))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s\n", r.Country)
	for _, kv := range InfoLines(r.Info) {
		fmt.Fprintf(&b, "  %-11s %s\n", kv[0]+":", kv[1])
	}
	b.WriteString("\n")
	b.WriteString(RenderChart(r.Series, chartWidth(r.Width), chartHeight))
	b.WriteString("\n")
	if line := InsightLine(r.Series); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderStyled renders r with lipgloss panels for a non-interactive terminal.
func RenderStyled(r Report) string {
	banner := RenderStatusBanner(r.Status, true)
	panel := renderInfoPanel(r.Country, r.Info)
	chart := BoxStyle.Render(RenderChart(r.Series, chartWidth(r.Width)-sidePanelW, chartHeight))

	body := lipgloss.JoinHorizontal(lipgloss.Top, panel, " ", chart)
	sections := []string{banner, "", body}
	if line := InsightLine(r.Series); line != "" {
		sections = append(sections, ValueStyle.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func renderInfoPanel(country string, info *restcountries.CountryInfo) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(country))
	for _, kv := range InfoLines(info) {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render(kv[0] + ": "))
		b.WriteString(ValueStyle.Render(kv[1]))
	}
	return BoxStyle.Width(sidePanelW - borderPadding).Render(b.String())
}

func chartWidth(width int) int {
	if width <= 0 {
		return defaultWidth
	}
	return width
}
