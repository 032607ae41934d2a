package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/healthtrack/internal/dataset"
	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/internal/restcountries"
)

func TestFormatPopulation(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{18248, "18,248"},
		{68042591, "68,042,591"},
		{1425671352, "1,425,671,352"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPopulation(tt.in))
	}
}

func TestRenderStatusBanner_Plain(t *testing.T) {
	assert.Equal(t, "[live] Live data from the World Bank", RenderStatusBanner(loader.StatusLive, false))
	assert.Equal(t, "[stale] Offline: showing cached data", RenderStatusBanner(loader.StatusStale, false))
	assert.Equal(t, "[unavailable] No data available", RenderStatusBanner(loader.StatusUnavailable, false))
}

func TestRenderStatusBanner_StyledKeepsText(t *testing.T) {
	for _, s := range []loader.Status{loader.StatusLive, loader.StatusStale, loader.StatusUnavailable} {
		assert.Contains(t, RenderStatusBanner(s, true), StatusMessage(s))
	}
}

func TestDetectOutputMode_Forced(t *testing.T) {
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, false, true))
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, true, false))

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, OutputModePlain, DetectOutputMode(true, false, false))
}

func TestTerminalWidth_NotATerminal(t *testing.T) {
	assert.Equal(t, 80, TerminalWidth(nil, 80))
	assert.False(t, IsTerminal(nil))
}

func TestOutputModeString(t *testing.T) {
	assert.Equal(t, "plain", OutputModePlain.String())
	assert.Equal(t, "styled", OutputModeStyled.String())
	assert.Equal(t, "interactive", OutputModeInteractive.String())
}

func france() *restcountries.CountryInfo {
	return &restcountries.CountryInfo{
		CommonName: "France",
		FlagURL:    "https://flagcdn.com/w320/fr.png",
		Population: 68042591,
		Region:     "Europe",
		Subregion:  "Western Europe",
		Capital:    []string{"Paris"},
	}
}

func TestRenderPlain(t *testing.T) {
	out := RenderPlain(Report{
		Status:  loader.StatusStale,
		Country: "France",
		Series:  series(map[int]float64{2000: 70.1, 2005: 72.3, 2010: 71.0}),
		Info:    france(),
		Width:   60,
	})

	assert.True(t, strings.HasPrefix(out, "[stale]"))
	assert.Contains(t, out, "Population: 68,042,591")
	assert.Contains(t, out, "Region:     Europe")
	assert.Contains(t, out, "Capital:    Paris")
	assert.Contains(t, out, "Peak life expectancy for X: 72.3 (2005)")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderPlain_NoInfoNoRows(t *testing.T) {
	out := RenderPlain(Report{Status: loader.StatusLive, Country: "Atlantis", Series: dataset.Empty()})

	assert.Contains(t, out, "Region:     not found")
	assert.Contains(t, out, NoSeriesMessage)
	assert.NotContains(t, out, "Peak life expectancy")
}

func TestRenderStyled(t *testing.T) {
	out := RenderStyled(Report{
		Status:  loader.StatusLive,
		Country: "France",
		Series:  series(map[int]float64{2000: 70.1, 2005: 72.3}),
		Info:    france(),
		Width:   100,
	})
	assert.Contains(t, out, "68,042,591")
	assert.Contains(t, out, "Peak life expectancy for X: 72.3 (2005)")
}

func TestInsightLine_Empty(t *testing.T) {
	assert.Empty(t, InsightLine(dataset.Empty()))
}

func TestEmptyGuidance_FollowsStatus(t *testing.T) {
	assert.Contains(t, EmptyGuidance(loader.StatusUnavailable), "no cache exists yet")
	assert.Contains(t, EmptyGuidance(loader.StatusStale), "cached dataset is empty")
	assert.Contains(t, EmptyGuidance(loader.StatusLive), "returned no life expectancy observations")
	assert.NotContains(t, EmptyGuidance(loader.StatusLive), "cache")
}
