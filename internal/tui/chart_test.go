package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/healthtrack/internal/dataset"
)

func series(values map[int]float64) *dataset.Dataset {
	rows := make([]dataset.Observation, 0, len(values))
	for y, v := range values {
		rows = append(rows, dataset.Observation{Country: "X", Year: y, LifeExpectancy: v})
	}
	return dataset.New(rows)
}

func TestRenderChart_Empty(t *testing.T) {
	assert.Equal(t, NoSeriesMessage, RenderChart(dataset.Empty(), 60, 10))
	assert.Equal(t, NoSeriesMessage, RenderChart(nil, 60, 10))
}

func TestRenderChart_SmallSeries(t *testing.T) {
	out := RenderChart(series(map[int]float64{2000: 70.1, 2005: 72.3, 2010: 71.0}), 40, 6)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 6+2)
	assert.Contains(t, lines[0], "72.3")
	assert.Contains(t, lines[5], "70.1")
	assert.Equal(t, 3, strings.Count(out, "*"))
	assert.Contains(t, lines[7], "2000-2010")

	// The peak sits on the top row, in the middle column.
	assert.True(t, strings.HasSuffix(lines[0], "| *"), lines[0])
}

func TestRenderChart_FlatSeries(t *testing.T) {
	out := RenderChart(series(map[int]float64{2000: 50, 2001: 50}), 40, 5)
	assert.Equal(t, 2, strings.Count(out, "*"))
}

func TestRenderChart_ResamplesLongSeries(t *testing.T) {
	values := map[int]float64{}
	for y := 1960; y < 2024; y++ {
		values[y] = 40 + float64(y-1960)/2
	}
	out := RenderChart(series(values), 30, 8)

	assert.Equal(t, 30-axisLabelWidth-2, strings.Count(out, "*"))
	assert.Contains(t, out, "1960")
	assert.Contains(t, out, "2023")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 30)
	}
}

func TestResample(t *testing.T) {
	rows := []dataset.Observation{
		{LifeExpectancy: 1}, {LifeExpectancy: 3}, {LifeExpectancy: 5}, {LifeExpectancy: 7},
	}
	assert.Equal(t, []float64{2, 6}, resample(rows, 2))
	assert.Equal(t, []float64{1, 3, 5, 7}, resample(rows, 10))
	assert.Equal(t, []float64{4}, resample(rows, 0))
}
