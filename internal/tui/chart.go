package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rshade/healthtrack/internal/dataset"
)

const (
	minChartWidth  = 20
	minChartHeight = 4
	axisLabelWidth = 6
	plotMark       = '*'
)

// NoSeriesMessage replaces the chart when the selection has no rows.
const NoSeriesMessage = "No observations for this selection."

// RenderChart draws series as an ASCII line chart width columns wide and
// height rows tall, Year on the x axis and Life_Expectancy on the y axis.
// Series longer than the plot width are averaged into buckets.
func RenderChart(series *dataset.Dataset, width, height int) string {
	rows := series.Rows()
	if len(rows) == 0 {
		return NoSeriesMessage
	}
	width = max(width, minChartWidth)
	height = max(height, minChartHeight)

	plotW := width - axisLabelWidth - 2
	points := resample(rows, plotW)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", len(points)))
	}
	for c, v := range points {
		level := int(math.Round((v - lo) / span * float64(height-1)))
		grid[height-1-level][c] = plotMark
	}

	var b strings.Builder
	for r, line := range grid {
		label := ""
		switch r {
		case 0:
			label = strconv.FormatFloat(hi, 'f', 1, 64)
		case height - 1:
			label = strconv.FormatFloat(lo, 'f', 1, 64)
		}
		fmt.Fprintf(&b, "%*s |%s\n", axisLabelWidth, label, strings.TrimRight(string(line), " "))
	}
	fmt.Fprintf(&b, "%*s +%s\n", axisLabelWidth, "", strings.Repeat("-", len(points)))

	first := strconv.Itoa(rows[0].Year)
	last := strconv.Itoa(rows[len(rows)-1].Year)
	gap := len(points) - len(first) - len(last)
	switch {
	case first == last:
		fmt.Fprintf(&b, "%*s  %s", axisLabelWidth, "", first)
	case gap < 1:
		fmt.Fprintf(&b, "%*s  %s-%s", axisLabelWidth, "", first, last)
	default:
		fmt.Fprintf(&b, "%*s  %s%s%s", axisLabelWidth, "", first, strings.Repeat(" ", gap), last)
	}
	return b.String()
}

// resample reduces rows to at most n values by averaging contiguous buckets.
func resample(rows []dataset.Observation, n int) []float64 {
	if n < 1 {
		n = 1
	}
	if len(rows) <= n {
		out := make([]float64, len(rows))
		for i, r := range rows {
			out[i] = r.LifeExpectancy
		}
		return out
	}

	out := make([]float64, n)
	for i := range n {
		from := i * len(rows) / n
		to := (i + 1) * len(rows) / n
		sum := 0.0
		for _, r := range rows[from:to] {
			sum += r.LifeExpectancy
		}
		out[i] = sum / float64(to-from)
	}
	return out
}
