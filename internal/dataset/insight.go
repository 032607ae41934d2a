package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Insight is the peak value of a series and every year it was reached.
type Insight struct {
	Country string  `json:"country"`
	Max     float64 `json:"max"`
	Years   []int   `json:"years"`
}

// Peak returns the maximum life expectancy in d and the years it occurs,
// ascending. ok is false for an empty dataset.
func Peak(d *Dataset) (Insight, bool) {
	rows := d.Rows()
	if len(rows) == 0 {
		return Insight{}, false
	}

	in := Insight{Country: rows[0].Country, Max: rows[0].LifeExpectancy}
	for _, r := range rows {
		switch {
		case r.LifeExpectancy > in.Max:
			in.Max = r.LifeExpectancy
			in.Years = []int{r.Year}
		case r.LifeExpectancy == in.Max:
			if len(in.Years) == 0 || in.Years[len(in.Years)-1] != r.Year {
				in.Years = append(in.Years, r.Year)
			}
		}
	}
	return in, true
}

// String renders the insight line shown under the chart.
func (in Insight) String() string {
	years := make([]string, len(in.Years))
	for i, y := range in.Years {
		years[i] = strconv.Itoa(y)
	}
	return fmt.Sprintf("Peak life expectancy for %s: %.1f (%s)", in.Country, in.Max, strings.Join(years, ", "))
}
