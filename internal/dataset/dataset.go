// Package dataset holds the life expectancy data model: the Observation row,
// the immutable year-ordered Dataset snapshot, and the codecs that move it to
// and from the cache file and export formats.
package dataset

import (
	"slices"
	"sort"
	"strings"
)

// Canonical column names, in order.
const (
	ColumnCountry        = "Country"
	ColumnYear           = "Year"
	ColumnLifeExpectancy = "Life_Expectancy"
)

// Columns is the canonical schema shared by every Dataset, empty or not.
var Columns = []string{ColumnCountry, ColumnYear, ColumnLifeExpectancy}

// Observation is one (country, year, value) data point.
type Observation struct {
	Country        string  `json:"Country"`
	Year           int     `json:"Year"`
	LifeExpectancy float64 `json:"Life_Expectancy"`
}

// Dataset is an immutable snapshot of observations ordered ascending by Year.
// Rows sharing a year keep their source order.
type Dataset struct {
	rows []Observation
}

// New copies rows and stable-sorts the copy by Year.
func New(rows []Observation) *Dataset {
	cp := make([]Observation, len(rows))
	copy(cp, rows)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Year < cp[j].Year })
	return &Dataset{rows: cp}
}

// Empty returns a dataset with no rows.
func Empty() *Dataset {
	return &Dataset{}
}

// Columns returns the canonical column names.
func (d *Dataset) Columns() []string {
	return slices.Clone(Columns)
}

// Len returns the number of rows. A nil Dataset has zero rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// IsEmpty reports whether the dataset has no rows.
func (d *Dataset) IsEmpty() bool {
	return d.Len() == 0
}

// Rows returns a copy of the rows in dataset order.
func (d *Dataset) Rows() []Observation {
	if d.Len() == 0 {
		return []Observation{}
	}
	return slices.Clone(d.rows)
}

// Countries returns the distinct country labels sorted lexically.
func (d *Dataset) Countries() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range d.Rows() {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		out = append(out, r.Country)
	}
	sort.Strings(out)
	return out
}

// ForCountry returns the rows for country, still ordered by Year. An unknown
// country yields an empty dataset.
func (d *Dataset) ForCountry(country string) *Dataset {
	var out []Observation
	for _, r := range d.Rows() {
		if r.Country == country {
			out = append(out, r)
		}
	}
	return &Dataset{rows: out}
}

// LookupCountry finds a country label case-insensitively.
func (d *Dataset) LookupCountry(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	for _, c := range d.Countries() {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// YearRange returns the smallest and largest year. ok is false when empty.
func (d *Dataset) YearRange() (minYear, maxYear int, ok bool) {
	if d.IsEmpty() {
		return 0, 0, false
	}
	return d.rows[0].Year, d.rows[len(d.rows)-1].Year, true
}
