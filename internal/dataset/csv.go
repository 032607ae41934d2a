package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
)

// CSV decoding errors.
var (
	ErrHeaderMismatch = errors.New("csv header does not match Country,Year,Life_Expectancy")
	ErrMalformedRow   = errors.New("malformed csv row")
)

// WriteCSV writes d with the canonical header, one row per observation.
// Numbers use the shortest representation that round-trips.
func WriteCSV(w io.Writer, d *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range d.Rows() {
		rec := []string{
			r.Country,
			strconv.Itoa(r.Year),
			strconv.FormatFloat(r.LifeExpectancy, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV. Rows with an empty field are
// dropped like nulls from the remote source; any other unparseable row fails
// the whole read.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrHeaderMismatch)
		}
		return nil, fmt.Errorf("%w: %w", ErrHeaderMismatch, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if !slices.Equal(header, Columns) {
		return nil, fmt.Errorf("%w: got %v", ErrHeaderMismatch, header)
	}

	var rows []Observation
	for line := 2; ; line++ {
		rec, readErr := cr.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, readErr)
		}
		obs, keep, parseErr := parseRecord(rec)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, parseErr)
		}
		if keep {
			rows = append(rows, obs)
		}
	}
	return New(rows), nil
}

func parseRecord(rec []string) (Observation, bool, error) {
	country := rec[0]
	yearText := strings.TrimSpace(rec[1])
	valueText := strings.TrimSpace(rec[2])
	if country == "" || yearText == "" || valueText == "" {
		return Observation{}, false, nil
	}

	year, err := ParseYear(yearText)
	if err != nil {
		return Observation{}, false, err
	}
	value, err := strconv.ParseFloat(valueText, 64)
	if err != nil {
		return Observation{}, false, fmt.Errorf("parsing %s %q: %w", ColumnLifeExpectancy, valueText, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Observation{}, false, nil
	}
	return Observation{Country: country, Year: year, LifeExpectancy: value}, true, nil
}

// ParseYear coerces a textual year to int. Integral float text such as
// "2019.0" is accepted.
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parsing %s %q: not an integer", ColumnYear, s)
	}
	return int(f), nil
}
