package worldbank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PageMeta is element [0] of an indicator response.
type PageMeta struct {
	Page        int    `json:"page"`
	Pages       int    `json:"pages"`
	PerPage     int    `json:"per_page"`
	Total       int    `json:"total"`
	SourceID    string `json:"sourceid"`
	LastUpdated string `json:"lastupdated"`
}

// Ref is an {id, value} pair used for indicator and country.
type Ref struct {
	ID    string  `json:"id"`
	Value *string `json:"value"`
}

// Record is one element of the indicator data array.
type Record struct {
	Indicator       Ref         `json:"indicator"`
	Country         *Ref        `json:"country"`
	CountryISO3Code string      `json:"countryiso3code"`
	Date            Year        `json:"date"`
	Value           NullFloat64 `json:"value"`
	Unit            string      `json:"unit"`
	ObsStatus       string      `json:"obs_status"`
	Decimal         int         `json:"decimal"`
}

// Year is the observation year. The API sends it as a string ("2019") but a
// bare number is accepted too. Valid is false for null or "".
type Year struct {
	Value int
	Valid bool
}

func (y *Year) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*y = Year{}
		return nil
	}

	text := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
		if text == "" {
			*y = Year{}
			return nil
		}
	}

	if v, err := strconv.Atoi(text); err == nil {
		*y = Year{Value: v, Valid: true}
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != float64(int(f)) {
		return fmt.Errorf("date %q is not an integer year", text)
	}
	*y = Year{Value: int(f), Valid: true}
	return nil
}

// NullFloat64 accepts a JSON number, a numeric string, or null.
type NullFloat64 struct {
	Float64 float64
	Valid   bool
}

func (n *NullFloat64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*n = NullFloat64{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = NullFloat64{}
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("value %q is not numeric", s)
		}
		*n = NullFloat64{Float64: f, Valid: true}
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = NullFloat64{Float64: f, Valid: true}
	return nil
}

// APIMessage is the body of a World Bank error payload.
type APIMessage struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}
