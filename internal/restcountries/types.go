package restcountries

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRecord marks a candidate that fails validation.
var ErrInvalidRecord = errors.New("invalid country record")

// CountryInfo is the metadata shown next to the chart.
type CountryInfo struct {
	CommonName   string   `json:"common_name"`
	OfficialName string   `json:"official_name"`
	FlagURL      string   `json:"flag_url"`
	FlagAlt      string   `json:"flag_alt,omitempty"`
	Population   int64    `json:"population"`
	Region       string   `json:"region"`
	Subregion    string   `json:"subregion,omitempty"`
	Capital      []string `json:"capital,omitempty"`
}

// candidate is one element of a /name response.
type candidate struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	Flags struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
		Alt string `json:"alt"`
	} `json:"flags"`
	Population *int64   `json:"population"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Capital    []string `json:"capital"`
}

func (c candidate) validate() error {
	if c.Population == nil {
		return fmt.Errorf("%w: missing population", ErrInvalidRecord)
	}
	if *c.Population < 0 {
		return fmt.Errorf("%w: negative population %d", ErrInvalidRecord, *c.Population)
	}
	if strings.TrimSpace(c.Name.Common) == "" && strings.TrimSpace(c.Name.Official) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidRecord)
	}
	return nil
}

func (c candidate) info() *CountryInfo {
	flag := c.Flags.PNG
	if flag == "" {
		flag = c.Flags.SVG
	}
	return &CountryInfo{
		CommonName:   c.Name.Common,
		OfficialName: c.Name.Official,
		FlagURL:      flag,
		FlagAlt:      c.Flags.Alt,
		Population:   *c.Population,
		Region:       c.Region,
		Subregion:    c.Subregion,
		Capital:      append([]string(nil), c.Capital...),
	}
}
