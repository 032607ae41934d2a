package worldbank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/rshade/healthtrack/internal/dataset"
)

// ErrUnexpectedShape means the payload was not [metadata, [records...]].
var ErrUnexpectedShape = errors.New("unexpected indicator response shape")

// Response is a decoded indicator payload.
type Response struct {
	Meta    PageMeta
	Records []Record
}

// Parse validates that body is a two-element array whose element [1] is an
// array of record objects and decodes it. An error payload from the API, a
// null data element, or a record that cannot be decoded is a shape failure.
func Parse(body []byte) (*Response, error) {
	var top []json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: top level is not an array: %w", ErrUnexpectedShape, err)
	}

	if len(top) == 1 {
		var errPayload struct {
			Message []APIMessage `json:"message"`
		}
		if json.Unmarshal(top[0], &errPayload) == nil && len(errPayload.Message) > 0 {
			m := errPayload.Message[0]
			return nil, fmt.Errorf("%w: api error %s %s: %s", ErrUnexpectedShape, m.ID, m.Key, m.Value)
		}
	}
	if len(top) != 2 {
		return nil, fmt.Errorf("%w: expected 2 elements, got %d", ErrUnexpectedShape, len(top))
	}

	var resp Response
	if err := json.Unmarshal(top[0], &resp.Meta); err != nil {
		return nil, fmt.Errorf("%w: page metadata: %w", ErrUnexpectedShape, err)
	}

	data := bytes.TrimSpace(top[1])
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: element [1] is not an array", ErrUnexpectedShape)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: element [1]: %w", ErrUnexpectedShape, err)
	}
	resp.Records = make([]Record, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, fmt.Errorf("%w: record %d is not an object", ErrUnexpectedShape, i)
		}
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrUnexpectedShape, i, err)
		}
		resp.Records = append(resp.Records, rec)
	}
	return &resp, nil
}

// Observations maps records onto the canonical schema and drops any record
// with a null country label, year, or value.
func Observations(records []Record) []dataset.Observation {
	out := make([]dataset.Observation, 0, len(records))
	for _, r := range records {
		if r.Country == nil || r.Country.Value == nil || *r.Country.Value == "" {
			continue
		}
		if !r.Date.Valid || !r.Value.Valid {
			continue
		}
		if math.IsNaN(r.Value.Float64) || math.IsInf(r.Value.Float64, 0) {
			continue
		}
		out = append(out, dataset.Observation{
			Country:        *r.Country.Value,
			Year:           r.Date.Value,
			LifeExpectancy: r.Value.Float64,
		})
	}
	return out
}

// Normalize runs Observations and finalizes the result into a Dataset.
func Normalize(records []Record) *dataset.Dataset {
	return dataset.New(Observations(records))
}
