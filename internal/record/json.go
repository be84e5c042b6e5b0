package record

import (
	"bytes"
	"encoding/json"
)

const (
	defaultRowsLabel    = "products"
	defaultChildLabel   = "subcategories"
	defaultCountryLabel = "countries"
)

// field is one key of a JSON object whose key order must be preserved.
type field struct {
	key   string
	value any
}

func encodeObject(fields []field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e Entry) encode(childLabel string) (json.RawMessage, error) {
	children := e.Children
	if children == nil {
		children = []SubEntry{}
	}
	return encodeObject([]field{
		{"name", e.Name},
		{"quantity", e.Quantity},
		{childLabel, children},
	})
}

// MarshalJSON encodes the result with its domain-specific row labels.
func (r Result) MarshalJSON() ([]byte, error) {
	fields := []field{{"year", r.Year}}
	if r.Title != nil {
		fields = append(fields, field{"title", *r.Title})
	}
	if r.Category != "" {
		fields = append(fields, field{"category", r.Category})
	}
	if r.DisplayName != "" {
		fields = append(fields, field{"display_name", r.DisplayName})
	}

	switch r.Shape {
	case Flat:
		label := r.RowsLabel
		if label == "" {
			label = defaultCountryLabel
		}
		countries := r.Countries
		if countries == nil {
			countries = []CountryRecord{}
		}
		fields = append(fields,
			field{label, countries},
			field{"total_quantity", r.TotalQuantity},
			field{"total_value", r.TotalValue},
		)
	default:
		label, childLabel := r.RowsLabel, r.ChildLabel
		if label == "" {
			label = defaultRowsLabel
		}
		if childLabel == "" {
			childLabel = defaultChildLabel
		}
		rows := make([]json.RawMessage, 0, len(r.Entries))
		for _, e := range r.Entries {
			raw, err := e.encode(childLabel)
			if err != nil {
				return nil, err
			}
			rows = append(rows, raw)
		}
		fields = append(fields,
			field{label, rows},
			field{"total", r.Total},
		)
	}

	if r.Footnotes != nil {
		fields = append(fields, field{"footnotes", *r.Footnotes})
	}
	return encodeObject(fields)
}

// MarshalJSON encodes the outcome as either the result or its error record.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		return json.Marshal(o.Err)
	}
	if o.Result == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Result)
}

// MarshalJSON keeps categories in declared order.
func (a Aggregate) MarshalJSON() ([]byte, error) {
	cats := make([]field, 0, len(a.Categories))
	for _, o := range a.Categories {
		cats = append(cats, field{o.Category, o})
	}
	catsJSON, err := encodeObject(cats)
	if err != nil {
		return nil, err
	}
	return encodeObject([]field{
		{"year", a.Year},
		{"year_drift", a.YearDrift},
		{"categories", json.RawMessage(catsJSON)},
	})
}
