package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestResultJSON_Hierarchical(t *testing.T) {
	r := Result{
		Shape:      Hierarchical,
		Year:       2022,
		Title:      ptr("Processamento"),
		Category:   "viniferas",
		RowsLabel:  "varieties",
		ChildLabel: "subvarieties",
		Entries: []Entry{
			{Name: "TINTAS", Quantity: ptr[int64](10), Children: []SubEntry{{Name: "Merlot", Quantity: nil}}},
			{Name: "BRANCAS"},
		},
		Total:     ptr[int64](10),
		Footnotes: ptr("Fonte: Embrapa"),
	}

	got, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"year":2022,"title":"Processamento","category":"viniferas",`+
			`"varieties":[{"name":"TINTAS","quantity":10,"subvarieties":[{"name":"Merlot","quantity":null}]},`+
			`{"name":"BRANCAS","quantity":null,"subvarieties":[]}],`+
			`"total":10,"footnotes":"Fonte: Embrapa"}`,
		string(got))
}

func TestResultJSON_DefaultsForProduction(t *testing.T) {
	got, err := json.Marshal(Result{Year: 2020})
	require.NoError(t, err)
	assert.Equal(t, `{"year":2020,"products":[],"total":null}`, string(got))
}

func TestResultJSON_Flat(t *testing.T) {
	r := Result{
		Shape:       Flat,
		Year:        2021,
		Title:       ptr("Importação"),
		Category:    "raisins",
		DisplayName: "Uvas Passas",
		Countries:   []CountryRecord{{Name: "Chile", Quantity: ptr[int64](5), Value: nil}},
	}

	got, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"year":2021,"title":"Importação","category":"raisins","display_name":"Uvas Passas",`+
			`"countries":[{"name":"Chile","quantity":5,"value":null}],"total_quantity":null,"total_value":null}`,
		string(got))
}

func TestAggregateJSON_KeepsDeclaredOrder(t *testing.T) {
	agg := Aggregate{
		Year:      ptr(2022),
		YearDrift: true,
		Categories: []Outcome{
			{Category: "zeta", Err: &ErrorRecord{Error: "boom"}},
			{Category: "alpha", Result: &Result{Shape: Flat, Year: 2021}},
		},
	}

	got, err := json.Marshal(agg)
	require.NoError(t, err)
	assert.Equal(t,
		`{"year":2022,"year_drift":true,"categories":{"zeta":{"error":"boom"},`+
			`"alpha":{"year":2021,"countries":[],"total_quantity":null,"total_value":null}}}`,
		string(got))
}

func TestAggregate_Helpers(t *testing.T) {
	agg := &Aggregate{Categories: []Outcome{
		{Category: "a", Err: &ErrorRecord{Error: "x"}},
		{Category: "b", Result: &Result{}},
	}}

	assert.Equal(t, 1, agg.Succeeded())
	o, ok := agg.Outcome("a")
	require.True(t, ok)
	assert.True(t, o.Failed())
	_, ok = agg.Outcome("missing")
	assert.False(t, ok)

	got, err := json.Marshal(Aggregate{})
	require.NoError(t, err)
	assert.Equal(t, `{"year":null,"year_drift":false,"categories":{}}`, string(got))
}
