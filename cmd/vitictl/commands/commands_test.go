package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/record"
	"github.com/dgallion1/vitigest/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	year, getJSON, dbPath = 0, false, ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCategoriesCommand(t *testing.T) {
	out, err := run(t, "categories", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "opt_06")
	assert.Contains(t, out, "grape_juice")
	assert.Contains(t, out, "subopt_04")
	assert.NotContains(t, out, "raisins")
}

func TestGet_InvalidCategoryFailsFast(t *testing.T) {
	t.Setenv("VITIBRASIL_BASE_URL", "http://127.0.0.1:1")

	_, err := run(t, "get", "export", "raisins")
	var invalid *catalog.InvalidCategoryError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, err.Error(), "table_wines")
}

func TestGet_UnknownDomain(t *testing.T) {
	_, err := run(t, "get", "beer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown domain")
}

func TestAll_RejectsDomainWithoutCategories(t *testing.T) {
	_, err := run(t, "all", "production")
	require.Error(t, err)
}

func TestYearArg(t *testing.T) {
	year = 0
	y, err := yearArg()
	require.NoError(t, err)
	assert.Nil(t, y)

	year = 2020
	y, err = yearArg()
	require.NoError(t, err)
	assert.Equal(t, 2020, *y)

	year = -1
	_, err = yearArg()
	assert.Error(t, err)
	year = 0
}

func TestRenderResult_Hierarchical(t *testing.T) {
	qty := int64(1234567)
	title := "Comercialização"
	notes := "Fonte: Embrapa"
	res := &record.Result{
		Year:  2022,
		Title: &title,
		Entries: []record.Entry{
			{Name: "VINHO", Quantity: &qty, Children: []record.SubEntry{{Name: "Tinto"}}},
		},
		Total:     &qty,
		Footnotes: &notes,
	}

	var out bytes.Buffer
	renderResult(&out, catalog.Commercialization, res)
	s := out.String()
	assert.Contains(t, strings.ToLower(s), "comercialização [2022]")
	assert.Contains(t, s, "1,234,567")
	assert.Contains(t, s, "Tinto")
	assert.Contains(t, s, "Fonte: Embrapa")
}

func TestRenderResult_Flat(t *testing.T) {
	q, v := int64(10), int64(2500)
	res := &record.Result{
		Shape:       record.Flat,
		Year:        2021,
		DisplayName: "Uvas Passas",
		Countries:   []record.CountryRecord{{Name: "Chile", Quantity: &q, Value: &v}},
	}

	var out bytes.Buffer
	renderResult(&out, catalog.Import, res)
	s := out.String()
	assert.Contains(t, strings.ToLower(s), "uvas passas")
	assert.Contains(t, s, "Chile")
	assert.Contains(t, s, "2,500")
}

func TestRenderHistory(t *testing.T) {
	var out bytes.Buffer
	renderRuns(&out, []snapshot.Run{{ID: "run-1", StartedAt: time.Now().Add(-time.Hour), Rows: 15, Failures: 2}})
	assert.Contains(t, out.String(), "run-1")
	assert.Contains(t, out.String(), "ago")

	out.Reset()
	served := 2022
	renderRows(&out, []snapshot.Row{
		{Domain: "production", ServedYear: &served},
		{Domain: "import", Category: "raisins", Error: "fetch failed"},
	})
	assert.Contains(t, out.String(), "raisins")
	assert.Contains(t, out.String(), "fetch failed")
	assert.Contains(t, out.String(), "2022")
}
