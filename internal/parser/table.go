package parser

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/vitigest/internal/record"
)

const (
	tableSelector    = ".tb_dados"
	bodyRowSelector  = "tbody tr"
	footRowSelector  = "tfoot tr"
	footnoteSelector = ".tb_font"
)

// Hierarchy is the content of a product or variety table.
type Hierarchy struct {
	Entries   []record.Entry
	Total     *int64
	Footnotes *string
}

// Flat is the content of a country table.
type Flat struct {
	Records       []record.CountryRecord
	TotalQuantity *int64
	TotalValue    *int64
	Footnotes     *string
}

// ExtractHierarchical reads a two-level name/quantity table. The table must
// exist; a missing footer or footnote block leaves the corresponding fields nil.
func ExtractHierarchical(doc *goquery.Document) (Hierarchy, error) {
	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return Hierarchy{}, &StructureError{Element: "data table", Detail: tableSelector + " not found"}
	}

	var rows []Row
	for _, raw := range rawRows(table.Find(bodyRowSelector)) {
		if row, ok := ClassifyRow(raw); ok {
			rows = append(rows, row)
		}
	}

	h := Hierarchy{
		Entries:   BuildEntries(rows),
		Footnotes: footnotes(doc, footnoteSelector),
	}
	if foot, ok := footerRow(table); ok && len(foot.Cells) > 1 {
		h.Total = ParseNumber(foot.Cells[1].Text)
	}
	return h, nil
}

// ExtractFlat reads a country/quantity/value table. Rows with fewer than
// three cells are skipped. A page without the table has no data for the
// requested category and year.
func ExtractFlat(doc *goquery.Document) (Flat, error) {
	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return Flat{}, &DataUnavailableError{Detail: "no data table on page"}
	}

	f := Flat{
		Records:   []record.CountryRecord{},
		Footnotes: footnotes(doc, footnoteSelector),
	}
	for _, raw := range rawRows(table.Find(bodyRowSelector)) {
		if len(raw.Cells) < 3 {
			continue
		}
		f.Records = append(f.Records, record.CountryRecord{
			Name:     raw.Cells[0].Text,
			Quantity: ParseNumber(raw.Cells[1].Text),
			Value:    ParseNumber(raw.Cells[2].Text),
		})
	}
	if foot, ok := footerRow(table); ok && len(foot.Cells) > 2 {
		f.TotalQuantity = ParseNumber(foot.Cells[1].Text)
		f.TotalValue = ParseNumber(foot.Cells[2].Text)
	}
	return f, nil
}

func footerRow(table *goquery.Selection) (RawRow, bool) {
	tr := table.Find(footRowSelector).First()
	if tr.Length() == 0 {
		return RawRow{}, false
	}
	return rawRow(tr), true
}
