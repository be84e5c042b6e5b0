package parser

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/vitigest/internal/record"
)

// topLevelClass marks the first cell of a top-level row in hierarchical tables.
const topLevelClass = "tb_item"

// Cell is a table cell reduced to what row classification needs.
type Cell struct {
	Text    string
	Classes []string
}

// RawRow is a table row independent of the markup library that produced it.
type RawRow struct {
	Cells []Cell
}

// Row is either a TopLevelRow or a NestedRow.
type Row interface {
	isRow()
}

// TopLevelRow opens a new Entry.
type TopLevelRow struct {
	Name     string
	Quantity *int64
}

// NestedRow belongs to the most recently opened Entry.
type NestedRow struct {
	Name     string
	Quantity *int64
}

func (TopLevelRow) isRow() {}
func (NestedRow) isRow()   {}

// ClassifyRow turns a raw hierarchical row into a TopLevelRow or NestedRow
// by the marker class on its first cell. Rows without cells report false.
func ClassifyRow(raw RawRow) (Row, bool) {
	if len(raw.Cells) == 0 {
		return nil, false
	}

	first := raw.Cells[0]
	var quantity *int64
	if len(raw.Cells) > 1 {
		quantity = ParseNumber(raw.Cells[1].Text)
	}

	if slices.Contains(first.Classes, topLevelClass) {
		return TopLevelRow{Name: first.Text, Quantity: quantity}, true
	}
	return NestedRow{Name: first.Text, Quantity: quantity}, true
}

// BuildEntries folds classified rows into entries. A nested row attaches to
// the current parent; one seen before any top-level row is dropped.
func BuildEntries(rows []Row) []record.Entry {
	entries := make([]record.Entry, 0, len(rows))
	parent := -1

	for _, row := range rows {
		switch r := row.(type) {
		case TopLevelRow:
			entries = append(entries, record.Entry{
				Name:     r.Name,
				Quantity: r.Quantity,
				Children: []record.SubEntry{},
			})
			parent = len(entries) - 1
		case NestedRow:
			if parent < 0 {
				continue
			}
			entries[parent].Children = append(entries[parent].Children, record.SubEntry{
				Name:     r.Name,
				Quantity: r.Quantity,
			})
		}
	}
	return entries
}

func rawRows(sel *goquery.Selection) []RawRow {
	rows := make([]RawRow, 0, sel.Length())
	sel.Each(func(_ int, tr *goquery.Selection) {
		rows = append(rows, rawRow(tr))
	})
	return rows
}

func rawRow(tr *goquery.Selection) RawRow {
	tds := tr.Find("td")
	cells := make([]Cell, 0, tds.Length())
	tds.Each(func(_ int, td *goquery.Selection) {
		class, _ := td.Attr("class")
		cells = append(cells, Cell{
			Text:    strings.TrimSpace(td.Text()),
			Classes: strings.Fields(class),
		})
	})
	return RawRow{Cells: cells}
}
