package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/vitigest/internal/catalog"
	"github.com/dgallion1/vitigest/internal/record"
	"github.com/dgallion1/vitigest/internal/snapshot"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func quantity(n *int64) string {
	if n == nil {
		return "-"
	}
	return humanize.Comma(*n)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderResult prints a result as a table followed by its footnotes.
func renderResult(w io.Writer, d catalog.Domain, res *record.Result) {
	heading := fmt.Sprintf("%s %d", d, res.Year)
	if res.Title != nil {
		heading = fmt.Sprintf("%s [%d]", *res.Title, res.Year)
	}
	if res.DisplayName != "" {
		heading += " - " + res.DisplayName
	}

	t := newTable(w)
	t.SetTitle(heading)
	right := []table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	}
	t.SetColumnConfigs(right)

	switch res.Shape {
	case record.Flat:
		t.AppendHeader(table.Row{"Country", "Quantity", "Value (US$)"})
		for _, c := range res.Countries {
			t.AppendRow(table.Row{c.Name, quantity(c.Quantity), quantity(c.Value)})
		}
		t.AppendFooter(table.Row{"Total", quantity(res.TotalQuantity), quantity(res.TotalValue)})
	default:
		t.AppendHeader(table.Row{"Name", "Quantity"})
		for _, e := range res.Entries {
			t.AppendRow(table.Row{e.Name, quantity(e.Quantity)})
			for _, c := range e.Children {
				t.AppendRow(table.Row{"  " + c.Name, quantity(c.Quantity)})
			}
		}
		t.AppendFooter(table.Row{"Total", quantity(res.Total)})
	}
	t.Render()

	if res.Footnotes != nil {
		fmt.Fprintln(w, *res.Footnotes)
	}
}

func renderCategories(w io.Writer, domains []catalog.Domain) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Domain", "Option", "Category", "Code", "Name"})
	for _, d := range domains {
		cats := catalog.Categories(d)
		if len(cats) == 0 {
			t.AppendRow(table.Row{d, d.Option(), "-", "-", "-"})
			continue
		}
		for _, c := range cats {
			t.AppendRow(table.Row{d, d.Option(), c.Key, c.Code, c.DisplayName})
		}
	}
	t.Render()
}

func renderRuns(w io.Writer, runs []snapshot.Run) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Run", "Started", "Rows", "Failures"})
	for _, r := range runs {
		t.AppendRow(table.Row{r.ID, humanize.Time(r.StartedAt), r.Rows, r.Failures})
	}
	t.Render()
}

func renderRows(w io.Writer, rows []snapshot.Row) {
	t := newTable(w)
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 5, WidthMax: 60}})
	t.AppendHeader(table.Row{"Domain", "Category", "Requested", "Served", "Outcome"})
	for _, r := range rows {
		outcome := "ok"
		if r.Error != "" {
			outcome = r.Error
		}
		t.AppendRow(table.Row{r.Domain, dash(r.Category), yearCell(r.RequestedYear), yearCell(r.ServedYear), outcome})
	}
	t.Render()
}

func yearCell(y *int) string {
	if y == nil {
		return "-"
	}
	return fmt.Sprint(*y)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
