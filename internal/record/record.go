package record

// Entry is a top-level named quantity with its nested sub-entries.
type Entry struct {
	Name     string
	Quantity *int64 // nil when the upstream cell carries no data
	Children []SubEntry
}

// SubEntry is a nested named quantity attached to the preceding Entry.
type SubEntry struct {
	Name     string `json:"name"`
	Quantity *int64 `json:"quantity"`
}

// CountryRecord is one row of an import/export table.
type CountryRecord struct {
	Name     string `json:"name"`
	Quantity *int64 `json:"quantity"`
	Value    *int64 `json:"value"`
}

// Shape selects the row layout of a Result.
type Shape int

const (
	// Hierarchical results carry Entries and a single Total.
	Hierarchical Shape = iota
	// Flat results carry Countries with TotalQuantity and TotalValue.
	Flat
)

// Result is a single category-scoped extraction.
type Result struct {
	Shape Shape

	Year        int     // year served by the upstream page
	Title       *string // nil when the domain does not report a title
	Category    string  // empty for domains without categories
	DisplayName string

	Entries   []Entry
	Countries []CountryRecord

	Total         *int64
	TotalQuantity *int64
	TotalValue    *int64

	Footnotes *string

	// RowsLabel and ChildLabel name the JSON fields holding Entries
	// (or Countries) and each Entry's Children.
	RowsLabel  string
	ChildLabel string
}

// ErrorRecord replaces a Result for a category that failed.
type ErrorRecord struct {
	Error string `json:"error"`
}

// Outcome is the result of one category within an Aggregate.
// Exactly one of Result and Err is set.
type Outcome struct {
	Category string
	Result   *Result
	Err      *ErrorRecord
}

// Failed reports whether the category produced an ErrorRecord.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Aggregate combines the per-category results of one domain for one year.
type Aggregate struct {
	// Year is the served year of the first successful category in
	// declared order, or nil when every category failed.
	Year *int
	// YearDrift is set when a successful category served a year other
	// than Year.
	YearDrift  bool
	Categories []Outcome
}

// Outcome returns the outcome recorded for category.
func (a *Aggregate) Outcome(category string) (Outcome, bool) {
	for _, o := range a.Categories {
		if o.Category == category {
			return o, true
		}
	}
	return Outcome{}, false
}

// Succeeded counts the categories that produced a Result.
func (a *Aggregate) Succeeded() int {
	n := 0
	for _, o := range a.Categories {
		if !o.Failed() {
			n++
		}
	}
	return n
}
