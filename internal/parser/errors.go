package parser

import "fmt"

// StructureError reports a load-bearing page element that is missing or
// malformed, which usually means the upstream markup changed.
type StructureError struct {
	Element string
	Detail  string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("page structure: %s: %s", e.Element, e.Detail)
}

// DataUnavailableError reports that the page carries no data table for the
// requested category and year.
type DataUnavailableError struct {
	Detail string
}

func (e *DataUnavailableError) Error() string {
	return "data unavailable: " + e.Detail
}
