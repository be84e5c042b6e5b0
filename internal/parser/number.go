package parser

import (
	"log/slog"
	"strconv"
	"strings"
)

// ParseNumber normalizes an upstream quantity cell. Dots are thousands
// separators; every other non-digit is discarded. Empty and "-" cells
// mean "no data" and yield nil, as does anything left unparsable, which is
// logged and otherwise ignored.
func ParseNumber(text string) *int64 {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return nil
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		slog.Warn("could not parse number", "text", text, "error", err)
		return nil
	}
	return &n
}
