package ingest

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var upperCaser = cases.Upper(language.Und)

// dateLayouts covers the formats PO exports have shown up in. Includes the
// layouts this system itself renders, so re-normalizing exported output is a
// no-op.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"01-02-2006",
	"2-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// excelEpoch is day zero of the 1900 date system as spreadsheets store it.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseDate coerces a cell to a timestamp, or nil when unparsable. Numeric
// cells are treated as Excel serial dates.
func parseDate(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 300000 {
		t := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		return &t
	}
	return nil
}

// parseNumber coerces a cell to a float, or nil when unparsable. Currency
// symbols and thousands separators are tolerated.
func parseNumber(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}

// normalizeText trims and upper-cases a text cell.
func normalizeText(raw string) string {
	return upperCaser.String(strings.TrimSpace(raw))
}

type cellFunc func(col string) (string, bool)

func parseDateCell(cell cellFunc, col string) *time.Time {
	raw, ok := cell(col)
	if !ok {
		return nil
	}
	return parseDate(raw)
}

func parseNumberCell(cell cellFunc, col string) *float64 {
	raw, ok := cell(col)
	if !ok {
		return nil
	}
	return parseNumber(raw)
}

func textCell(cell cellFunc, col string) string {
	raw, ok := cell(col)
	if !ok {
		return ""
	}
	return normalizeText(raw)
}
