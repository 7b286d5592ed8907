// Package coercer converts designated columns of a parsed table from
// text to numeric values. Coercion is driven purely by column name;
// header text is never rewritten, only the cells underneath.
package coercer

import (
	"math"
	"strconv"
	"strings"

	"netconvert/domain/table"
)

// DefaultNumericColumns lists the column names (matched
// case-insensitively, ignoring surrounding whitespace) whose cells are
// coerced to numbers.
func DefaultNumericColumns() []string {
	return []string{
		"Packets",
		"Packet",
		"Bytes",
		"Port",
		"Latitude",
		"Longitude",
		"ASN Number",
		"AS Number",
	}
}

// Coercer applies name-driven numeric coercion to tables.
type Coercer struct {
	columns map[string]struct{}
}

// New creates a coercer for the given column names. Passing nil selects
// DefaultNumericColumns.
func New(columns []string) *Coercer {
	if columns == nil {
		columns = DefaultNumericColumns()
	}
	set := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		set[normalize(name)] = struct{}{}
	}
	return &Coercer{columns: set}
}

// Coerce converts cells of matching columns in place. Integral values
// become int64, everything else float64. A cell that fails to parse is
// replaced with an empty value; coercion never fails a file.
func (c *Coercer) Coerce(t *table.Table) {
	for _, header := range t.Headers {
		if _, ok := c.columns[normalize(header)]; !ok {
			continue
		}
		for _, row := range t.Rows {
			cell, _ := row[header].(string)
			if v, ok := parseNumeric(cell); ok {
				row[header] = v
			} else {
				row[header] = ""
			}
		}
	}
}

// parseNumeric parses a textual cell as int64 or float64. Thousands
// separators (commas, spaces) are tolerated since traffic exports often
// group digits.
func parseNumeric(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}

	clean := strings.ReplaceAll(s, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")

	if i, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return i, true
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, false
		}
		return f, true
	}
	return nil, false
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
