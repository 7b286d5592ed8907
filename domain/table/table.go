// Package table defines the tabular data model shared by the conversion
// pipeline: parsed tables, protocol tags, and the sheets handed to the
// workbook writer.
package table

import "fmt"

// Row maps a column name to its cell value. Cells hold string, int64 or
// float64 depending on whether the column was numerically coerced.
type Row map[string]any

// Table is one parsed input file: an ordered header plus its data rows.
// Every row carries the same set of column names as Headers.
type Table struct {
	Headers  []string
	Rows     []Row
	Protocol Protocol
}

// NewTable creates an empty table with the given header.
func NewTable(headers []string) *Table {
	return &Table{
		Headers:  headers,
		Protocol: ProtocolGeneric,
	}
}

// HasColumn reports whether the table currently carries the named column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Numeric extracts a cell value as float64. Non-numeric cells (strings,
// empty values) report ok=false.
func Numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Protocol tags a table with the traffic type it describes. The tag
// drives column pruning and sheet naming.
type Protocol string

const (
	ProtocolEthernet Protocol = "Ethernet"
	ProtocolIPv4     Protocol = "IPv4"
	ProtocolIPv6     Protocol = "IPv6"
	ProtocolTCP      Protocol = "TCP"
	ProtocolUDP      Protocol = "UDP"
	ProtocolGeneric  Protocol = "Generic"
)

// Protocols lists the known tags in classification priority order.
var Protocols = []Protocol{
	ProtocolEthernet,
	ProtocolIPv4,
	ProtocolIPv6,
	ProtocolTCP,
	ProtocolUDP,
}

// SheetName returns the worksheet base name for the protocol. Generic
// tables land on a plain "Sheet".
func (p Protocol) SheetName() string {
	if p == ProtocolGeneric || p == "" {
		return "Sheet"
	}
	return string(p)
}

// Sheet is one named table destined for one worksheet in the output
// workbook. CutoffRow is the zero-based data row index of the Pareto
// cutoff, or -1 when the table was not augmented.
type Sheet struct {
	Name      string
	Source    string
	Table     *Table
	CutoffRow int
}

// ParseError reports a file with no usable header line. Batch runs skip
// the offending file and continue.
type ParseError struct {
	File   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("parse: %s", e.Reason)
	}
	return fmt.Sprintf("parse %s: %s", e.File, e.Reason)
}

// BatchError reports that zero input files were resolved for a
// conversion run. The caller decides what to do next (picker, selftest,
// plain failure).
type BatchError struct {
	Inputs []string
}

func (e *BatchError) Error() string {
	if len(e.Inputs) == 0 {
		return "batch: no input files resolved"
	}
	return fmt.Sprintf("batch: no input files resolved from %v", e.Inputs)
}
