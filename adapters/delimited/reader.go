// Package delimited parses heterogeneous delimited text exports into
// the tabular model. It sniffs the field separator, splits multi-section
// exports on their protocol-label lines, and normalizes ragged rows
// against the header. Sections with no separator at all fall back to
// whitespace tokenization, the format of the classic column-aligned
// telemetry dumps.
package delimited

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"

	"netconvert/domain/table"
)

// Config controls parsing behavior.
type Config struct {
	QuoteAware  bool     // honor CSV quoting (embedded delimiters, doubled quotes)
	SampleLines int      // lines the delimiter detector samples
	Labels      []string // protocol labels recognized as section boundaries
}

// DefaultConfig returns the parser defaults used by the converter.
func DefaultConfig() Config {
	labels := make([]string, 0, len(table.Protocols))
	for _, p := range table.Protocols {
		labels = append(labels, string(p))
	}
	return Config{
		QuoteAware:  true,
		SampleLines: DefaultSampleLines,
		Labels:      labels,
	}
}

// Parser turns raw export text into a header plus data rows.
type Parser struct {
	cfg Config
}

// NewParser creates a parser with the given config.
func NewParser(cfg Config) *Parser {
	if cfg.SampleLines <= 0 {
		cfg.SampleLines = DefaultSampleLines
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = DefaultConfig().Labels
	}
	return &Parser{cfg: cfg}
}

// Result is the outcome of parsing one section. Delimiter is the
// detected separator, or ' ' when the section was whitespace-tokenized.
type Result struct {
	Table     *table.Table
	Delimiter rune
	LabelHint string // discarded protocol-label line, if any
}

// Parse reads the whole input and produces the table of its first
// section. See ParseSections for the sectioning and parsing rules.
func (p *Parser) Parse(r io.Reader, filename string) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return p.ParseText(string(raw), filename)
}

// ParseText parses already-loaded text and returns the first section.
func (p *Parser) ParseText(text, filename string) (*Result, error) {
	results, err := p.ParseSections(text, filename)
	if err != nil {
		return nil, err
	}
	return results[0], nil
}

// ParseSections parses every section of the input. A trimmed line that
// exactly matches a known protocol label (case-insensitive, optional
// trailing colon) and is not itself a delimited row starts a new
// section; exports with no label lines are one section. Within each
// section the line after the label is treated unconditionally as the
// header. Rows shorter than the header are padded with empty fields and
// longer rows are truncated — a deliberate leniency toward ragged
// exports rather than a strict contract. Label-only sections are
// dropped; the error reports a file where no section parsed.
func (p *Parser) ParseSections(text, filename string) ([]*Result, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var results []*Result
	var firstErr error
	for _, section := range p.splitSections(lines) {
		res, err := p.parseSection(section, filename)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 {
		if firstErr == nil {
			firstErr = &table.ParseError{File: filename, Reason: "no header-eligible line"}
		}
		return nil, firstErr
	}
	return results, nil
}

// splitSections cuts the input at interior protocol-label lines. The
// leading label of the file (if any) stays attached to the first
// section.
func (p *Parser) splitSections(lines []string) [][]string {
	var sections [][]string
	var current []string
	content := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if content && trimmed != "" && p.matchLabel(trimmed) != "" && !containsAnyDelimiter(trimmed) {
			sections = append(sections, current)
			current = nil
			content = false
		}
		current = append(current, line)
		if trimmed != "" {
			content = true
		}
	}
	return append(sections, current)
}

func (p *Parser) parseSection(lines []string, filename string) (*Result, error) {
	// Drop leading blank lines, then an optional protocol-label line.
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start >= len(lines) {
		return nil, &table.ParseError{File: filename, Reason: "no header-eligible line"}
	}

	labelHint := ""
	first := strings.TrimSpace(lines[start])
	if p.matchLabel(first) != "" && !containsAnyDelimiter(first) {
		labelHint = p.matchLabel(first)
		start++
		for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
			start++
		}
	}
	if start >= len(lines) {
		return nil, &table.ParseError{File: filename, Reason: "no header-eligible line"}
	}

	body := lines[start:]
	delim, found := sniffDelimiter(body, p.cfg.SampleLines)

	var records [][]string
	if found {
		var err error
		records, err = p.split(body, delim)
		if err != nil {
			return nil, &table.ParseError{File: filename, Reason: err.Error()}
		}
	} else {
		// Column-aligned export with no separator characters at all.
		records = splitAligned(body)
		delim = ' '
	}
	if len(records) == 0 {
		return nil, &table.ParseError{File: filename, Reason: "no header-eligible line"}
	}

	headers := dedupeHeaders(records[0])
	t := table.NewTable(headers)
	for _, rec := range records[1:] {
		row := make(table.Row, len(headers))
		for i, name := range headers {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			} else {
				row[name] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	log.Printf("[Delimited] parsed %s (delimiter=%q, columns=%d, rows=%d)",
		filename, delim, len(headers), len(t.Rows))

	return &Result{Table: t, Delimiter: delim, LabelHint: labelHint}, nil
}

// split breaks the body lines into field records. Quote-aware mode goes
// through encoding/csv so quoted fields may carry the delimiter, doubled
// quotes, or embedded newlines; otherwise each line splits naively.
func (p *Parser) split(lines []string, delim rune) ([][]string, error) {
	if p.cfg.QuoteAware {
		reader := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
		reader.Comma = delim
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		reader.TrimLeadingSpace = false
		records, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("csv read: %w", err)
		}
		return records, nil
	}

	var records [][]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, strings.Split(line, string(delim)))
	}
	return records, nil
}

// alignedHeaderSets are the column layouts of the classic whitespace-
// aligned exports. Their multi-word names ("Tx Packets") cannot be
// recovered from a single-space header line, so a normalized match
// restores the canonical layout.
var alignedHeaderSets = [][]string{
	{"Address", "Port", "Packets", "Bytes", "Tx Packets", "Tx Bytes", "Rx Packets", "Rx Bytes"},
	{"Address", "Packets", "Bytes", "Tx Packets", "Tx Bytes", "Rx Packets", "Rx Bytes"},
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// splitAligned tokenizes whitespace-aligned lines. The header prefers a
// known canonical layout, then a split on runs of two or more spaces
// (column alignment), then single-space fields. Data rows split on any
// whitespace; tokens beyond the header width merge into the last
// column so free-text trailing fields survive.
func splitAligned(lines []string) [][]string {
	var records [][]string
	width := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if len(records) == 0 {
			header := alignedHeader(line)
			width = len(header)
			records = append(records, header)
			continue
		}
		records = append(records, alignedRow(line, width))
	}
	return records
}

func alignedHeader(line string) []string {
	if set := matchAlignedHeader(line); set != nil {
		return set
	}
	if fields := multiSpace.Split(strings.TrimSpace(line), -1); len(fields) > 1 {
		return fields
	}
	return strings.Fields(line)
}

func matchAlignedHeader(line string) []string {
	norm := strings.ToLower(strings.Join(strings.Fields(line), " "))
	for _, set := range alignedHeaderSets {
		if norm == strings.ToLower(strings.Join(set, " ")) {
			return append([]string(nil), set...)
		}
	}
	return nil
}

func alignedRow(line string, width int) []string {
	tokens := strings.Fields(line)
	if width > 0 && len(tokens) > width {
		merged := strings.Join(tokens[width-1:], " ")
		tokens = append(tokens[:width-1], merged)
	}
	return tokens
}

// matchLabel returns the canonical protocol label the trimmed line
// matches, or "" when it is not a label line. A trailing colon is
// tolerated.
func (p *Parser) matchLabel(line string) string {
	line = strings.TrimSuffix(strings.TrimSpace(line), ":")
	for _, label := range p.cfg.Labels {
		if strings.EqualFold(line, label) {
			return label
		}
	}
	return ""
}

// dedupeHeaders keeps header text exactly as found but disambiguates
// duplicate names with a numeric suffix so rows stay addressable by
// column name.
func dedupeHeaders(raw []string) []string {
	headers := make([]string, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for _, name := range raw {
		key := strings.ToLower(strings.TrimSpace(name))
		seen[key]++
		if seen[key] > 1 {
			name = fmt.Sprintf("%s_%d", name, seen[key])
		}
		headers = append(headers, name)
	}
	return headers
}
