// Package pipeline orchestrates the conversion of delimited network
// exports into workbook-ready sheets: classify, prune, augment, and
// batch-assemble with deterministic sheet naming.
package pipeline

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"netconvert/adapters/coercer"
	"netconvert/adapters/delimited"
	"netconvert/domain/table"
	"netconvert/internal/config"
)

// Converter runs the full per-file pipeline and assembles batches.
type Converter struct {
	cfg     config.Config
	parser  *delimited.Parser
	coercer *coercer.Coercer
}

// NewConverter wires the pipeline stages from the given configuration.
func NewConverter(cfg config.Config) *Converter {
	parserCfg := delimited.DefaultConfig()
	parserCfg.QuoteAware = cfg.QuoteAware
	parserCfg.SampleLines = cfg.SampleLines

	return &Converter{
		cfg:     cfg,
		parser:  delimited.NewParser(parserCfg),
		coercer: coercer.New(cfg.NumericColumns),
	}
}

// SkippedFile records one input that failed to parse during a batch.
type SkippedFile struct {
	Path   string
	Reason string
}

// Report summarizes one conversion run.
type Report struct {
	RunID   string
	Sheets  []*table.Sheet
	Skipped []SkippedFile
}

// BuildSheets runs the per-section pipeline on raw text: parse every
// protocol section, then coerce, classify, prune, and augment each one.
// Single-section files yield one sheet; the classic multi-section dumps
// (Ethernet, IPv4, ... stacked in one txt) yield one per section. The
// returned sheets carry the protocol base names; batch-level
// deduplication happens in ConvertBatch.
func (c *Converter) BuildSheets(text, filename string) ([]*table.Sheet, error) {
	results, err := c.parser.ParseSections(text, filename)
	if err != nil {
		return nil, err
	}

	multi := len(results) > 1
	sheets := make([]*table.Sheet, 0, len(results))
	for _, result := range results {
		sheets = append(sheets, c.assembleSheet(result, filename, multi))
	}
	return sheets, nil
}

// BuildSheet is BuildSheets for callers that expect a single-section
// input; extra sections are dropped.
func (c *Converter) BuildSheet(text, filename string) (*table.Sheet, error) {
	sheets, err := c.BuildSheets(text, filename)
	if err != nil {
		return nil, err
	}
	return sheets[0], nil
}

func (c *Converter) assembleSheet(result *delimited.Result, filename string, multi bool) *table.Sheet {
	t := result.Table
	c.coercer.Coerce(t)

	// In a multi-section file each section's own label identifies it;
	// the shared filename only classifies single-section exports.
	if multi && result.LabelHint != "" {
		t.Protocol = ProtocolFromLabel(result.LabelHint)
	} else {
		t.Protocol = ClassifyProtocol(filename, result.LabelHint)
	}
	PruneColumns(t)

	cutoff := Augment(t, ParetoConfig{
		Target:   c.cfg.CutoffTarget,
		BandLow:  c.cfg.BandLow,
		BandHigh: c.cfg.BandHigh,
	})

	return &table.Sheet{
		Name:      SanitizeSheetName(t.Protocol.SheetName()),
		Source:    filename,
		Table:     t,
		CutoffRow: cutoff,
	}
}

// ConvertFile reads one input file and builds its sheets.
func (c *Converter) ConvertFile(path string) ([]*table.Sheet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.BuildSheets(string(raw), path)
}

// Input is one in-memory conversion source: raw text plus the name used
// for protocol classification and skip reporting.
type Input struct {
	Name string
	Text string
}

// ConvertBatch runs the pipeline over every input file in order. Files
// that fail to read or parse are skipped and collected rather than
// aborting the run; sheet names are deduplicated with _2, _3... suffixes
// in input order. A batch with zero inputs fails with a BatchError so
// the caller can apply its empty-input policy.
func (c *Converter) ConvertBatch(paths []string) (*Report, error) {
	if len(paths) == 0 {
		return nil, &table.BatchError{}
	}

	inputs := make([]Input, 0, len(paths))
	var skipped []SkippedFile
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, SkippedFile{Path: path, Reason: err.Error()})
			continue
		}
		inputs = append(inputs, Input{Name: path, Text: string(raw)})
	}

	report, err := c.ConvertInputs(inputs)
	if err != nil {
		if _, empty := err.(*table.BatchError); empty && len(skipped) > 0 {
			// Every file failed to read; still report the failures.
			return &Report{RunID: uuid.NewString(), Skipped: skipped}, nil
		}
		return nil, err
	}
	report.Skipped = append(skipped, report.Skipped...)
	return report, nil
}

// ConvertInputs runs the pipeline over already-loaded sources. Used by
// ConvertBatch and by the picker UI, which receives uploads instead of
// paths.
func (c *Converter) ConvertInputs(inputs []Input) (*Report, error) {
	if len(inputs) == 0 {
		return nil, &table.BatchError{}
	}

	report := &Report{RunID: uuid.NewString()}
	log.Printf("[Converter] run %s: converting %d input(s)", report.RunID, len(inputs))

	for _, in := range inputs {
		sheets, err := c.BuildSheets(in.Text, in.Name)
		if err != nil {
			log.Printf("[Converter] run %s: skipping %s: %v", report.RunID, in.Name, err)
			report.Skipped = append(report.Skipped, SkippedFile{Path: in.Name, Reason: err.Error()})
			continue
		}
		report.Sheets = append(report.Sheets, sheets...)
	}

	dedupeSheetNames(report.Sheets)

	log.Printf("[Converter] run %s: %d sheet(s) assembled, %d input(s) skipped",
		report.RunID, len(report.Sheets), len(report.Skipped))

	return report, nil
}

// dedupeSheetNames disambiguates sheet name collisions across the batch
// in input order. Excel treats sheet names case-insensitively, so the
// collision check does too.
func dedupeSheetNames(sheets []*table.Sheet) {
	used := make(map[string]int, len(sheets))
	for _, sheet := range sheets {
		base := sheet.Name
		key := strings.ToLower(base)
		used[key]++
		if used[key] == 1 {
			continue
		}
		name := fmt.Sprintf("%s_%d", base, used[key])
		// Stay under the 31-character worksheet limit, suffix included.
		if over := len(name) - maxSheetNameLen; over > 0 {
			name = fmt.Sprintf("%s_%d", base[:len(base)-over], used[key])
		}
		sheet.Name = name
	}
}

const maxSheetNameLen = 31

var sheetNameSanitizer = regexp.MustCompile(`[^0-9A-Za-z ]`)

// SanitizeSheetName reduces a name to characters Excel accepts in a
// worksheet title and caps it at the 31-character limit. An empty
// result falls back to "Sheet".
func SanitizeSheetName(name string) string {
	name = strings.TrimSpace(sheetNameSanitizer.ReplaceAllString(name, ""))
	if name == "" {
		name = "Sheet"
	}
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}
