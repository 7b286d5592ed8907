package testkit

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"netconvert/adapters/excel"
	"netconvert/domain/table"
	"netconvert/internal/config"
	"netconvert/internal/pipeline"
)

// SelfTest generates synthetic exports in a temp directory, converts
// them end to end, and verifies the conversion invariants on the
// result. outputPath is where the workbook lands; pass "" to keep it in
// the temp directory.
func SelfTest(cfg config.Config, outputPath string) error {
	dir, err := os.MkdirTemp("", "netconvert_selftest_*")
	if err != nil {
		return fmt.Errorf("selftest: temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	gen := NewExportGenerator(DefaultExportConfig())
	paths, err := gen.WriteSampleExports(dir)
	if err != nil {
		return fmt.Errorf("selftest: %w", err)
	}
	log.Printf("[SelfTest] generated %d sample exports in %s", len(paths), dir)

	converter := pipeline.NewConverter(cfg)
	report, err := converter.ConvertBatch(paths)
	if err != nil {
		return fmt.Errorf("selftest: convert: %w", err)
	}
	if len(report.Skipped) > 0 {
		return fmt.Errorf("selftest: %d generated file(s) failed to parse", len(report.Skipped))
	}

	if err := verifyReport(report); err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = filepath.Join(dir, "selftest.xlsx")
	}
	writer := excel.NewWriter(excel.DefaultWriterConfig())
	if err := writer.Write(report.Sheets, outputPath); err != nil {
		return fmt.Errorf("selftest: %w", err)
	}

	log.Printf("[SelfTest] OK: %d sheets written to %s", len(report.Sheets), outputPath)
	return nil
}

// verifyReport checks the pipeline invariants on a converted batch of
// generated exports.
func verifyReport(report *pipeline.Report) error {
	wantSheets := map[string]bool{
		"Ethernet": false, "IPv4": false, "IPv6": false, "TCP": false, "UDP": false,
	}
	for _, sheet := range report.Sheets {
		if _, ok := wantSheets[sheet.Name]; !ok {
			return fmt.Errorf("selftest: unexpected sheet %q", sheet.Name)
		}
		wantSheets[sheet.Name] = true

		if err := verifySheet(sheet); err != nil {
			return err
		}
	}
	for name, seen := range wantSheets {
		if !seen {
			return fmt.Errorf("selftest: missing sheet %q", name)
		}
	}
	return nil
}

func verifySheet(sheet *table.Sheet) error {
	t := sheet.Table

	// Pruned columns must be gone.
	banned := map[string][]string{
		"IPv4": {"Country", "City", "Latitude", "Longitude", "AS Number", "AS Organization"},
		"IPv6": {"Country", "City", "Latitude", "Longitude", "AS Number", "AS Organization"},
		"TCP":  {"Port"},
		"UDP":  {"Port"},
	}
	for _, name := range banned[sheet.Name] {
		for _, header := range t.Headers {
			if strings.EqualFold(strings.TrimSpace(header), name) {
				return fmt.Errorf("selftest: sheet %s still carries column %q", sheet.Name, header)
			}
		}
	}

	// Every generated export has a Packets column, so augmentation must
	// have produced the derived columns and exactly one cutoff row.
	for _, col := range []string{pipeline.ColTotalPackets, pipeline.ColPacketShare, pipeline.ColTopTwenty} {
		if !t.HasColumn(col) {
			return fmt.Errorf("selftest: sheet %s missing derived column %q", sheet.Name, col)
		}
	}
	if sheet.CutoffRow < 0 || sheet.CutoffRow >= len(t.Rows) {
		return fmt.Errorf("selftest: sheet %s has no cutoff row", sheet.Name)
	}

	marked := 0
	for _, row := range t.Rows {
		if v, ok := table.Numeric(row[pipeline.ColTopTwenty]); ok && v > 0 {
			marked++
		}
	}
	if marked != 1 {
		return fmt.Errorf("selftest: sheet %s marks %d cutoff rows, want 1", sheet.Name, marked)
	}

	// Shares must be sorted descending.
	prev := -1.0
	for i, row := range t.Rows {
		share, ok := table.Numeric(row[pipeline.ColPacketShare])
		if !ok {
			return fmt.Errorf("selftest: sheet %s row %d has no share value", sheet.Name, i)
		}
		if prev >= 0 && share > prev+1e-9 {
			return fmt.Errorf("selftest: sheet %s rows not sorted by share", sheet.Name)
		}
		prev = share
	}

	return nil
}
