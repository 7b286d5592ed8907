package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"netconvert/domain/table"
)

// Derived column names appended by Augment. The second name keeps the
// operator-facing "value B over D, times 100" wording from the legacy
// report format.
const (
	ColTotalPackets = "Total Packets"
	ColPacketShare  = "Total Packets in 100% (B/D *100)"
	ColTopTwenty    = "Top 20 %"
)

// packetColumns are the packets-like column names, matched
// case-insensitively after trimming.
var packetColumns = []string{"Packets", "Packet"}

// ParetoConfig tunes cutoff selection. The cutoff is the first row whose
// cumulative share reaches Target percent, accepted only when that
// cumulative value lies inside [BandLow, BandHigh]; otherwise the row
// whose cumulative share is numerically closest to Target wins, earlier
// sorted row on ties.
type ParetoConfig struct {
	Target   float64
	BandLow  float64
	BandHigh float64
}

// DefaultParetoConfig returns the classic 80% cutoff with a 78–90 band.
func DefaultParetoConfig() ParetoConfig {
	return ParetoConfig{Target: 80, BandLow: 78, BandHigh: 90}
}

// Augment sorts the table descending by per-row packet share, appends
// the three derived traffic-concentration columns, and returns the
// zero-based index of the cutoff row, or -1 when no cutoff applies.
//
// Without a packets-like column the table is returned untouched. With a
// zero total the share columns are still appended (all zeros) but the
// Top 20 % column is omitted and no cutoff is selected.
func Augment(t *table.Table, cfg ParetoConfig) int {
	packetsCol := findPacketsColumn(t.Headers)
	if packetsCol == "" {
		return -1
	}

	values := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		if v, ok := table.Numeric(row[packetsCol]); ok {
			values[i] = v
		}
	}

	total, err := stats.Sum(values)
	if err != nil {
		total = 0
	}

	// Stable sort keeps the original order among equal shares, so the
	// augmentation is deterministic across runs.
	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})

	sortedRows := make([]table.Row, len(t.Rows))
	sortedValues := make([]float64, len(values))
	for i, idx := range order {
		sortedRows[i] = t.Rows[idx]
		sortedValues[i] = values[idx]
	}
	t.Rows = sortedRows

	t.Headers = append(t.Headers, ColTotalPackets, ColPacketShare)

	if total == 0 || len(t.Rows) == 0 {
		for _, row := range t.Rows {
			row[ColTotalPackets] = renderTotal(total)
			row[ColPacketShare] = float64(0)
		}
		return -1
	}

	shares := make([]float64, len(sortedValues))
	for i, v := range sortedValues {
		shares[i] = v / total * 100
	}
	cumulative := floats.CumSum(make([]float64, len(shares)), shares)

	cutoff := selectCutoff(cumulative, cfg)

	t.Headers = append(t.Headers, ColTopTwenty)
	for i, row := range t.Rows {
		row[ColTotalPackets] = renderTotal(total)
		row[ColPacketShare] = shares[i]
		if i == cutoff {
			row[ColTopTwenty] = cumulative[i]
		} else {
			row[ColTopTwenty] = ""
		}
	}

	return cutoff
}

// selectCutoff applies the two-phase rule: take the first row crossing
// the target if its cumulative share sits inside the band, otherwise
// fall back to the row nearest the target. Exactly one row is selected
// for any non-empty input.
func selectCutoff(cumulative []float64, cfg ParetoConfig) int {
	crossing := -1
	for i, c := range cumulative {
		if c >= cfg.Target {
			crossing = i
			break
		}
	}
	if crossing >= 0 && cumulative[crossing] >= cfg.BandLow && cumulative[crossing] <= cfg.BandHigh {
		return crossing
	}

	nearest := 0
	best := math.Abs(cumulative[0] - cfg.Target)
	for i := 1; i < len(cumulative); i++ {
		if d := math.Abs(cumulative[i] - cfg.Target); d < best {
			best = d
			nearest = i
		}
	}
	return nearest
}

// findPacketsColumn returns the header whose trimmed name matches a
// packets-like column, or "" when the table has none.
func findPacketsColumn(headers []string) string {
	for _, header := range headers {
		name := strings.ToLower(strings.TrimSpace(header))
		for _, candidate := range packetColumns {
			if name == strings.ToLower(candidate) {
				return header
			}
		}
	}
	return ""
}

// renderTotal keeps integral packet totals as integers in the output.
func renderTotal(total float64) any {
	if total == math.Trunc(total) && math.Abs(total) < 1e15 {
		return int64(total)
	}
	return total
}
