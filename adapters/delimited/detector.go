package delimited

import "strings"

// candidateDelimiters lists the supported field separators in tie-break
// priority order: when two candidates appear equally often in the
// sample, the earlier one wins.
var candidateDelimiters = []rune{'\t', ',', ';', '|'}

// DefaultSampleLines is how many header-like lines the detector counts
// separators over.
const DefaultSampleLines = 5

// DetectDelimiter infers the field separator from the leading non-empty
// lines of a file. Candidates present in the header line outweigh the
// rest: data cells may legitimately carry other candidates (thousands
// separators in numbers), so only separators the header itself uses
// compete when the header has any. Occurrences are counted across the
// sample and the most frequent candidate wins; ties resolve by the
// fixed priority tab > comma > semicolon > pipe. When no candidate
// occurs at all it falls back to comma.
func DetectDelimiter(lines []string, sampleLines int) rune {
	delim, _ := sniffDelimiter(lines, sampleLines)
	return delim
}

// sniffDelimiter is DetectDelimiter plus a found flag, so the parser
// can tell a real comma file apart from the no-delimiter fallback and
// switch to whitespace tokenization.
func sniffDelimiter(lines []string, sampleLines int) (rune, bool) {
	if sampleLines <= 0 {
		sampleLines = DefaultSampleLines
	}

	candidates := candidateDelimiters
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if present := delimitersIn(line); len(present) > 0 {
			candidates = present
		}
		break
	}

	counts := make(map[rune]int, len(candidates))
	sampled := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, d := range candidates {
			counts[d] += strings.Count(line, string(d))
		}
		sampled++
		if sampled >= sampleLines {
			break
		}
	}

	best := ','
	bestCount := 0
	for _, d := range candidates {
		if counts[d] > bestCount {
			best = d
			bestCount = counts[d]
		}
	}
	if bestCount == 0 {
		return ',', false
	}
	return best, true
}

// delimitersIn returns the candidate separators the line carries, in
// priority order.
func delimitersIn(line string) []rune {
	var present []rune
	for _, d := range candidateDelimiters {
		if strings.ContainsRune(line, d) {
			present = append(present, d)
		}
	}
	return present
}

// containsAnyDelimiter reports whether the line carries any of the
// candidate separators. Used to tell a bare protocol-label line apart
// from a delimited data row.
func containsAnyDelimiter(line string) bool {
	return len(delimitersIn(line)) > 0
}
