package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// inputExtensions are the file types picked up when a directory is given
// as an input.
var inputExtensions = map[string]bool{
	".txt": true,
	".csv": true,
	".tsv": true,
}

// ResolveInputs expands the argument list into an ordered list of input
// files. Plain files pass through as-is; directories contribute their
// matching files in lexical order (non-recursive), keeping batch order —
// and therefore sheet-name suffixing — deterministic.
func ResolveInputs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve input %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve input %s: %w", arg, err)
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if inputExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
				found = append(found, filepath.Join(arg, entry.Name()))
			}
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
