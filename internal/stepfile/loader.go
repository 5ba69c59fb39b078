// SPDX-License-Identifier: Apache-2.0
package stepfile

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"stepplan/internal/diag"
	"stepplan/step"
)

// LoadDir reads one step record per regular file directly inside dir
// (non-recursive, matching §6.1's "one record per file"), in a
// deterministic, sorted-by-name order, and returns the populated Store.
// Parse diagnostics for unknown keys are forwarded to sink; a malformed
// record aborts the whole load with a *ParseError.
func LoadDir(fsys fs.FS, dir string, sink func(diag.Diagnostic)) (*step.Store, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("stepfile: read dir %q: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	store := step.NewStore()
	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("stepfile: read %q: %w", path, err)
		}
		s, err := Parse(path, string(raw), sink)
		if err != nil {
			return nil, err
		}
		store.Add(s)
	}
	return store, nil
}
