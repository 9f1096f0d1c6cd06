package manifest

import (
	"os"
	"sort"
	"strings"

	"reqscan/internal/scanerr"
)

// Entry is one resolved dependency line. Version may be empty only when
// the unresolved-emit policy is active; such entries render as a bare name.
type Entry struct {
	Name    string
	Version string
}

// Render produces the manifest text: one line per entry, sorted ascending
// case-insensitively, trailing newline, no blanks. Deterministic for a
// given entry set.
func Render(entries []Entry) string {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name)
		if a != b {
			return a < b
		}
		return sorted[i].Name < sorted[j].Name
	})

	var b strings.Builder
	for _, e := range sorted {
		b.WriteString(e.Name)
		if e.Version != "" {
			b.WriteString("==")
			b.WriteString(e.Version)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Write overwrites path with the rendered manifest and reports how many
// entries were written. A write failure is the one error that surfaces as
// a top-level run failure.
func Write(path string, entries []Entry) (int, error) {
	if err := os.WriteFile(path, []byte(Render(entries)), 0o644); err != nil {
		return 0, scanerr.Wrap(err, scanerr.CodeWriteFailure, "cannot write manifest")
	}
	return len(entries), nil
}
