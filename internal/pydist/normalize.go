package pydist

import "strings"

// Canonicalize folds a distribution or import name to the PEP 503 canonical
// form: lowercase, with any run of hyphens, underscores and dots collapsed
// to a single hyphen. Import names and distribution names frequently differ
// only in this punctuation (typing_extensions vs typing-extensions).
func Canonicalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	prevSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if r == '-' || r == '_' || r == '.' {
			if !prevSep {
				b.WriteByte('-')
			}
			prevSep = true
			continue
		}
		prevSep = false
		b.WriteRune(r)
	}

	return strings.Trim(b.String(), "-")
}
