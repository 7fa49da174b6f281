// Package normalize holds the text folding and XML-safety helpers shared by the
// predicate set and the renderers.
//
// Tag folding pipeline:
// 1 UTF-8 repair drop invalid bytes
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Width fold fullwidth to ASCII
// 5 Trim surrounding whitespace
package normalize

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// pool of fresh transformer chains; a chain is stateful and not safe to share
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			width.Fold,
		)
	},
}

// FoldTag returns the comparison key for a tag so that "Calculus" and "calculus" match
func FoldTag(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(s, "")

	// ASCII fast path: lowercase is already the full fold
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return strings.ToLower(s)
	}

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.TrimSpace(out)
}

// FoldSet folds every tag and returns the set of non-empty keys
func FoldSet(tags []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if k := FoldTag(t); k != "" {
			out[k] = struct{}{}
		}
	}
	return out
}
