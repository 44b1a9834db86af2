// Package moderation contains the stateless and in-memory checks the
// pipeline runs against every inbound message: the prohibited-term content
// filter, the per-user spam window tracker, and the leveling step.
//
// All three are leaf components: they hold no database handles and issue no
// notifications. The services.Pipeline sequences them.
package moderation

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter scans message text against a fixed prohibited-term set supplied at
// startup. Matching is case-insensitive (Unicode case folding) and purely
// substring-based: a term matches inside a larger word too.
//
// Filter is immutable after construction and safe for concurrent use.
type Filter struct {
	terms []string
}

// NewFilter builds a Filter from the configured term set. Terms are folded
// once here; empty terms are dropped so they cannot match everything.
func NewFilter(terms []string) *Filter {
	fold := cases.Fold()
	folded := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			folded = append(folded, fold.String(t))
		}
	}
	return &Filter{terms: folded}
}

// Classify reports whether text contains a prohibited term. When violating
// is true, term holds the first configured term that matched. Empty input
// is clean; there are no error conditions.
//
// A fresh Caser is created per call: a cases.Caser may be stateful and is
// not safe for concurrent use, and Classify runs on every inbound message.
func (f *Filter) Classify(text string) (term string, violating bool) {
	if text == "" || len(f.terms) == 0 {
		return "", false
	}
	folded := cases.Fold().String(text)
	for _, t := range f.terms {
		if strings.Contains(folded, t) {
			return t, true
		}
	}
	return "", false
}
