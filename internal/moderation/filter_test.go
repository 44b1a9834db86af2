package moderation

import (
	"testing"
)

func TestFilter_Classify_SubstringMatch(t *testing.T) {
	f := NewFilter([]string{"badword", "slur"})

	term, violating := f.Classify("this contains a badword somewhere")
	if !violating || term != "badword" {
		t.Fatalf("expected violating/badword, got %q %v", term, violating)
	}

	// Substring match applies inside larger words too.
	if _, violating := f.Classify("superbadwordish"); !violating {
		t.Fatalf("expected match inside a larger word")
	}
}

func TestFilter_Classify_CaseInsensitive(t *testing.T) {
	f := NewFilter([]string{"badword"})

	for _, text := range []string{"BADWORD", "BadWord", "bAdWoRd here"} {
		if _, violating := f.Classify(text); !violating {
			t.Fatalf("expected %q to violate", text)
		}
	}

	// Terms configured in mixed case still match lowercase text.
	f2 := NewFilter([]string{"BadWord"})
	if _, violating := f2.Classify("a badword again"); !violating {
		t.Fatalf("expected mixed-case term to match")
	}
}

func TestFilter_Classify_Clean(t *testing.T) {
	f := NewFilter([]string{"badword1", "badword2"})

	for _, text := range []string{"", "a perfectly fine message", "bad word with a space"} {
		if term, violating := f.Classify(text); violating {
			t.Fatalf("expected %q clean, matched %q", text, term)
		}
	}
}

func TestFilter_Classify_NoTerms(t *testing.T) {
	f := NewFilter(nil)
	if _, violating := f.Classify("anything at all"); violating {
		t.Fatalf("empty term set must never violate")
	}

	// Blank terms are dropped, not treated as match-everything.
	f = NewFilter([]string{"", "  "})
	if _, violating := f.Classify("anything at all"); violating {
		t.Fatalf("blank terms must be dropped")
	}
}

func TestFilter_Classify_FirstTermWins(t *testing.T) {
	f := NewFilter([]string{"alpha", "beta"})
	term, violating := f.Classify("beta then alpha")
	if !violating || term != "alpha" {
		t.Fatalf("expected first configured term to be reported, got %q", term)
	}
}
