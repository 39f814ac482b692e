package blocklist

import (
	"strings"
	"testing"
)

func TestCheckCleanText(t *testing.T) {
	t.Parallel()

	text := "Steel tariffs will raise input costs for US manufacturers."
	if violations := Check(text); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
	if !IsClean(text) {
		t.Fatalf("expected clean text")
	}
}

func TestCheckBlockedTerm(t *testing.T) {
	t.Parallel()

	violations := Check("Solairus expanded its fleet")
	if len(violations) == 0 {
		t.Fatalf("expected violations for legacy client name")
	}
	if !strings.HasPrefix(violations[0], "term: ") {
		t.Fatalf("expected term violation first, got %q", violations[0])
	}
}

func TestCheckTailNumberPattern(t *testing.T) {
	t.Parallel()

	violations := Check("registered as N123AB last week")
	if len(violations) == 0 {
		t.Fatalf("expected tail number to be flagged")
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"aviation demand", "industrial demand"},
		{"aircraft maintenance", "equipment maintenance"},
		{"jet fuel prices", "energy costs prices"},
		{"Solairus report", "[CLIENT] report"},
	}

	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
