package tt

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// AssertText fails with a unified diff when got differs from want. The
// diff keeps failures on long transcripts readable where a plain
// equality message would not be.
func AssertText(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("failed to build diff: %v", err)
	}
	t.Errorf("text mismatch:\n%s", diff)
}
