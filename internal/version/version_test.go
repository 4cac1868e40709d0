package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	origCommit := Commit
	defer func() { Commit = origCommit }()

	Commit = "unknown"
	if got := Info(); got != Version {
		t.Errorf("Info() = %q, want %q", got, Version)
	}

	Commit = "abcdef1234567890"
	if got := Info(); got != Version+" (abcdef1)" {
		t.Errorf("Info() = %q, want %q", got, Version+" (abcdef1)")
	}
}

func TestFull(t *testing.T) {
	full := Full()
	for _, want := range []string{"qtk version", "Commit:", "Built:"} {
		if !strings.Contains(full, want) {
			t.Errorf("Full() missing %q:\n%s", want, full)
		}
	}
}
