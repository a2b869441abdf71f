package version

import "testing"

func TestDefaultsArePlaceholders(t *testing.T) {
	// Without ldflags every field carries the sentinel value.
	if Version == "" || BuildTime == "" || GitCommit == "" {
		t.Fatal("version metadata must never be empty")
	}
}
