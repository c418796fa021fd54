package version

import (
	"strings"
	"testing"
)

func TestVersionDefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestBanner(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"plain", "1.2.3", "", "", "bsharp 1.2.3"},
		{"dev suffix", "0.1.0-dev", "", "", "bsharp 0.1.0-dev"},
		{"commit is shortened", "1.0.0", "abc123def4567890", "", "bsharp 1.0.0 (abc123def456)"},
		{"build date", "1.0.0", "", "2024-01-15T10:30:00Z", "bsharp 1.0.0 built 2024-01-15T10:30:00Z"},
		{"not semver", "nightly", "", "", "bsharp nightly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, GitCommit, BuildDate = tt.version, tt.commit, tt.date
			if got := Banner(false); got != tt.want {
				t.Errorf("Banner(false) = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColoredKeepsDigits(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "3.4.5-rc1"

	colored := Colored(true)
	if !strings.Contains(colored, "\x1b[") {
		t.Errorf("expected escape sequences in %q", colored)
	}
	if !strings.HasSuffix(colored, "-rc1") {
		t.Errorf("suffix lost: %q", colored)
	}
	if plain := Colored(false); plain != "3.4.5-rc1" {
		t.Errorf("Colored(false) = %q", plain)
	}
}
