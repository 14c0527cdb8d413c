package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrentTrimsAndDefaults(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() {
		Version, GitCommit = origVersion, origCommit
	})

	Version = "  "
	GitCommit = " abc123\n"
	info := Current()
	if info.Version != "dev" {
		t.Fatalf("expected dev, got %q", info.Version)
	}
	if info.GitCommit != "abc123" {
		t.Fatalf("expected trimmed commit, got %q", info.GitCommit)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	tests := []struct {
		in, want string
	}{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3+build.7", "1.2.3+build.7"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Fatalf("Colored(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func BenchmarkCurrent(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Current()
	}
}
