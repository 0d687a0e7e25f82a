package version

import (
	"strings"
	"testing"
)

func TestBuildNumber(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    int
		wantErr string
	}{
		{"First release day", "2025-12-04", 0, ""},
		{"Next day", "2025-12-05", 1, ""},
		{"Across leap day", "2028-03-01", 818, ""},
		{"Empty", "", 0, "not set"},
		{"Wrong layout", "04.12.2025", 0, "parse build date"},
		{"Before first release", "2025-11-30", 0, "precedes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildNumber(tt.date)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildNumber(%q) = %d, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestCurrent_LdflagsWin(t *testing.T) {
	oldDate, oldCommit := Date, Commit
	defer func() { Date, Commit = oldDate, oldCommit }()

	Date, Commit = "2025-12-10", "abc123"
	b := Current()

	if b.Number != 6 || b.Date != "2025-12-10" || b.Commit != "abc123" || b.Err != "" {
		t.Errorf("Unexpected build: %+v", b)
	}
}

func TestBuild_String(t *testing.T) {
	tests := []struct {
		name  string
		build Build
		want  string
	}{
		{"Resolved", Build{Number: 6, Date: "2025-12-10", Commit: "abc"}, "exodus-server build 6 (2025-12-10) commit abc"},
		{"Dirty tree", Build{Number: 1, Date: "2025-12-05", Commit: "abc", Dirty: true}, "exodus-server build 1 (2025-12-05) commit abc+dirty"},
		{"Unresolved", Build{Err: "build date is not set"}, "exodus-server build ? commit unknown (build date is not set)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
