package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Проставляются при сборке:
// go build -ldflags "-X exodus-server/internal/version.Date=2026-01-15 -X exodus-server/internal/version.Commit=abc123"
var (
	Date   string // YYYY-MM-DD, UTC
	Commit string
)

const dateLayout = "2006-01-02"

// Номер сборки - число суток от первого релиза сервера.
var firstRelease = time.Date(2025, time.December, 4, 0, 0, 0, 0, time.UTC)

// Build - метаданные сборки для /version и стартового лога.
type Build struct {
	Number    int    `json:"number"`
	Date      string `json:"date"`
	Commit    string `json:"commit"`
	Dirty     bool   `json:"dirty"`
	GoVersion string `json:"goVersion"`
	Err       string `json:"error,omitempty"`
}

// BuildNumber переводит дату сборки в номер.
func BuildNumber(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("build date is not set")
	}
	t, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("parse build date %q: %w", date, err)
	}
	if t.Before(firstRelease) {
		return 0, fmt.Errorf("build date %s precedes first release %s", date, firstRelease.Format(dateLayout))
	}
	return int(t.Sub(firstRelease) / (24 * time.Hour)), nil
}

// Current собирает метаданные: ldflags в приоритете, иначе штамп VCS из бинаря.
func Current() Build {
	b := Build{Date: Date, Commit: Commit}

	if bi, ok := debug.ReadBuildInfo(); ok {
		b.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if b.Commit == "" {
					b.Commit = s.Value
				}
			case "vcs.time":
				// vcs.time в RFC3339, берем только день
				if b.Date == "" && len(s.Value) >= len(dateLayout) {
					b.Date = s.Value[:len(dateLayout)]
				}
			case "vcs.modified":
				b.Dirty = s.Value == "true"
			}
		}
	}

	n, err := BuildNumber(b.Date)
	if err != nil {
		b.Err = err.Error()
		return b
	}
	b.Number = n
	return b
}

func (b Build) String() string {
	commit := b.Commit
	if commit == "" {
		commit = "unknown"
	}
	if b.Dirty {
		commit += "+dirty"
	}
	if b.Err != "" {
		return fmt.Sprintf("exodus-server build ? commit %s (%s)", commit, b.Err)
	}
	return fmt.Sprintf("exodus-server build %d (%s) commit %s", b.Number, b.Date, commit)
}
