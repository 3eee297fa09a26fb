// Package export writes results to dated CSV files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"avapi/internal/tabular"
)

// Filename returns <YYYY-MM-DD>_<function>_<symbol>.csv for day. Path
// separators in either part are replaced so the name stays in one directory.
func Filename(day time.Time, function, symbol string) string {
	return fmt.Sprintf("%s_%s_%s.csv", day.Format(time.DateOnly), clean(function), clean(symbol))
}

var unsafe = strings.NewReplacer("/", "-", `\`, "-", string(os.PathSeparator), "-")

func clean(s string) string {
	return unsafe.Replace(strings.TrimSpace(s))
}

// Save writes res as delimited text into dir and returns the file path.
// An empty dir means the working directory.
func Save(dir string, day time.Time, function, symbol string, res *tabular.Result) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, Filename(day, function, symbol))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	if err := res.WriteCSV(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export: %w", err)
	}
	return path, nil
}
