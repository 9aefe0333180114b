// Package report writes the daily settlement file and builds the text and
// HTML bodies used to share it.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	monthDirLayout = "Jan-2006"
	fileLayout     = "02-Jan-2006"
)

// Path returns <dir>/<Mon-YYYY>/<DD-Mon-YYYY>.txt for asOf.
func Path(dir string, asOf time.Time) string {
	return filepath.Join(dir, asOf.Format(monthDirLayout), asOf.Format(fileLayout)+".txt")
}

// WriteDaily writes text to the daily report file, creating the month
// directory when needed. An existing file for the same day is replaced.
//
// Returns:
//   - string: the path written.
//   - error: wrapped filesystem error, if any.
func WriteDaily(dir string, asOf time.Time, text string) (string, error) {
	p := Path(dir, asOf)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write report %s: %w", p, err)
	}
	return p, nil
}
