package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"banks-etl/models"
)

// ProgressTimeFormat renders timestamps as YYYY-MM-DD-HH:MM:SS.
const ProgressTimeFormat = "2006-01-02-15:04:05"

// ProgressLog appends "<timestamp> : <message>" lines to a file. The file is
// opened per write and never truncated.
type ProgressLog struct {
	path string
	now  func() time.Time
}

// NewProgressLog returns a ProgressLog appending to path.
func NewProgressLog(path string) *ProgressLog {
	return &ProgressLog{path: path, now: time.Now}
}

// Path returns the log file location.
func (p *ProgressLog) Path() string { return p.path }

// Log appends one entry. Failures are returned as *models.LogError.
func (p *ProgressLog) Log(message string) error {
	line := fmt.Sprintf("%s : %s\n", p.now().Format(ProgressTimeFormat), message)

	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &models.LogError{Path: p.path, Message: message, Err: err}
		}
	}

	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &models.LogError{Path: p.path, Message: message, Err: err}
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return &models.LogError{Path: p.path, Message: message, Err: err}
	}
	if err := f.Close(); err != nil {
		return &models.LogError{Path: p.path, Message: message, Err: err}
	}
	return nil
}
