package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AttemptLogger appends one line per authentication attempt to a log
// file. The line format is fixed by the operational tooling that tails
// the file:
//
//	<timestamp> | Login de usuario '<id>' - <Éxito|Fallido>
type AttemptLogger struct {
	mu   sync.Mutex
	path string
}

// NewAttemptLogger constructs a logger appending to path.
func NewAttemptLogger(path string) *AttemptLogger {
	return &AttemptLogger{path: path}
}

// Log records one attempt. Failures to write propagate so the caller
// can surface them; the attempt itself is not affected.
func (l *AttemptLogger) Log(userID string, success bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open attempt log: %w", err)
	}
	defer f.Close()

	outcome := "Éxito"
	if !success {
		outcome = "Fallido"
	}
	line := fmt.Sprintf("%s | Login de usuario '%s' - %s\n",
		time.Now().Format("02/01/2006 15:04:05"), userID, outcome)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write attempt log: %w", err)
	}
	return nil
}
