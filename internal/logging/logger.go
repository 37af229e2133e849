// Package logging writes subsystem-prefixed log lines. The TUI owns the
// terminal, so the binary points the output at a file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"unicode/utf8"
)

var debugEnabled atomic.Bool

func init() {
	debugEnabled.Store(os.Getenv("TASKTIMER_DEBUG") == "true")
}

func SetDebug(on bool) { debugEnabled.Store(on) }

func SetOutput(w io.Writer) { log.SetOutput(w) }

// OpenFile sends log output to path, creating parent directories. The returned
// closer restores stderr.
func OpenFile(path string) (func() error, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return func() error {
		log.SetOutput(os.Stderr)
		return f.Close()
	}, nil
}

// Discard silences all log output, used by short CLI commands.
func Discard() { log.SetOutput(io.Discard) }

func Info(subsystem, format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
}

func Warn(subsystem, format string, args ...any) {
	log.Printf("[%s] WARN "+format, append([]any{subsystem}, args...)...)
}

// Debug logs only when TASKTIMER_DEBUG=true or SetDebug(true).
func Debug(subsystem, format string, args ...any) {
	if debugEnabled.Load() {
		log.Printf("[%s] DEBUG "+format, append([]any{subsystem}, args...)...)
	}
}

// Truncate shortens s to maxLen runes for one-line logs and status lines.
func Truncate(s string, maxLen int) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	cut, n := 0, 0
	for cut < len(s) {
		if n == maxLen {
			return s[:cut] + "..."
		}
		_, size := utf8.DecodeRuneInString(s[cut:])
		cut += size
		n++
	}
	return s
}
