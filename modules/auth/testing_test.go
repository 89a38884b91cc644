package auth

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/example/task-tracker/config"
	"github.com/example/task-tracker/database"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm"
)

// logEntry is one call captured by recordingLogger.
type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger implements types.Logger and keeps every entry for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{entries: &[]logEntry{}}
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *recordingLogger) With(_ ...any) types.Logger    { return l }
func (l *recordingLogger) WithModule(_ string) types.Logger {
	return l
}
func (l *recordingLogger) WithError(_ error) types.Logger {
	return l
}

// dump renders every entry, messages and values, as one string.
func (l *recordingLogger) dump() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	for _, e := range *l.entries {
		fmt.Fprintf(&b, "%s %s %v\n", e.level, e.msg, e.args)
	}
	return b.String()
}

func (l *recordingLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range *l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("database.Open() error = %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("database.Migrate() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
