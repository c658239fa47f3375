package debug

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var (
	file    *os.File
	logger  *slog.Logger
	mu      sync.Mutex
	enabled bool

	// runID tags every line written by this process
	runID = uuid.NewString()
)

// RunID identifies this process in logs and state snapshots
func RunID() string {
	return runID
}

// DefaultPath returns ~/.config/go-progression/debug.log
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "go-progression", "debug.log")
}

// Enable starts debug logging to path (DefaultPath if empty), truncating it
func Enable(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	closeFile()
	file = f
	start(f)
	return nil
}

// EnableWriter sends debug logging to w (stderr in headless runs, buffers in tests)
func EnableWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	closeFile()
	start(w)
}

// start must be called with mu held
func start(w io.Writer) {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger = slog.New(h).With("run", runID)
	enabled = true
	logger.Debug("=== Debug logging started ===", "cat", "debug")
}

func closeFile() {
	if file != nil {
		file.Close()
		file = nil
	}
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	closeFile()
	logger = nil
	enabled = false
}

// Enabled reports whether Log writes anywhere
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}

	logger.Debug(fmt.Sprintf(format, args...), "cat", category)
	if file != nil {
		file.Sync() // flush immediately so we see logs even on crash
	}
}

// Error writes err with context; always goes to the log when enabled
func Error(category string, err error, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}
	logger.Error(fmt.Sprintf(format, args...), "cat", category, "err", err)
	if file != nil {
		file.Sync()
	}
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
