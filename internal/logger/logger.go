// Package logger provides the shared slog-based logging setup for ctxhost.
//
// The resolver itself never logs — an unrecognized identifier is an ordinary
// error returned to the caller. Logging covers the launch and probe paths,
// where subprocess lifecycle events are worth keeping.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	mu      sync.Mutex
	level   = new(slog.LevelVar)
	logFile *os.File
	root    = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level}))
)

// SetDebug lowers the log level to debug when enabled, info otherwise.
func SetDebug(enabled bool) {
	if enabled {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// Init directs log output to the given file, creating parent directories as
// needed. Output is appended so successive launches share one log.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	root = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

// Close flushes and closes the log file if one was opened via Init.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	root = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: level}))
}

// Default returns the process-wide logger.
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return root
}

// WithServer returns a logger scoped to one context server identifier.
func WithServer(id string) *slog.Logger {
	return Default().With("server", id)
}

// LaunchLogPath returns the log file path for launches of the given server,
// under ~/.ctxhost/logs.
func LaunchLogPath(serverID string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ctxhost", "logs", serverID+".log"), nil
}
