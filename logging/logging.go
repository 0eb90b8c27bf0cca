package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"repolines/paths"
)

// DefaultMaxLogFiles is how many run logs are kept in the log directory
const DefaultMaxLogFiles = 100

// Logger is the public logger instance accessible from all packages.
// It discards everything until Initialize enables debug output.
var Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// Initialize configures Logger. Debug output goes to debugFile when set,
// otherwise to a new <uuid>.log under $REPOLINES_HOME/logs.
// Returns the log file in use, or "" when logging is disabled.
func Initialize(debug bool, debugFile string, maxLogFiles int) (string, error) {
	// Settings inherited from a parent process
	inherited := os.Getenv("REPOLINES_DEBUG") == "1"
	debug = debug || inherited
	if debugFile == "" {
		debugFile = os.Getenv("REPOLINES_DEBUG_FILE")
	}
	if env := os.Getenv("REPOLINES_MAX_LOG_FILES"); env != "" && maxLogFiles == DefaultMaxLogFiles {
		if parsed, err := strconv.Atoi(env); err == nil {
			maxLogFiles = parsed
		}
	}

	if !debug && debugFile == "" {
		Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
		return "", nil
	}

	logFilePath, err := resolveLogFile(debugFile, maxLogFiles)
	if err != nil {
		return "", err
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}

	Logger = slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if !inherited {
		Logger.Info("Debug logging initialized", "log_file", logFilePath)
		fmt.Fprintf(os.Stderr, "Debug mode enabled. Logs: %s\n", logFilePath)
	}

	return logFilePath, nil
}

// LogDir returns the directory that holds rotated run logs
func LogDir() string {
	return filepath.Join(paths.GetHome(), "logs")
}

func resolveLogFile(debugFile string, maxLogFiles int) (string, error) {
	dir := LogDir()
	if debugFile != "" {
		dir = filepath.Dir(debugFile)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	// A custom file is never rotated
	if debugFile != "" {
		return debugFile, nil
	}

	if maxLogFiles > 0 {
		if err := rotateLogs(dir, maxLogFiles); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: log rotation failed: %v\n", err)
		}
	}
	return filepath.Join(dir, uuid.NewString()+".log"), nil
}

// rotateLogs deletes the oldest *.log files so that one more fits under maxLogFiles
func rotateLogs(logDir string, maxLogFiles int) error {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}

	type logFile struct {
		modTime time.Time
		path    string
	}
	var logs []logFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".log" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		logs = append(logs, logFile{modTime: info.ModTime(), path: filepath.Join(logDir, entry.Name())})
	}

	excess := len(logs) - maxLogFiles + 1
	if excess <= 0 {
		return nil
	}

	slices.SortFunc(logs, func(a, b logFile) int {
		return a.modTime.Compare(b.modTime)
	})
	for _, lf := range logs[:excess] {
		if err := os.Remove(lf.path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to delete old log file %s: %v\n", lf.path, err)
		}
	}
	return nil
}
