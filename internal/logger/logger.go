// Package logger provides leveled logging for certbot-multidomain.
//
// All output goes to stderr. The daemon has no user-facing stdout channel,
// so everything operators see (including captured certbot output) flows
// through this package.
//
// # Log Levels
//
// Five levels are supported, in order of severity:
//   - Debug: command lines, path checks and other diagnostics
//   - Info: normal lifecycle events (issuance requested, renewal scheduled)
//   - Warn: recoverable oddities (empty subdomain list, certbot not in PATH)
//   - Error: failed child processes, failed reloads
//   - Critical: uncaught failures right before the process terminates
//
// # Initialization
//
//	logger.Init(debug) // debug=true enables Debug level, otherwise Info
//
// # Output Format
//
//	[LEVEL] YYYY-MM-DD HH:MM:SS message
//	[INFO] 2026-02-03 03:17:00 Renewing certificates
//
// Structured logs append sorted key=value pairs:
//
//	[DEBUG] 2026-02-03 03:17:00 Running command args=[renew] name=certbot
//
// Level tags are colored when stderr is a terminal. SetOutput always
// disables color so captured output stays plain.
package logger

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Level represents a logging severity level.
type Level int

// Log levels from least to most severe.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

var levelColors = map[Level]*color.Color{
	LevelDebug:    color.New(color.FgHiBlack),
	LevelInfo:     color.New(color.FgCyan),
	LevelWarn:     color.New(color.FgYellow),
	LevelError:    color.New(color.FgRed),
	LevelCritical: color.New(color.FgHiRed, color.Bold),
}

func init() {
	// Whether to colorize is decided per logger, not by the package global.
	for _, c := range levelColors {
		c.EnableColor()
	}
}

// Logger handles leveled logging with thread-safe output.
type Logger struct {
	level  Level
	output io.Writer
	color  bool
	mu     sync.Mutex
}

// Global logger instance.
var std = &Logger{
	level:  LevelInfo,
	output: os.Stderr,
	color:  stderrIsTerminal(),
}

func stderrIsTerminal() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Init initializes the global logger.
// When debug is true, Debug level is enabled, otherwise Info.
func Init(debug bool) {
	std.mu.Lock()
	defer std.mu.Unlock()

	if debug {
		std.level = LevelDebug
	} else {
		std.level = LevelInfo
	}
}

// SetLevel sets the minimum log level for the global logger.
func SetLevel(level Level) {
	std.mu.Lock()
	defer std.mu.Unlock()
	std.level = level
}

// SetOutput sets the output destination for the global logger.
// A nil writer restores os.Stderr. Color is disabled for any explicit writer.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	defer std.mu.Unlock()
	if w == nil {
		std.output = os.Stderr
		std.color = stderrIsTerminal()
		return
	}
	std.output = w
	std.color = false
}

// GetLevel returns the current log level.
func GetLevel() Level {
	std.mu.Lock()
	defer std.mu.Unlock()
	return std.level
}

func (l *Logger) tag(level Level) string {
	tag := "[" + level.String() + "]"
	if c, ok := levelColors[level]; ok && l.color {
		return c.Sprint(tag)
	}
	return tag
}

const timeLayout = "2006-01-02 15:04:05"

// write emits one line: tag, timestamp, message and sorted fields.
func (l *Logger) write(level Level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	var b strings.Builder
	b.WriteString(l.tag(level))
	b.WriteByte(' ')
	b.WriteString(time.Now().Format(timeLayout))
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteByte('\n')

	_, _ = io.WriteString(l.output, b.String())
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	std.write(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	std.write(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning message.
func Warn(format string, args ...interface{}) {
	std.write(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	std.write(LevelError, fmt.Sprintf(format, args...), nil)
}

// Critical logs a message at the highest severity.
func Critical(format string, args ...interface{}) {
	std.write(LevelCritical, fmt.Sprintf(format, args...), nil)
}

// DebugFields logs a debug message with structured fields.
func DebugFields(msg string, fields map[string]interface{}) {
	std.write(LevelDebug, msg, fields)
}

// InfoFields logs an informational message with structured fields.
func InfoFields(msg string, fields map[string]interface{}) {
	std.write(LevelInfo, msg, fields)
}

// WarnFields logs a warning message with structured fields.
func WarnFields(msg string, fields map[string]interface{}) {
	std.write(LevelWarn, msg, fields)
}

// ErrorFields logs an error message with structured fields.
func ErrorFields(msg string, fields map[string]interface{}) {
	std.write(LevelError, msg, fields)
}

// LogError logs an error with additional context message.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	std.write(LevelError, fmt.Sprintf("%s: %v", msg, err), nil)
}
