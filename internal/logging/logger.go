// Package logging provides structured, colorful logging for the rollup sequencer
// node and its operator CLI.
//
// Every component of rollupd logs through this package: the sequencer event loop,
// the RPC ingress, the gossip transport and the submission client. Third-party
// libraries that expect an io.Writer (Serf, memberlist, gin) are piped through
// dedicated writers so their output carries the same level colors and timestamps.
//
// LOGGING FEATURES:
//   - Color-coded levels: DEBUG (purple), INFO (blue), WARN (yellow), ERROR (red), SUCCESS (green)
//   - Unix conventions: INFO/SUCCESS to stdout, WARN/ERROR/DEBUG to stderr
//   - Single log file mode for daemons started with --log-file
//   - Serf log interception with level extraction
package logging

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	stdlog "log"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	// INFO/SUCCESS destination
	stdoutLogger = newLogger(os.Stdout)

	// WARN/ERROR/DEBUG destination
	stderrLogger = newLogger(os.Stderr)

	cliConfigured = false

	usingLogFile  = false
	logFileHandle io.Writer
)

func newLogger(w io.Writer) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	l.SetStyles(setupCustomStyles())
	return l
}

// setupCustomStyles creates the level color scheme. The colors are readable on
// both light and dark terminals.
func setupCustomStyles() *log.Styles {
	styles := log.DefaultStyles()

	styles.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBUG").
		Foreground(lipgloss.Color("#7F6DFF"))

	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Foreground(lipgloss.Color("#42E7FF"))

	styles.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Foreground(lipgloss.Color("#FFE763"))

	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR").
		Foreground(lipgloss.Color("#FF4473"))

	return styles
}

func getStdoutLoggerOutput() io.Writer {
	if usingLogFile {
		return logFileHandle
	}
	return os.Stdout
}

// Info logs informational messages such as accepted transactions and cut batches.
func Info(format string, v ...any) {
	stdoutLogger.Info(fmt.Sprintf(format, v...))
}

// Warn logs non-fatal problems, e.g. undecodable gossip payloads.
func Warn(format string, v ...any) {
	stderrLogger.Warn(fmt.Sprintf(format, v...))
}

// Error logs failures such as storage or submission errors.
func Error(format string, v ...any) {
	stderrLogger.Error(fmt.Sprintf(format, v...))
}

// Success logs completed operations in green. It shares the INFO level so it is
// filtered together with Info.
func Success(format string, v ...any) {
	if stdoutLogger.GetLevel() > log.InfoLevel {
		return
	}

	styles := setupCustomStyles()
	styles.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("SUCCESS").
		Foreground(lipgloss.Color("#60F281"))

	tempLogger := log.NewWithOptions(getStdoutLoggerOutput(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	tempLogger.SetStyles(styles)
	tempLogger.Info(fmt.Sprintf(format, v...))
}

// Debug logs detailed tracing output for development and troubleshooting.
func Debug(format string, v ...any) {
	stderrLogger.Debug(fmt.Sprintf(format, v...))
}

// SetLevel configures the minimum level for both loggers. Accepts DEBUG, INFO,
// WARN and ERROR; anything else falls back to INFO.
func SetLevel(level string) {
	var logLevel log.Level
	switch level {
	case "DEBUG":
		logLevel = log.DebugLevel
	case "INFO":
		logLevel = log.InfoLevel
	case "WARN":
		logLevel = log.WarnLevel
	case "ERROR":
		logLevel = log.ErrorLevel
	default:
		logLevel = log.InfoLevel
	}

	stdoutLogger.SetLevel(logLevel)
	stderrLogger.SetLevel(logLevel)
}

// SetOutput routes all levels to a single file. Passing nil suppresses output
// entirely. The current level is preserved across the switch.
func SetOutput(w *os.File) {
	if w == nil {
		stdoutLogger.SetLevel(log.FatalLevel + 1)
		stderrLogger.SetLevel(log.FatalLevel + 1)
		usingLogFile = false
		return
	}

	level := stdoutLogger.GetLevel()
	usingLogFile = true
	logFileHandle = w

	stdoutLogger = newLogger(w)
	stderrLogger = newLogger(w)
	stdoutLogger.SetLevel(level)
	stderrLogger.SetLevel(level)
}

// SuppressOutput hides everything below ERROR. Used by rollupctl so command
// output is not interleaved with client debug chatter.
func SuppressOutput() {
	stdoutLogger.SetLevel(log.ErrorLevel)
	stderrLogger.SetLevel(log.ErrorLevel)
	cliConfigured = true
}

// RestoreOutput resets both loggers to stdout/stderr at INFO level.
func RestoreOutput() {
	usingLogFile = false

	stdoutLogger = newLogger(os.Stdout)
	stderrLogger = newLogger(os.Stderr)
	stdoutLogger.SetLevel(log.InfoLevel)
	stderrLogger.SetLevel(log.InfoLevel)
	cliConfigured = true
}

// IsConfiguredByCLI returns true if logging has been explicitly configured by CLI tools.
func IsConfiguredByCLI() bool {
	return cliConfigured
}

// ============================================================================
// SERF LOG INTEGRATION - Capture and reformat Serf/memberlist logs
// ============================================================================

// serfLogRegex matches the standard library log format Serf and memberlist use:
// "2024/01/02 15:04:05 [LEVEL] component: message".
var serfLogRegex = regexp.MustCompile(`^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} \[(\w+)\] (.+)$`)

// ColorfulSerfWriter captures the gossip library's log output and re-emits it
// through this package with a "(p2p)" prefix.
type ColorfulSerfWriter struct {
	reader *io.PipeReader
	writer *io.PipeWriter
}

// NewColorfulSerfWriter creates a writer and starts its background reader.
func NewColorfulSerfWriter() *ColorfulSerfWriter {
	r, w := io.Pipe()
	csw := &ColorfulSerfWriter{
		reader: r,
		writer: w,
	}

	go csw.processLogs()

	return csw
}

// Write implements io.Writer.
func (csw *ColorfulSerfWriter) Write(p []byte) (n int, err error) {
	return csw.writer.Write(p)
}

// Close stops log processing.
func (csw *ColorfulSerfWriter) Close() error {
	return csw.writer.Close()
}

func (csw *ColorfulSerfWriter) processLogs() {
	scanner := bufio.NewScanner(csw.reader)
	for scanner.Scan() {
		level, message := parseSerfLine(scanner.Text())
		if message == "" {
			continue
		}
		emit(level, "(p2p) "+message)
	}
}

// parseSerfLine extracts the level and message from a Serf log line, dropping the
// redundant "serf: " or "memberlist: " component prefix. Lines that do not
// match the expected format are reported at INFO unchanged.
func parseSerfLine(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}

	matches := serfLogRegex.FindStringSubmatch(line)
	if len(matches) != 3 {
		return "INFO", line
	}

	level, message := matches[1], matches[2]
	for _, prefix := range []string{"serf: ", "memberlist: "} {
		if strings.HasPrefix(strings.ToLower(message), prefix) {
			message = strings.TrimSpace(message[len(prefix):])
			break
		}
	}
	return level, message
}

func emit(level, message string) {
	switch level {
	case "DEBUG":
		Debug("%s", message)
	case "INFO":
		Info("%s", message)
	case "WARN", "WARNING":
		Warn("%s", message)
	case "ERR", "ERROR":
		Error("%s", message)
	default:
		Info("[%s] %s", level, message)
	}
}

// ============================================================================
// GENERIC LOG INTEGRATION - General purpose writers for third-party libraries
// ============================================================================

// LevelWriter forwards each written line to a fixed level with an optional prefix.
type LevelWriter struct {
	level  string
	prefix string
}

// NewLevelWriter creates a writer that logs each line at the specified level.
// Valid levels: DEBUG, INFO, WARN, ERROR
func NewLevelWriter(level, prefix string) io.Writer {
	return &LevelWriter{level: strings.ToUpper(level), prefix: prefix}
}

// Write implements io.Writer by splitting input into lines.
func (w *LevelWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if w.prefix != "" {
			line = w.prefix + ": " + line
		}
		emit(w.level, line)
	}
	return len(p), nil
}

// RedirectStandardLog sends the standard library logger's output to w. Passing
// nil discards it.
func RedirectStandardLog(w io.Writer) {
	if w == nil {
		stdlog.SetOutput(io.Discard)
		return
	}
	stdlog.SetOutput(w)
}
