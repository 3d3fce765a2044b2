package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the active log file inside Config.LogDir. Rotated copies sit
// next to it with a timestamp suffix.
const FileName = "trackit.log"

// Rotation fallbacks used when the matching Config field is zero.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Config mirrors the log section of config.yaml.
type Config struct {
	Debug  bool
	LogDir string
	// Level is one of debug, info, warn or error. Debug overrides it.
	Level      string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (c Config) level() (log.Level, error) {
	if c.Debug {
		return log.DebugLevel, nil
	}
	if c.Level == "" {
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(c.Level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.Level)
	}
	return lvl, nil
}

func newRotator(c Config) *lumberjack.Logger {
	rot := &lumberjack.Logger{
		Filename:   filepath.Join(c.LogDir, FileName),
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
		Compress:   c.Compress,
	}
	if rot.MaxSize <= 0 {
		rot.MaxSize = DefaultMaxSizeMB
	}
	if rot.MaxBackups <= 0 {
		rot.MaxBackups = DefaultMaxBackups
	}
	if rot.MaxAge <= 0 {
		rot.MaxAge = DefaultMaxAgeDays
	}
	return rot
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return err
	}

	fileWriter := newRotator(cfg)

	// Debug mode mirrors to stderr; otherwise the file is the only sink.
	var writer io.Writer = fileWriter
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "trackit",
	})

	return nil
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
