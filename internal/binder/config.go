package binder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogLevel is the severity of a diagnostic.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogNotice
	LogWarning
	LogError
)

var logLevelNames = map[LogLevel]string{
	LogDebug:   "debug",
	LogInfo:    "info",
	LogNotice:  "notice",
	LogWarning: "warning",
	LogError:   "error",
}

func (l LogLevel) String() string {
	if name, ok := logLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLogLevel accepts the names printed by LogLevel.String.
func ParseLogLevel(s string) (LogLevel, error) {
	for l, name := range logLevelNames {
		if strings.EqualFold(s, name) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// LogFunc receives binder diagnostics at or above Config.LogLevel.
type LogFunc func(level LogLevel, msg string)

// CfgFlags adjust binder behaviour.
type CfgFlags uint

const (
	CfgDefault CfgFlags = 0

	// CfgIgnoreUnknownKeys skips mapping keys the schema does not declare.
	CfgIgnoreUnknownKeys CfgFlags = 1 << (iota - 1)

	// CfgCaseInsensitive matches mapping keys without regard to case.
	CfgCaseInsensitive

	// CfgNoAlias rejects documents that use YAML aliases.
	CfgNoAlias
)

// Config is passed by reference to every binder call.
// The binder never modifies it.
type Config struct {
	// LogFn receives diagnostics. Nil disables logging.
	LogFn LogFunc

	// LogLevel is the minimum severity passed to LogFn.
	LogLevel LogLevel

	Flags CfgFlags

	// Mem allocates and releases bound values. Nil uses the Go heap
	// without accounting.
	Mem Allocator
}

func (c *Config) logf(level LogLevel, format string, args ...any) {
	if c.LogFn == nil || level < c.LogLevel {
		return
	}
	c.LogFn(level, fmt.Sprintf(format, args...))
}

func (c *Config) has(f CfgFlags) bool {
	return c.Flags&f == f
}

func (c *Config) allocator() Allocator {
	if c.Mem == nil {
		return heapAllocator{}
	}
	return c.Mem
}

// SlogLogFn adapts a slog.Logger to a LogFunc.
// Notice maps between slog's info and warn levels.
func SlogLogFn(logger *slog.Logger) LogFunc {
	return func(level LogLevel, msg string) {
		logger.Log(context.Background(), slogLevel(level), msg, "component", "binder")
	}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogInfo:
		return slog.LevelInfo
	case LogNotice:
		return slog.LevelInfo + 2
	case LogWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
