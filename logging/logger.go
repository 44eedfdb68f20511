package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel is the configured verbosity, decoupled from slog so config files
// can name it.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

var levelNames = map[LogLevel]string{
	LogLevelDebug: "DEBUG",
	LogLevelInfo:  "INFO",
	LogLevelWarn:  "WARN",
	LogLevelError: "ERROR",
}

var slogLevels = map[LogLevel]slog.Level{
	LogLevelDebug: slog.LevelDebug,
	LogLevelInfo:  slog.LevelInfo,
	LogLevelWarn:  slog.LevelWarn,
	LogLevelError: slog.LevelError,
}

func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

func (l LogLevel) slog() slog.Level {
	if lvl, ok := slogLevels[l]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// ParseLevel converts a case-insensitive level name into a LogLevel. The
// empty string means info.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger is what registries, stores and the advisor log through. Arguments
// after msg are alternating key/value pairs, as with slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggerConfig configures a StrategyLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // "json" or "text"
	Output    io.Writer
	AddSource bool
	Component string
	// Attrs are attached to every entry.
	Attrs map[string]any
}

// StrategyLogger is a slog backed Logger that carries a component name, an
// optional session id and fixed attributes. The With* methods return copies.
type StrategyLogger struct {
	logger    *slog.Logger
	level     LogLevel
	attrs     map[string]any
	component string
	sessionID string
}

// NewLogger builds a StrategyLogger. A nil config logs text at info level to
// stderr.
func NewLogger(cfg *LoggerConfig) *StrategyLogger {
	if cfg == nil {
		cfg = &LoggerConfig{Level: LogLevelInfo, Format: "text"}
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: cfg.Level.slog(), AddSource: cfg.AddSource}
	var handler slog.Handler = slog.NewTextHandler(out, handlerOpts)
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	attrs := make(map[string]any, len(cfg.Attrs))
	for k, v := range cfg.Attrs {
		attrs[k] = v
	}
	return &StrategyLogger{logger: slog.New(handler), level: cfg.Level, attrs: attrs, component: cfg.Component}
}

func (l *StrategyLogger) with(fn func(c *StrategyLogger)) *StrategyLogger {
	c := *l
	c.attrs = make(map[string]any, len(l.attrs)+1)
	for k, v := range l.attrs {
		c.attrs[k] = v
	}
	fn(&c)
	return &c
}

// WithContext returns a logger that adds key=value to every entry.
func (l *StrategyLogger) WithContext(key string, value any) *StrategyLogger {
	return l.with(func(c *StrategyLogger) { c.attrs[key] = value })
}

// WithComponent names the subsystem (session, memory, advisor, ...).
func (l *StrategyLogger) WithComponent(component string) *StrategyLogger {
	return l.with(func(c *StrategyLogger) { c.component = component })
}

// WithSession tags entries with a session id.
func (l *StrategyLogger) WithSession(sessionID string) *StrategyLogger {
	return l.with(func(c *StrategyLogger) { c.sessionID = sessionID })
}

func (l *StrategyLogger) fixedAttrs(extra int) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.attrs)+2+extra)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.sessionID != "" {
		attrs = append(attrs, slog.String("session_id", l.sessionID))
	}
	for k, v := range l.attrs {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *StrategyLogger) emit(level LogLevel, msg string, args ...any) {
	if level < l.level {
		return
	}
	l.logger.With(args...).LogAttrs(context.Background(), level.slog(), msg, l.fixedAttrs(0)...)
}

func (l *StrategyLogger) Debug(msg string, args ...any) { l.emit(LogLevelDebug, msg, args...) }
func (l *StrategyLogger) Info(msg string, args ...any)  { l.emit(LogLevelInfo, msg, args...) }
func (l *StrategyLogger) Warn(msg string, args ...any)  { l.emit(LogLevelWarn, msg, args...) }
func (l *StrategyLogger) Error(msg string, args ...any) { l.emit(LogLevelError, msg, args...) }

// LogGeneration records the latency and outcome of one generation tier.
// Successes log at info, failures at warn.
func (l *StrategyLogger) LogGeneration(tier, provider string, dur time.Duration, success bool, err error) {
	level, msg := LogLevelInfo, "strategy generation completed"
	if !success {
		level, msg = LogLevelWarn, "strategy generation failed"
	}
	if level < l.level {
		return
	}

	attrs := append(l.fixedAttrs(5),
		slog.String("tier", tier),
		slog.String("provider", provider),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
	)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.logger.LogAttrs(context.Background(), level.slog(), msg, attrs...)
}

// NoOpLogger discards everything.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}
