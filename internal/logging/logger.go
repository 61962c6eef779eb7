// Package logging provides structured JSON logging with trace IDs
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger is the structured logging interface used across the server
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})

	InfoContext(ctx context.Context, msg string, fields ...interface{})
	WarnContext(ctx context.Context, msg string, fields ...interface{})
	ErrorContext(ctx context.Context, msg string, fields ...interface{})

	WithTraceID(traceID string) Logger
	WithComponent(component string) Logger
}

// Level represents logging severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info
func ParseLevel(level string) Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

type contextKey string

// TraceIDKey carries the request trace ID through contexts
const TraceIDKey contextKey = "trace_id"

// entry is the wire shape of one log line
type entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	TraceID   string                 `json:"trace_id,omitempty"`
	Component string                 `json:"component,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// jsonLogger writes one JSON object per line to stderr. Stdout is
// reserved for the stdio MCP transport.
type jsonLogger struct {
	level     Level
	traceID   string
	component string
}

// NewLogger creates a structured logger at the given level
func NewLogger(level Level) Logger {
	return &jsonLogger{level: level}
}

func (l *jsonLogger) WithTraceID(traceID string) Logger {
	clone := *l
	clone.traceID = traceID
	return &clone
}

func (l *jsonLogger) WithComponent(component string) Logger {
	clone := *l
	clone.component = component
	return &clone
}

func (l *jsonLogger) Debug(msg string, fields ...interface{}) {
	l.log(LevelDebug, "DEBUG", msg, "", fields...)
}

func (l *jsonLogger) Info(msg string, fields ...interface{}) {
	l.log(LevelInfo, "INFO", msg, "", fields...)
}

func (l *jsonLogger) Warn(msg string, fields ...interface{}) {
	l.log(LevelWarn, "WARN", msg, "", fields...)
}

func (l *jsonLogger) Error(msg string, fields ...interface{}) {
	l.log(LevelError, "ERROR", msg, "", fields...)
}

func (l *jsonLogger) InfoContext(ctx context.Context, msg string, fields ...interface{}) {
	l.log(LevelInfo, "INFO", msg, GetTraceID(ctx), fields...)
}

func (l *jsonLogger) WarnContext(ctx context.Context, msg string, fields ...interface{}) {
	l.log(LevelWarn, "WARN", msg, GetTraceID(ctx), fields...)
}

func (l *jsonLogger) ErrorContext(ctx context.Context, msg string, fields ...interface{}) {
	l.log(LevelError, "ERROR", msg, GetTraceID(ctx), fields...)
}

func (l *jsonLogger) log(level Level, label, msg, contextTraceID string, fields ...interface{}) {
	if level < l.level {
		return
	}

	traceID := l.traceID
	if contextTraceID != "" {
		traceID = contextTraceID
	}

	var fieldMap map[string]interface{}
	if len(fields) > 0 {
		fieldMap = make(map[string]interface{}, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			fieldMap[fmt.Sprintf("%v", fields[i])] = fields[i+1]
		}
		if len(fields)%2 != 0 {
			fieldMap["extra"] = fields[len(fields)-1]
		}
	}

	e := entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     label,
		Message:   msg,
		TraceID:   traceID,
		Component: l.component,
		Fields:    fieldMap,
	}

	data, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log marshal failed: %v\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, string(data))
}

var defaultLogger Logger = NewLogger(LevelInfo)

// SetDefaultLogger replaces the process-wide default logger
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// WithComponent returns a component-scoped logger off the default
func WithComponent(component string) Logger {
	return defaultLogger.WithComponent(component)
}

// Info logs at info level on the default logger
func Info(msg string, fields ...interface{}) { defaultLogger.Info(msg, fields...) }

// Warn logs at warn level on the default logger
func Warn(msg string, fields ...interface{}) { defaultLogger.Warn(msg, fields...) }

// Error logs at error level on the default logger
func Error(msg string, fields ...interface{}) { defaultLogger.Error(msg, fields...) }

// GenerateTraceID returns a fresh trace identifier
func GenerateTraceID() string {
	return uuid.New().String()
}

// WithTraceID attaches a trace ID to the context, minting one if empty
func WithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = GenerateTraceID()
	}
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID extracts the trace ID from the context, if any
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}
