package logging

import "context"

// NoopLogger discards everything. Tests use it to keep output quiet.
type NoopLogger struct{}

// NewNoopLogger returns a logger that drops all output
func NewNoopLogger() Logger { return NoopLogger{} }

func (NoopLogger) Debug(string, ...interface{}) {}
func (NoopLogger) Info(string, ...interface{})  {}
func (NoopLogger) Warn(string, ...interface{})  {}
func (NoopLogger) Error(string, ...interface{}) {}

func (NoopLogger) InfoContext(context.Context, string, ...interface{})  {}
func (NoopLogger) WarnContext(context.Context, string, ...interface{})  {}
func (NoopLogger) ErrorContext(context.Context, string, ...interface{}) {}

func (n NoopLogger) WithTraceID(string) Logger   { return n }
func (n NoopLogger) WithComponent(string) Logger { return n }
