package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a Logger implementation for tests that captures every
// message it is given instead of writing anywhere.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a new test logger
func NewTestLogger() *TestLogger {
	return &TestLogger{messages: make([]LogMessage, 0)}
}

func (l *TestLogger) record(level, msg string, fields map[string]interface{}, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  fields,
		Error:   err,
	})
}

func (l *TestLogger) Debug(msg string) { l.record("DEBUG", msg, nil, nil) }
func (l *TestLogger) Info(msg string)  { l.record("INFO", msg, nil, nil) }
func (l *TestLogger) Warn(msg string)  { l.record("WARN", msg, nil, nil) }
func (l *TestLogger) Error(msg string) { l.record("ERROR", msg, nil, nil) }
func (l *TestLogger) Fatal(msg string) { l.record("FATAL", msg, nil, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.record("DEBUG", msg, fields, nil)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.record("INFO", msg, fields, nil)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.record("WARN", msg, fields, nil)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.record("ERROR", msg, fields, nil)
}

// WithField adds a field to the logger context
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return &testLoggerContext{parent: l, fields: map[string]interface{}{key: value}}
}

// WithFields adds multiple fields to the logger context
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	return &testLoggerContext{parent: l, fields: fields}
}

// WithError adds an error to the logger context
func (l *TestLogger) WithError(err error) Logger {
	return &testLoggerContext{parent: l, err: err}
}

// GetZerolog returns the underlying zerolog instance
func (l *TestLogger) GetZerolog() *zerolog.Logger {
	return &nopZerolog
}

// Messages returns a copy of all captured log messages
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	messages := make([]LogMessage, len(l.messages))
	copy(messages, l.messages)
	return messages
}

// MessagesByLevel returns all messages of a specific level
func (l *TestLogger) MessagesByLevel(level string) []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	var filtered []LogMessage
	for _, msg := range l.messages {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage checks if a message with the given text was logged
func (l *TestLogger) HasMessage(text string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, msg := range l.messages {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// HasError checks if an error was logged
func (l *TestLogger) HasError() bool {
	return len(l.MessagesByLevel("ERROR")) > 0
}

// Clear clears all captured messages
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = l.messages[:0]
}

// testLoggerContext carries field and error context accumulated through
// WithField, WithFields and WithError back to the parent TestLogger.
type testLoggerContext struct {
	parent *TestLogger
	fields map[string]interface{}
	err    error
}

func (c *testLoggerContext) merge(extra map[string]interface{}) map[string]interface{} {
	if len(extra) == 0 {
		return c.fields
	}
	merged := make(map[string]interface{}, len(c.fields)+len(extra))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func (c *testLoggerContext) Debug(msg string) { c.parent.record("DEBUG", msg, c.fields, c.err) }
func (c *testLoggerContext) Info(msg string)  { c.parent.record("INFO", msg, c.fields, c.err) }
func (c *testLoggerContext) Warn(msg string)  { c.parent.record("WARN", msg, c.fields, c.err) }
func (c *testLoggerContext) Error(msg string) { c.parent.record("ERROR", msg, c.fields, c.err) }
func (c *testLoggerContext) Fatal(msg string) { c.parent.record("FATAL", msg, c.fields, c.err) }

func (c *testLoggerContext) DebugWithFields(msg string, fields map[string]interface{}) {
	c.parent.record("DEBUG", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) InfoWithFields(msg string, fields map[string]interface{}) {
	c.parent.record("INFO", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) WarnWithFields(msg string, fields map[string]interface{}) {
	c.parent.record("WARN", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) ErrorWithFields(msg string, fields map[string]interface{}) {
	c.parent.record("ERROR", msg, c.merge(fields), c.err)
}

func (c *testLoggerContext) WithField(key string, value interface{}) Logger {
	return &testLoggerContext{parent: c.parent, fields: c.merge(map[string]interface{}{key: value}), err: c.err}
}

func (c *testLoggerContext) WithFields(fields map[string]interface{}) Logger {
	return &testLoggerContext{parent: c.parent, fields: c.merge(fields), err: c.err}
}

func (c *testLoggerContext) WithError(err error) Logger {
	return &testLoggerContext{parent: c.parent, fields: c.fields, err: err}
}

func (c *testLoggerContext) GetZerolog() *zerolog.Logger {
	return &nopZerolog
}
