package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type level int

const (
	levelDebug level = iota
	levelInfo
	levelError
)

type jsonLogger struct {
	service  string
	hostname string
	min      level
	out      io.Writer
	mu       sync.Mutex
}

func New(service string) Logger {
	return NewWithWriter(service, "debug", os.Stdout)
}

// NewWithWriter writes to out and drops entries below minLevel
// ("debug", "info" or "error").
func NewWithWriter(service, minLevel string, out io.Writer) Logger {
	hostname, _ := os.Hostname()
	return &jsonLogger{
		service:  service,
		hostname: hostname,
		min:      parseLevel(minLevel),
		out:      out,
	}
}

// Nop discards everything. Handy in tests.
func Nop() Logger {
	return NewWithWriter("nop", "error", io.Discard)
}

func parseLevel(s string) level {
	switch strings.ToLower(s) {
	case "info":
		return levelInfo
	case "error":
		return levelError
	default:
		return levelDebug
	}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(levelInfo, "INFO", action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(levelDebug, "DEBUG", action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(levelError, "ERROR", action, message, requestID, details, err)
}

func (l *jsonLogger) log(lvl level, name, action, message, requestID string, details map[string]interface{}, err error) {
	if lvl < l.min {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     name,
		Service:   l.service,
		Hostname:  l.hostname,
		RequestID: requestID,
		Action:    action,
		Message:   message,
		Details:   details,
	}

	if err != nil {
		entry.Error = &ErrorInfo{
			Msg: err.Error(),
		}
	}

	json.NewEncoder(l.out).Encode(entry)
}
