// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/pki-toolkit/src/internal/helper/gc"
)

// Logger defines the interface for logging operations.
// It provides methods for different log levels and formatted output.
//
// The certificate authority, the CLI and tests all log through this interface,
// so output can switch between human-readable lines and structured JSON.
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output.
func NewCLILogger() *CLILogger {
	l := log.New(os.Stdout, "", 0)
	return &CLILogger{logger: l}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// JSONLogger implements Logger with one JSON object per line.
//
// Each entry carries "time", "level", "message" and, when set, "component".
// A silent JSONLogger drops everything, which makes it a convenient default
// for library code that has not been given a logger.
//
// JSONLogger is safe for concurrent use by multiple goroutines.
type JSONLogger struct {
	out       *output
	silent    bool
	component string

	// now is replaced in tests.
	now func() time.Time
}

// output is the destination shared by a logger and the loggers derived from it.
type output struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewJSONLogger creates a new JSON logger writing to writer.
// A nil writer discards output.
func NewJSONLogger(writer io.Writer, silent bool) *JSONLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &JSONLogger{
		out:    &output{writer: writer},
		silent: silent,
		now:    time.Now,
	}
}

// Discard returns a silent logger.
func Discard() *JSONLogger { return NewJSONLogger(nil, true) }

// WithComponent returns a logger that shares the destination of m and tags
// every entry with component.
func (m *JSONLogger) WithComponent(component string) *JSONLogger {
	return &JSONLogger{
		out:       m.out,
		silent:    m.silent,
		component: component,
		now:       m.now,
	}
}

// Printf formats and logs a structured message in JSON format.
// Output is suppressed if silent mode is enabled.
//
// Printf is safe for concurrent use by multiple goroutines.
func (m *JSONLogger) Printf(format string, v ...any) {
	if m.silent {
		return
	}
	m.write(fmt.Sprintf(format, v...))
}

// Println logs a structured message in JSON format.
// Output is suppressed if silent mode is enabled.
//
// Println is safe for concurrent use by multiple goroutines.
func (m *JSONLogger) Println(v ...any) {
	if m.silent {
		return
	}
	m.write(fmt.Sprint(v...))
}

type entry struct {
	Time      string `json:"time"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

func (m *JSONLogger) write(msg string) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	// Encode appends the trailing newline.
	_ = json.NewEncoder(buf).Encode(entry{
		Time:      m.now().UTC().Format(time.RFC3339),
		Level:     "info",
		Component: m.component,
		Message:   msg,
	})

	m.out.mu.Lock()
	_, _ = m.out.writer.Write(buf.Bytes())
	m.out.mu.Unlock()
}

// SetOutput sets the output destination for the JSON logger.
//
// Loggers derived with WithComponent follow the change.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (m *JSONLogger) SetOutput(w io.Writer) {
	m.out.mu.Lock()
	defer m.out.mu.Unlock()

	if w == nil {
		m.out.writer = io.Discard
	} else {
		m.out.writer = w
	}
}
