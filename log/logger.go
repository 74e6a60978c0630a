package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a small levelled printf-style logger shared by a parser and
// every action it dispatches to.
type Logger struct {
	mu     *sync.Mutex
	writer io.Writer

	Name  string
	Level LogLevel

	TimeFormat string
	NoColor    bool
	JSON       bool
}

// LoggerConfig describes where a Logger writes to.
type LoggerConfig struct {
	Name  string
	Level LogLevel

	// Output overrides the terminal writer (os.Stderr).
	Output     io.Writer
	NoTerminal bool
	NoColor    bool
	JSON       bool

	File     string
	Rotation *LoggerRotation
}

type LoggerRotation struct {
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

type logEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message"`
}

func defaultRotation() *LoggerRotation {
	return &LoggerRotation{
		MaxSize:    16,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   false,
	}
}

func NewLogger(cfg LoggerConfig) *Logger {
	l := &Logger{
		mu:         &sync.Mutex{},
		Name:       cfg.Name,
		Level:      cfg.Level,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    cfg.NoColor,
		JSON:       cfg.JSON,
	}

	var writers []io.Writer
	if !cfg.NoTerminal {
		if cfg.Output != nil {
			writers = append(writers, cfg.Output)
			// Injected writers are rarely terminals.
			l.NoColor = true
		} else {
			writers = append(writers, os.Stderr)
		}
	}

	if cfg.File != "" {
		rotation := cfg.Rotation
		if rotation == nil {
			rotation = defaultRotation()
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    rotation.MaxSize,
			MaxBackups: rotation.MaxBackups,
			MaxAge:     rotation.MaxAge,
			Compress:   rotation.Compress,
		})
		l.NoColor = true
	}

	switch len(writers) {
	case 0:
		l.writer = io.Discard
	case 1:
		l.writer = writers[0]
	default:
		l.writer = io.MultiWriter(writers...)
	}

	return l
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLogger(LoggerConfig{Level: Silent, NoTerminal: true})
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if l == nil || level < l.Level || l.Level >= Silent {
		return
	}

	timestamp := time.Now().Format(l.TimeFormat)
	formattedMsg := fmt.Sprintf(msg, args...)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Service:   l.Name,
			Message:   formattedMsg,
		}

		jsonBytes, _ := json.Marshal(entry)
		fmt.Fprintf(l.writer, "%s\n", jsonBytes)
		return
	}

	prefix := fmt.Sprintf("[%s] %-5s", timestamp, level)
	if l.Name != "" {
		prefix = fmt.Sprintf("%s [%s]", prefix, l.Name)
	}

	if l.NoColor {
		fmt.Fprintf(l.writer, "%s %s\n", prefix, formattedMsg)
	} else {
		fmt.Fprintln(l.writer, colorize(level, prefix+" "+formattedMsg))
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(Debug, msg, args...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(Info, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(Warn, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(Error, msg, args...)
}

// Named returns a child logger sharing the same writer.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}

	child := *l
	if l.Name != "" {
		child.Name = fmt.Sprintf("%s/%s", l.Name, name)
	} else {
		child.Name = name
	}
	return &child
}
