package action

import (
	"io"

	"github.com/mwantia/action/log"
)

type ParserOptions struct {
	LogLevel      log.LogLevel
	LogFile       string
	LogWriter     io.Writer
	JSONLog       bool
	NoTerminalLog bool
	Logger        *log.Logger
}

type ParserOption func(*ParserOptions) error

func newDefaultParserOptions() *ParserOptions {
	return &ParserOptions{
		LogLevel: log.Error,
	}
}

func (o *ParserOptions) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}

	return log.NewLogger(log.LoggerConfig{
		Name:       "action",
		Level:      o.LogLevel,
		Output:     o.LogWriter,
		NoTerminal: o.NoTerminalLog,
		JSON:       o.JSONLog,
		File:       o.LogFile,
	})
}

func WithLogLevel(logLevel log.LogLevel) ParserOption {
	return func(opts *ParserOptions) error {
		opts.LogLevel = logLevel
		return nil
	}
}

// WithLogLevelName parses the level, e.g. from an environment variable.
func WithLogLevelName(name string) ParserOption {
	return func(opts *ParserOptions) error {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}

		opts.LogLevel = level
		return nil
	}
}

func WithoutTerminalLog() ParserOption {
	return func(opts *ParserOptions) error {
		opts.NoTerminalLog = true
		return nil
	}
}

func WithLogFile(logFile string) ParserOption {
	return func(opts *ParserOptions) error {
		opts.LogFile = logFile
		return nil
	}
}

func WithLogWriter(w io.Writer) ParserOption {
	return func(opts *ParserOptions) error {
		opts.LogWriter = w
		return nil
	}
}

func WithJSONLog() ParserOption {
	return func(opts *ParserOptions) error {
		opts.JSONLog = true
		return nil
	}
}

// WithLogger shares an existing logger; all other log options are ignored.
func WithLogger(logger *log.Logger) ParserOption {
	return func(opts *ParserOptions) error {
		opts.Logger = logger
		return nil
	}
}
