package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type options struct {
	level   slog.Level
	json    bool
	output  io.Writer
	service string
}

// Option configures the logger factory.
type Option func(*options)

// WithLevel sets the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(o *options) { o.level = level }
}

// WithLevelString sets the minimum log level from a config string
// (debug, info, warn, error). Unknown values fall back to info.
func WithLevelString(level string) Option {
	return func(o *options) {
		switch strings.ToLower(level) {
		case "debug":
			o.level = slog.LevelDebug
		case "warn", "warning":
			o.level = slog.LevelWarn
		case "error":
			o.level = slog.LevelError
		default:
			o.level = slog.LevelInfo
		}
	}
}

// WithJSON switches output to the JSON handler.
func WithJSON() Option {
	return func(o *options) { o.json = true }
}

// WithOutput redirects log output, mainly for tests.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithService attaches a service name attribute to every record.
func WithService(name string) Option {
	return func(o *options) { o.service = name }
}

// New creates a configured *slog.Logger. Defaults: text handler, info level,
// stdout.
func New(opts ...Option) *slog.Logger {
	o := options{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var handler slog.Handler
	if o.json {
		handler = slog.NewJSONHandler(o.output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	}

	log := slog.New(handler)
	if o.service != "" {
		log = log.With(slog.String("service", o.service))
	}
	return log
}
