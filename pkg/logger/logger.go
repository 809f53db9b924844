package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level       string
	Development bool
	// File enables a rotated log file next to the stderr output.
	File string
}

type ctxKey struct{}

// Init configures the global logger and returns a closer for the log
// file, if any.
func Init(opts Options) io.Closer {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if opts.Development {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, lj)
		closer = lj
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return closer
}

// Op returns the global logger tagged with the operation name.
func Op(op string) zerolog.Logger {
	return log.With().Str("op", op).Logger()
}

// WithRequestID stores id for loggers built by [FromContext].
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromContext returns an operation logger carrying the request and trace
// ids found in ctx.
func FromContext(ctx context.Context, op string) zerolog.Logger {
	lc := log.With().Str("op", op)

	if id := RequestID(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		lc = lc.
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}

	return lc.Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
