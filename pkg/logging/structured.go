package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/snow-ghost/featsel/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FineLevel sits one step below zap's debug level.
const FineLevel = zapcore.DebugLevel - 1

// SlogLevelFine sits one step below slog's debug level.
const SlogLevelFine = slog.LevelDebug - 4

// Logger wraps both slog and zap loggers
type Logger struct {
	slog *slog.Logger
	zap  *zap.Logger
}

var _ core.Logger = (*Logger)(nil)

// Config holds logging configuration
type Config struct {
	Level     string
	Format    string // "json" or "console"
	Output    string // "stdout" or "stderr"
	AddCaller bool
	AddStack  bool
}

// DefaultConfig returns info-level JSON logging to stderr.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json", Output: "stderr"}
}

// NewLogger creates a new structured logger
func NewLogger(config Config) (*Logger, error) {
	if config.Format == "" {
		config.Format = "json"
	}
	if config.Output == "" {
		config.Output = "stderr"
	}

	out := os.Stderr
	if config.Output == "stdout" {
		out = os.Stdout
	}
	slogLogger := slog.New(newSlogHandler(out, config))

	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.EncodeLevel = encodeLevel
	zapConfig.Level = zap.NewAtomicLevelAt(parseZapLevel(config.Level))
	zapConfig.Encoding = config.Format
	zapConfig.OutputPaths = []string{config.Output}
	zapConfig.ErrorOutputPaths = []string{config.Output}
	zapConfig.DisableCaller = !config.AddCaller
	zapConfig.DisableStacktrace = !config.AddStack
	// sampling would drop per-evaluation diagnostics
	zapConfig.Sampling = nil

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return &Logger{
		slog: slogLogger,
		zap:  zapLogger,
	}, nil
}

// newSlogHandler picks the text or JSON handler for config.Format and renders
// SlogLevelFine as "fine".
func newSlogHandler(w io.Writer, config Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     parseSlogLevel(config.Level),
		AddSource: config.AddCaller,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.LevelKey {
				if level, ok := a.Value.Any().(slog.Level); ok && level == SlogLevelFine {
					a.Value = slog.StringValue("fine")
				}
			}
			return a
		},
	}
	if config.Format == "console" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// encodeLevel is zap's lowercase encoder with a name for FineLevel.
func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if level == FineLevel {
		enc.AppendString("fine")
		return
	}
	zapcore.LowercaseLevelEncoder(level, enc)
}

// NewZapLogger adapts an existing zap logger.
func NewZapLogger(z *zap.Logger) *Logger {
	return &Logger{zap: z}
}

// NewSlogLogger adapts an existing slog logger.
func NewSlogLogger(s *slog.Logger) *Logger {
	return &Logger{slog: s}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// parseSlogLevel parses slog level from string
func parseSlogLevel(level string) slog.Level {
	switch level {
	case "fine":
		return SlogLevelFine
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// parseZapLevel parses zap level from string
func parseZapLevel(level string) zapcore.Level {
	switch level {
	case "fine":
		return FineLevel
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func zapLevel(level core.Level) zapcore.Level {
	switch level {
	case core.LevelError:
		return zapcore.ErrorLevel
	case core.LevelWarn:
		return zapcore.WarnLevel
	case core.LevelInfo:
		return zapcore.InfoLevel
	case core.LevelDebug:
		return zapcore.DebugLevel
	default:
		return FineLevel
	}
}

func slogLevel(level core.Level) slog.Level {
	switch level {
	case core.LevelError:
		return slog.LevelError
	case core.LevelWarn:
		return slog.LevelWarn
	case core.LevelInfo:
		return slog.LevelInfo
	case core.LevelDebug:
		return slog.LevelDebug
	default:
		return SlogLevelFine
	}
}

// Enabled reports whether a message at level would be recorded. zap takes
// precedence when both backends are configured.
func (l *Logger) Enabled(level core.Level) bool {
	if l.zap != nil {
		return l.zap.Core().Enabled(zapLevel(level))
	}
	return l.slog != nil && l.slog.Enabled(context.Background(), slogLevel(level))
}

// Log writes msg at level to the zap backend, or to slog when zap is absent.
func (l *Logger) Log(level core.Level, msg string) {
	if l.zap != nil {
		if ce := l.zap.Check(zapLevel(level), msg); ce != nil {
			ce.Write()
		}
		return
	}
	if l.slog != nil {
		l.slog.Log(context.Background(), slogLevel(level), msg)
	}
}

// WithFields adds fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	out := &Logger{}
	if l.slog != nil {
		attrs := make([]any, 0, len(fields)*2)
		for key, value := range fields {
			attrs = append(attrs, key, value)
		}
		out.slog = l.slog.With(attrs...)
	}
	if l.zap != nil {
		zapFields := make([]zap.Field, 0, len(fields))
		for key, value := range fields {
			zapFields = append(zapFields, zap.Any(key, value))
		}
		out.zap = l.zap.With(zapFields...)
	}
	return out
}

// Sync syncs the logger
func (l *Logger) Sync() error {
	if l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// GetSlog returns the slog logger, falling back to slog.Default.
func (l *Logger) GetSlog() *slog.Logger {
	if l.slog != nil {
		return l.slog
	}
	return slog.Default()
}
