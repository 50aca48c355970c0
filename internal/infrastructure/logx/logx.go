package logx

import (
	"context"
	"strings"

	"otcrates-service/internal/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

var (
	logger *zap.Logger
)

func init() {
	var err error
	logger, err = defaultLogger()
	if err != nil {
		panic(err)
	}
}

// defaultLogger loads .env before reading config, since this package
// initializes ahead of main.
func defaultLogger() (*zap.Logger, error) {
	_ = godotenv.Load()
	return New(config.Load())
}

// New builds the production logger. With LOG_FILE set, entries are also
// written as JSON to a size-rotated file.
func New(appCfg config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Sampling = nil
	zapCfg.DisableStacktrace = true
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if appCfg.LogLevel != "" {
		_ = zapCfg.Level.UnmarshalText([]byte(strings.ToLower(appCfg.LogLevel)))
	}

	l, err := zapCfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	if appCfg.LogFile != "" {
		file := zapcore.NewCore(
			zapcore.NewJSONEncoder(zapCfg.EncoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename: appCfg.LogFile,
				MaxSize:  100,
				MaxAge:   appCfg.LogMaxAge,
				Compress: true,
			}),
			zapCfg.Level,
		)
		l = l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core { return zapcore.NewTee(c, file) }))
	}
	return l.With(zap.String("env", appCfg.Env)), nil
}

// L returns the package-level logger instance.
func L() *zap.Logger {
	return logger
}

// Into stores a request-scoped logger in ctx.
func Into(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithFields returns the request-scoped logger when one was stored by Into,
// otherwise the base logger.
func WithFields(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return logger
}
