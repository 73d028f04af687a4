package themeprefs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type zapLogger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewZapLogger adapts a zap core configuration to Logger. Level changes made
// through SetLevel apply to the returned logger only.
func NewZapLogger(cfg zap.Config) (Logger, error) {
	level := zap.NewAtomicLevelAt(cfg.Level.Level())
	cfg.Level = level
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{sugar: base.Sugar(), level: level}, nil
}

// NewZapProductionLogger is NewZapLogger with zap's production defaults.
func NewZapProductionLogger() (Logger, error) {
	return NewZapLogger(zap.NewProductionConfig())
}

func (l *zapLogger) Debug(msg string, args ...any) { l.sugar.Debugw(msg, args...) }
func (l *zapLogger) Info(msg string, args ...any)  { l.sugar.Infow(msg, args...) }
func (l *zapLogger) Warn(msg string, args ...any)  { l.sugar.Warnw(msg, args...) }
func (l *zapLogger) Error(msg string, args ...any) { l.sugar.Errorw(msg, args...) }

func (l *zapLogger) SetLevel(level LogLevel) {
	l.level.SetLevel(zapLevel(level))
}

// Sync flushes buffered entries.
func (l *zapLogger) Sync() error {
	return l.sugar.Sync()
}

func zapLevel(level LogLevel) zapcore.Level {
	switch {
	case level <= LogLevelDebug:
		return zapcore.DebugLevel
	case level <= LogLevelInfo:
		return zapcore.InfoLevel
	case level <= LogLevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
