// Package logging builds the process logger and adapts it to the logger
// interface whatsmeow expects.
package logging

import (
	"fmt"
	"strings"

	waLog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger, or a console logger when
// development is set. level is one of debug, info, warn, error.
func New(level string, development bool) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	if development {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ParseLevel accepts zap level names case-insensitively. Empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}

type waLogger struct {
	log *zap.SugaredLogger
	min zapcore.Level
}

// WhatsApp adapts logger to waLog.Logger under the given module name.
// Messages below minLevel are dropped before formatting; whatsmeow is chatty
// at debug level.
func WhatsApp(logger *zap.Logger, module string, minLevel string) waLog.Logger {
	lvl, err := ParseLevel(minLevel)
	if err != nil {
		lvl = zapcore.WarnLevel
	}
	return &waLogger{log: logger.Named(module).Sugar(), min: lvl}
}

func (l *waLogger) enabled(lvl zapcore.Level) bool {
	return lvl >= l.min
}

func (l *waLogger) Debugf(msg string, args ...any) {
	if l.enabled(zapcore.DebugLevel) {
		l.log.Debugf(msg, args...)
	}
}

func (l *waLogger) Infof(msg string, args ...any) {
	if l.enabled(zapcore.InfoLevel) {
		l.log.Infof(msg, args...)
	}
}

func (l *waLogger) Warnf(msg string, args ...any) {
	if l.enabled(zapcore.WarnLevel) {
		l.log.Warnf(msg, args...)
	}
}

func (l *waLogger) Errorf(msg string, args ...any) {
	if l.enabled(zapcore.ErrorLevel) {
		l.log.Errorf(msg, args...)
	}
}

func (l *waLogger) Sub(module string) waLog.Logger {
	return &waLogger{log: l.log.Named(module), min: l.min}
}
