// Package logger provides the global structured logger.
//
// The process owns the terminal while running, so log output always goes to
// a file, never to stdout or stderr.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	L       = zap.NewNop()
	S       = L.Sugar()
	logFile *os.File
)

// Init initializes the global logger. An empty path selects the default
// location under the user config directory; an empty level selects "info".
func Init(level, path string) error {
	if path == "" {
		var err error
		path, err = defaultLogPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var err error
	logFile, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	lvl := zapcore.InfoLevel
	if level != "" {
		lvl, err = zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(logFile),
		lvl,
	)

	L = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	S = L.Sugar()

	S.Infow("logger initialized", "path", path, "level", lvl.String())
	return nil
}

// Close flushes and closes the log file.
func Close() {
	_ = L.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

func defaultLogPath() (string, error) {
	if v := os.Getenv("SLIPSTREAM_LOG_FILE"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "slipstream", "slipstream.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "slipstream", "slipstream.log"), nil
}

// Convenience functions for common logging patterns.

func Debug(msg string, keysAndValues ...any) {
	S.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	S.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	S.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	S.Errorw(msg, keysAndValues...)
}
