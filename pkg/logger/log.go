package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the global logger instance
var Logger *slog.Logger
var LogLevel *slog.LevelVar

func init() {
	LogLevel = &slog.LevelVar{}
	// 默认输出到 stderr, 避免和 stdout 上的进度行混在一起
	Logger = New(os.Stderr, LogLevel)
	LogLevel.Set(slog.LevelError) // Set default log level to Error
}

// New 创建一个与全局 Logger 格式一致的 logger, 测试中可以把输出指向 buffer
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{Key: "timestamp", Value: slog.TimeValue(a.Value.Time())}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func SetLogLevel(level string) {
	// Update the global logger's level
	level = strings.ToLower(level)
	switch level {
	case "debug":
		LogLevel.Set(slog.LevelDebug)
	case "info":
		LogLevel.Set(slog.LevelInfo)
	case "warn":
		LogLevel.Set(slog.LevelWarn)
	case "error":
		LogLevel.Set(slog.LevelError)
	}
}
