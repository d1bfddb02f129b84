package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger 创建日志器：文本输出到 stderr，若配置了 LOG_FILE 则同时以 JSON 追加写入该文件。
// 返回的清理函数负责关闭日志文件；文件打不开时退化为仅 stderr 输出。
func SetupLogger(cfg LogConfig) (*slog.Logger, func() error) {
	noop := func() error { return nil }
	if cfg.File == "" {
		return newLogger(os.Stderr, nil, cfg.Level), noop
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := newLogger(os.Stderr, nil, cfg.Level)
		logger.Error("failed to open log file, using stderr only", "error", err, "file", cfg.File)
		return logger, noop
	}
	return newLogger(os.Stderr, file, cfg.Level), file.Close
}

// newLogger 在 console 之上按需叠加一个 JSON sink。
func newLogger(console, sink io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(console, opts)
	if sink != nil {
		handler = slogmulti.Fanout(handler, slog.NewJSONHandler(sink, opts))
	}
	return slog.New(handler)
}
