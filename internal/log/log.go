package log

import (
	"io"
	"log/slog"
)

// New 返回写入到 w 的 slog.Logger；verbose 时 level=DEBUG，否则 INFO。
// 注意：stdout=数据，日志应始终写 stderr（由调用方传入）。
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// Discard 返回丢弃所有输出的 logger，供未注入 logger 的调用方使用。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
