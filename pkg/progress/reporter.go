package progress

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
)

// 覆盖上一行残留字符用的空白
var fillerSpaces = strings.Repeat(" ", 27)

// LineReporter 在同一行内刷新进度 (行尾为 \r), 只保留最新的百分比
func LineReporter(w io.Writer) Factory {
	return func(name string, total int64) Reporter {
		return func(s Snapshot) {
			fmt.Fprintf(w, "Progress: %d%%  %s / %s%s\r",
				s.Percent, ReadableSize(s.Written, 2), ReadableSize(s.Total, 2), fillerSpaces)
		}
	}
}

// LogReporter 适用于非交互环境, 每前进 step 个百分点输出一条结构化日志
func LogReporter(l *slog.Logger, step int) Factory {
	if step <= 0 {
		step = 10
	}
	return func(name string, total int64) Reporter {
		last := -1
		return func(s Snapshot) {
			due := last < 0 || s.Percent >= last+step || (s.Percent == 100 && last != 100)
			if !due {
				return
			}
			last = s.Percent
			l.Info("progress",
				"file", name,
				"percent", s.Percent,
				"written", ReadableSize(s.Written, 2),
				"total", ReadableSize(s.Total, 2),
			)
		}
	}
}

// BarReporter 使用 progressbar 绘制进度条
func BarReporter(w io.Writer) Factory {
	return func(name string, total int64) Reporter {
		if total <= 0 {
			return func(Snapshot) {}
		}
		bar := progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(name),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
		)
		return func(s Snapshot) {
			_ = bar.Set64(s.Written)
			if s.Percent >= 100 {
				_ = bar.Finish()
			}
		}
	}
}
