// Package progress renders dispatcher progress as a terminal bar or, when
// output is not a terminal, as sampled log lines.
package progress

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"curator/internal/dispatch"
	"curator/internal/logging"
)

// Bar draws a terminal progress bar.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar creates a bar of total steps writing to w.
func NewBar(w io.Writer, description string, total int) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("tasks"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	)
	return &Bar{bar: bar}
}

// Progress implements dispatch.Observer.
func (b *Bar) Progress(done, _ int) {
	_ = b.bar.Set(done)
}

// Log reports progress through a logger, throttled to percentage buckets.
type Log struct {
	mu      sync.Mutex
	logger  *slog.Logger
	label   string
	sampler *logging.ProgressSampler
}

// NewLog creates a log observer emitting at most once per bucket percent.
func NewLog(logger *slog.Logger, label string, bucket float64) *Log {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Log{logger: logger, label: label, sampler: logging.NewProgressSampler(bucket)}
}

// Progress implements dispatch.Observer.
func (l *Log) Progress(done, total int) {
	percent := 100.0
	if total > 0 {
		percent = float64(done) * 100 / float64(total)
	}
	l.mu.Lock()
	emit := l.sampler.ShouldLog(percent, l.label)
	l.mu.Unlock()
	if !emit {
		return
	}
	l.logger.Info("batch progress",
		logging.String(logging.FieldEventType, "batch_progress"),
		logging.String("stage", l.label),
		logging.Int("done", done),
		logging.Int("total", total),
		logging.Float64("percent", percent),
	)
}

// Multi fans progress out to several observers in order.
type Multi []dispatch.Observer

// Progress implements dispatch.Observer.
func (m Multi) Progress(done, total int) {
	for _, o := range m {
		if o != nil {
			o.Progress(done, total)
		}
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// For picks a bar when w is a terminal and sampled logging otherwise. The log
// observer is always attached so per-run log files record progress.
func For(w io.Writer, logger *slog.Logger, label string, total int) dispatch.Observer {
	logObs := NewLog(logger, label, 10)
	if w != nil && IsTerminal(w) && total > 0 {
		return Multi{NewBar(w, label, total), logObs}
	}
	return logObs
}
