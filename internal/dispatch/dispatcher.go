package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"

	"curator/internal/logging"
)

// Func processes one task. It must only touch state derived from its own task.
type Func[T, R any] func(context.Context, T) Result[R]

// Observer receives monotonic progress as tasks complete. Calls are serialized.
type Observer interface {
	Progress(done, total int)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(done, total int)

// Progress implements Observer.
func (f ObserverFunc) Progress(done, total int) { f(done, total) }

// Option customizes a Dispatcher.
type Option func(*settings)

type settings struct {
	observer Observer
	logger   *slog.Logger
}

// WithObserver attaches a progress observer.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// WithLogger attaches a logger for per-task failure diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// Dispatcher executes one batch of tasks with a fixed worker count.
type Dispatcher[T, R any] struct {
	workers  int
	observer Observer
	logger   *slog.Logger
}

// New constructs a Dispatcher. A worker count below one defaults to the CPU count.
func New[T, R any](workers int, opts ...Option) *Dispatcher[T, R] {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	return &Dispatcher[T, R]{
		workers:  workers,
		observer: s.observer,
		logger:   logging.NewComponentLogger(s.logger, "dispatch"),
	}
}

// Workers returns the configured pool size.
func (d *Dispatcher[T, R]) Workers() int { return d.workers }

// Run applies fn to every task and blocks until all complete. Result i always
// corresponds to tasks[i]. Panics inside fn become StatusError results.
func (d *Dispatcher[T, R]) Run(ctx context.Context, tasks []T, fn Func[T, R]) []Result[R] {
	results := make([]Result[R], len(tasks))
	total := len(tasks)
	if total == 0 {
		return results
	}

	var (
		mu   sync.Mutex
		done int
	)
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if d.observer != nil {
			d.observer.Progress(done, total)
		}
	}

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i, task := range tasks {
		g.Go(func() error {
			results[i] = d.runOne(ctx, i, task, fn)
			report()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (d *Dispatcher[T, R]) runOne(ctx context.Context, index int, task T, fn Func[T, R]) (res Result[R]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[R]{Status: StatusError, Message: fmt.Sprintf("panic: %v", r)}
			d.logger.Error("task panicked",
				logging.String(logging.FieldEventType, "task_panic"),
				logging.Int("task_index", index),
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
			)
		}
	}()
	res = fn(ctx, task)
	if res.Status == StatusError {
		d.logger.Debug("task failed",
			logging.String(logging.FieldEventType, "task_failed"),
			logging.Int("task_index", index),
			logging.String("error_message", res.Message),
		)
	}
	return res
}
