package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRunning is returned when another process holds the lock.
var ErrAlreadyRunning = errors.New("another arrfill instance is running")

const shutdownTimeout = 30 * time.Second

// Config for the runner.
type Config struct {
	Addr        string
	LockPath    string        // advisory lock, usually next to the database
	Interval    time.Duration // periodic sync; zero disables the ticker
	SyncOnStart bool
}

// Runner owns the process lifecycle: the instance lock, the HTTP server,
// the sync consumer and the periodic trigger.
type Runner struct {
	config  Config
	sched   *Scheduler
	pass    *Pass
	handler http.Handler
	logger  *slog.Logger

	ready chan net.Addr
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, sched *Scheduler, pass *Pass, handler http.Handler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		config:  cfg,
		sched:   sched,
		pass:    pass,
		handler: handler,
		logger:  logger.With("component", "runner"),
		ready:   make(chan net.Addr, 1),
	}
}

// Ready yields the listen address once the HTTP server accepts connections.
func (r *Runner) Ready() <-chan net.Addr {
	return r.ready
}

// Run starts all components.
// It blocks until the context is canceled or a component fails.
func (r *Runner) Run(ctx context.Context) error {
	lock := flock.New(r.config.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, r.config.LockPath)
	}
	defer func() { _ = lock.Unlock() }()
	defer r.sched.Stop()

	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{Handler: r.handler, ReadHeaderTimeout: 10 * time.Second}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r.logger.Info("server starting", "addr", ln.Addr().String())
		r.ready <- ln.Addr()
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		r.logger.Info("server stopped")
		return nil
	})

	g.Go(func() error {
		r.consume(ctx)
		return nil
	})

	if r.config.Interval > 0 {
		g.Go(func() error {
			r.tick(ctx)
			return nil
		})
	}

	if r.config.SyncOnStart {
		r.sched.Trigger()
	}

	return g.Wait()
}

// consume is the only goroutine that runs passes.
func (r *Runner) consume(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.sched.requests():
		}
		r.sched.begin()
		report := r.pass.Run(ctx)
		r.sched.finish(report)
	}
}

func (r *Runner) tick(ctx context.Context) {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.logger.Info("scheduler started", "interval", r.config.Interval.String())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !r.sched.Trigger() {
				r.logger.Debug("sync already requested")
			}
		}
	}
}
