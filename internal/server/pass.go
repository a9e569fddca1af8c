package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/arrfill/internal/metrics"
	"github.com/vmunix/arrfill/internal/pipeline"
)

// Use cases run by a pass, in order.
type (
	Syncer interface {
		Sync(ctx context.Context) (pipeline.SyncResult, error)
	}
	StatsImporter interface {
		Import(ctx context.Context) (pipeline.StatsResult, error)
	}
	Exporter interface {
		Export(ctx context.Context) (pipeline.ExportResult, error)
	}
	ReGrabber interface {
		ReGrab(ctx context.Context) (pipeline.ReGrabResult, error)
	}
	// Pruner drops expired cache entries before each pass.
	Pruner interface {
		Prune(ctx context.Context) (int64, error)
	}
)

// PassReport describes one full sync pass. Use cases after a failed one
// are not run and stay nil.
type PassReport struct {
	RunID      string                 `json:"run_id"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Sync       *pipeline.SyncResult   `json:"sync,omitempty"`
	Stats      *pipeline.StatsResult  `json:"stats,omitempty"`
	Export     *pipeline.ExportResult `json:"export,omitempty"`
	ReGrab     *pipeline.ReGrabResult `json:"regrab,omitempty"`
	FailedStep string                 `json:"failed_step,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// PassDeps are the use cases and collaborators of a pass.
type PassDeps struct {
	Syncer    Syncer
	Stats     StatsImporter
	Exporter  Exporter
	ReGrabber ReGrabber
	Pruner    Pruner // optional
	Metrics   *metrics.Metrics
}

// Pass runs Sync, stats import, export and re-grab strictly in sequence.
type Pass struct {
	deps       PassDeps
	sched      *Scheduler
	retryDelay time.Duration
	log        *slog.Logger
}

// NewPass creates a pass. Failed exports schedule another pass after
// retryDelay on sched.
func NewPass(deps PassDeps, sched *Scheduler, retryDelay time.Duration, log *slog.Logger) *Pass {
	if log == nil {
		log = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	return &Pass{deps: deps, sched: sched, retryDelay: retryDelay, log: log.With("component", "pass")}
}

// Run executes one pass. An error escaping a use case stops the pass; the
// next pass starts from scratch.
func (p *Pass) Run(ctx context.Context) PassReport {
	report := PassReport{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := p.log.With("run_id", report.RunID)
	m := p.deps.Metrics
	log.Info("pass started")

	if p.deps.Pruner != nil {
		if n, err := p.deps.Pruner.Prune(ctx); err != nil {
			log.Warn("cache prune failed", "error", err)
		} else if n > 0 {
			log.Debug("cache pruned", "entries", n)
		}
	}

	err := p.steps(ctx, log, &report)

	report.FinishedAt = time.Now()
	duration := report.FinishedAt.Sub(report.StartedAt)
	m.PassDuration.Observe(duration.Seconds())
	if err != nil {
		report.Error = err.Error()
		m.Passes.WithLabelValues("error").Inc()
		m.UseCaseErrors.WithLabelValues(report.FailedStep).Inc()
		log.Error("pass aborted", "use_case", report.FailedStep, "error", err, "duration_ms", duration.Milliseconds())
		return report
	}
	m.Passes.WithLabelValues("ok").Inc()
	log.Info("pass finished", "duration_ms", duration.Milliseconds())
	return report
}

func (p *Pass) steps(ctx context.Context, log *slog.Logger, report *PassReport) error {
	m := p.deps.Metrics

	report.FailedStep = "sync"
	syncRes, err := p.deps.Syncer.Sync(ctx)
	if err != nil {
		return err
	}
	report.Sync = &syncRes
	m.MissingShows.Set(float64(syncRes.Missing))
	log.Info("sync done", "missing", syncRes.Missing, "created", syncRes.Created, "failed", syncRes.Failed)

	report.FailedStep = "stats"
	statsRes, err := p.deps.Stats.Import(ctx)
	if err != nil {
		return err
	}
	report.Stats = &statsRes
	log.Info("stats imported", "updated", statsRes.Updated, "finished", statsRes.Finished)

	report.FailedStep = "export"
	exportRes, err := p.deps.Exporter.Export(ctx)
	if err != nil {
		return err
	}
	report.Export = &exportRes
	m.Exports.WithLabelValues("succeeded").Add(float64(exportRes.Succeeded))
	m.Exports.WithLabelValues("failed").Add(float64(exportRes.Failed))
	m.Exports.WithLabelValues("skipped").Add(float64(exportRes.Skipped))
	log.Info("export done", "succeeded", exportRes.Succeeded, "failed", exportRes.Failed, "skipped", exportRes.Skipped)
	if exportRes.Failed > 0 && p.sched != nil && p.retryDelay > 0 {
		log.Info("scheduling retry after failed exports", "delay", p.retryDelay.String())
		p.sched.TriggerAfter(p.retryDelay)
	}

	report.FailedStep = "regrab"
	regrabRes, err := p.deps.ReGrabber.ReGrab(ctx)
	if err != nil {
		return err
	}
	report.ReGrab = &regrabRes
	m.ReGrabs.WithLabelValues("updated").Add(float64(regrabRes.Updated))
	m.ReGrabs.WithLabelValues("skipped").Add(float64(regrabRes.Skipped))
	m.ReGrabs.WithLabelValues("failed").Add(float64(regrabRes.Failed))
	log.Info("regrab done", "checked", regrabRes.Checked, "updated", regrabRes.Updated, "skipped", regrabRes.Skipped, "failed", regrabRes.Failed)

	report.FailedStep = ""
	return nil
}
