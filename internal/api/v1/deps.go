package v1

import (
	"context"
	"errors"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/metrics"
	"github.com/vmunix/arrfill/internal/pipeline"
	"github.com/vmunix/arrfill/internal/search"
	"github.com/vmunix/arrfill/internal/server"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vmunix/arrfill/internal/api/v1 Searcher,Grabber,SyncScheduler

// Searcher runs release searches for a show.
type Searcher interface {
	Search(ctx context.Context, showID int64, query string) ([]search.Result, error)
}

// Grabber grabs a result of a show's last search.
type Grabber interface {
	Grab(ctx context.Context, showID int64, pk string) (*library.Release, error)
}

// ReleaseEditor edits file matchings and removes releases.
type ReleaseEditor interface {
	UpdateFileMatchings(showID int64, name string, updates []pipeline.MatchingUpdate) ([]*library.FileMatching, error)
	DetectFileMatchings(showID int64, name string) ([]*library.FileMatching, error)
	DeleteRelease(name string) error
}

// SyncScheduler triggers and reports full sync passes.
type SyncScheduler interface {
	Trigger() bool
	Status() server.SyncStatus
}

// ServerDeps contains all dependencies for the API server.
type ServerDeps struct {
	// Required dependencies
	Library   *library.Store
	Searcher  Searcher
	Grabber   Grabber
	Releases  ReleaseEditor
	Scheduler SyncScheduler

	// Optional dependencies
	Metrics *metrics.Metrics // nil disables /metrics
	LogFile string           // empty disables /api/v1/logs
	Version string
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Library == nil {
		return errors.New("library store is required")
	}
	if d.Searcher == nil {
		return errors.New("searcher is required")
	}
	if d.Grabber == nil {
		return errors.New("grabber is required")
	}
	if d.Releases == nil {
		return errors.New("release editor is required")
	}
	if d.Scheduler == nil {
		return errors.New("scheduler is required")
	}
	return nil
}
