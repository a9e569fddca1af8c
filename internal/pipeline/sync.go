package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/pkg/release"
	"github.com/vmunix/arrfill/pkg/sonarr"
)

// SyncResult counts the outcome of a missing-series sync.
type SyncResult struct {
	Missing int `json:"missing"`
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// MissingSyncer mirrors Sonarr's wanted/missing list into the library.
type MissingSyncer struct {
	store   *library.Store
	catalog Catalog
	series  SeriesManager
	log     *slog.Logger
}

// NewMissingSyncer creates a syncer.
func NewMissingSyncer(store *library.Store, catalog Catalog, series SeriesManager, log *slog.Logger) *MissingSyncer {
	return &MissingSyncer{store: store, catalog: catalog, series: series, log: componentLogger(log, "sync")}
}

// Sync clears every missing flag, then flags each series Sonarr reports
// with its missing seasons. Unseen series become shows with their TVDB and
// Sonarr metadata cached; known shows keep their metadata unless a missing
// season is absent from the cached Sonarr series. Each show is written on
// its own, so an interrupted sync is repaired by the next one.
func (s *MissingSyncer) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult

	missing, err := s.series.GetMissing(ctx)
	if err != nil {
		return res, fmt.Errorf("get missing: %w", err)
	}
	if _, err := s.store.UnflagAllMissing(); err != nil {
		return res, err
	}

	for _, m := range missing {
		res.Missing++
		created, err := s.syncSeries(ctx, m)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			s.log.Error("sync series failed", "sonarr_id", m.ID, "tvdb_id", m.TVDBID, "error", err)
			res.Failed++
			continue
		}
		if created {
			res.Created++
		}
	}
	s.log.Info("missing series synced", "missing", res.Missing, "created", res.Created, "failed", res.Failed)
	return res, nil
}

func (s *MissingSyncer) syncSeries(ctx context.Context, m sonarr.MissingSeries) (bool, error) {
	show, err := s.store.GetShowBySonarrID(m.ID)
	if errors.Is(err, library.ErrNotFound) {
		return true, s.createShow(ctx, m)
	}
	if err != nil {
		return false, err
	}

	if needsPVRRefresh(show, m.SeasonNumbers) {
		series, err := s.series.GetSeries(ctx, m.ID)
		if err != nil {
			return false, fmt.Errorf("get sonarr series %d: %w", m.ID, err)
		}
		raw, err := json.Marshal(series)
		if err != nil {
			return false, fmt.Errorf("encode sonarr series: %w", err)
		}
		if err := s.store.UpdateSonarrData(show.ID, string(raw)); err != nil {
			return false, err
		}
		s.log.Debug("sonarr series refreshed", "show_id", show.ID)
	}
	return false, s.store.MarkMissing(show.ID, m.SeasonNumbers)
}

// needsPVRRefresh reports whether a missing season is unknown to the cached
// Sonarr series.
func needsPVRRefresh(show *library.Show, seasons []int) bool {
	series, err := show.PVRSeries()
	if err != nil {
		return true
	}
	known := make(map[int]bool, len(series.Seasons))
	for _, sn := range series.Seasons {
		known[sn.SeasonNumber] = true
	}
	for _, n := range seasons {
		if !known[n] {
			return true
		}
	}
	return false
}

func (s *MissingSyncer) createShow(ctx context.Context, m sonarr.MissingSeries) error {
	catalog, err := s.catalog.GetSeries(ctx, m.TVDBID)
	if err != nil {
		return fmt.Errorf("get tvdb series %d: %w", m.TVDBID, err)
	}
	series, err := s.series.GetSeries(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("get sonarr series %d: %w", m.ID, err)
	}
	catalogRaw, err := json.Marshal(catalog)
	if err != nil {
		return fmt.Errorf("encode tvdb series: %w", err)
	}
	seriesRaw, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("encode sonarr series: %w", err)
	}

	show := &library.Show{
		SonarrID:       m.ID,
		SonarrDataRaw:  string(seriesRaw),
		TVDBDataRaw:    string(catalogRaw),
		IsMissing:      true,
		MissingSeasons: m.SeasonNumbers,
		Search:         release.NormalizeSearchQuery(catalog.Title),
	}
	if err := s.store.AddShow(show); err != nil {
		return err
	}
	s.log.Info("show added", "show_id", show.ID, "title", catalog.Title, "seasons", m.SeasonNumbers)
	return nil
}
