package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/pkg/sonarr"
)

// ExportResult counts the outcome of an export run.
type ExportResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Exporter hands finished releases to Sonarr for import.
type Exporter struct {
	store  *library.Store
	series SeriesManager
	log    *slog.Logger
}

// NewExporter creates an exporter.
func NewExporter(store *library.Store, series SeriesManager, log *slog.Logger) *Exporter {
	return &Exporter{store: store, series: series, log: componentLogger(log, "exporter")}
}

// Export imports every finished release whose current torrent was not
// exported yet. Files without a resolvable episode are left out of the
// batch. A rejected import counts against the release's retry budget and
// does not stop the run; any other Sonarr error does.
//
// Each release is written on its own. A release changed by someone else
// between the read and the write is logged and left for the next run.
func (e *Exporter) Export(ctx context.Context) (ExportResult, error) {
	var res ExportResult

	candidates, err := e.store.ListExportCandidates()
	if err != nil {
		return res, err
	}

	shows := make(map[int64]*library.Show)
	for _, r := range candidates {
		log := e.log.With("release", r.Name, "show_id", r.ShowID)

		show, ok := shows[r.ShowID]
		if !ok {
			if show, err = e.store.GetShow(r.ShowID); err != nil {
				return res, err
			}
			shows[r.ShowID] = show
		}

		files, err := ImportFiles(show, r)
		if err != nil {
			log.Error("cannot build import batch", "error", err)
			res.Skipped++
			continue
		}
		if len(files) == 0 {
			log.Info("no files to import")
			res.Skipped++
			continue
		}

		err = e.series.ManualImport(ctx, files)
		switch {
		case err == nil:
			if err := e.store.RecordExport(r.Name, r.TorrentHash, FilesHash(files)); err != nil {
				if !errors.Is(err, library.ErrNotFound) {
					return res, err
				}
				log.Warn("release changed during export", "error", err)
			}
			log.Info("release exported", "files", len(files))
			res.Succeeded++
		case errors.Is(err, sonarr.ErrManualImport):
			if err := e.store.IncrementExportFailures(r.Name); err != nil {
				if !errors.Is(err, library.ErrNotFound) {
					return res, err
				}
				log.Warn("release changed during export", "error", err)
			}
			log.Warn("export rejected", "failures", r.ExportFailuresCount+1, "error", err)
			res.Failed++
		default:
			return res, fmt.Errorf("export release %q: %w", r.Name, err)
		}
	}
	return res, nil
}

// ImportFiles builds the Sonarr import batch for a release from its matched
// files and the show's cached Sonarr episodes.
func ImportFiles(show *library.Show, r *library.Release) ([]sonarr.ImportFile, error) {
	series, err := show.PVRSeries()
	if err != nil {
		return nil, err
	}
	props, err := r.Properties()
	if err != nil {
		return nil, err
	}

	var files []sonarr.ImportFile
	for _, m := range r.FileMatchings {
		if !m.Matched() {
			continue
		}
		ep, ok := series.FindEpisode(*m.SeasonNumber, *m.EpisodeNumber)
		if !ok {
			continue
		}
		files = append(files, sonarr.ImportFile{
			EpisodeIDs: []int{ep.ID},
			FolderName: props.Name,
			Path:       path.Join(props.SavePath, m.FileName),
			SeriesID:   show.SonarrID,
		})
	}
	return files, nil
}

// FilesHash fingerprints an import batch.
func FilesHash(files []sonarr.ImportFile) string {
	h := xxhash.New()
	enc := json.NewEncoder(h)
	for _, f := range files {
		// encoding a plain struct into a hash cannot fail
		_ = enc.Encode(f)
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
