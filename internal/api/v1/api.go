// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vmunix/arrfill/internal/download"
	"github.com/vmunix/arrfill/internal/library"
	"github.com/vmunix/arrfill/internal/logging"
	"github.com/vmunix/arrfill/internal/pipeline"
	"github.com/vmunix/arrfill/internal/search"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
	log  *slog.Logger
}

// New creates a new v1 API server.
func New(deps ServerDeps, log *slog.Logger) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMissingDependency, err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{deps: deps, log: log.With("component", "api")}, nil
}

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// Handler returns the router with every route and the request logger.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	if s.deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.getStatus)

		r.Get("/shows", s.listShows)
		r.Route("/shows/{id}", func(r chi.Router) {
			r.Get("/", s.getShow)
			r.Post("/search", s.search)
			r.Post("/grab", s.grab)
			r.Put("/releases/{name}/matchings", s.updateMatchings)
			r.Post("/releases/{name}/detect", s.detectMatchings)
		})
		r.Delete("/releases/{name}", s.deleteRelease)

		r.Get("/sync", s.getSync)
		r.Post("/sync", s.triggerSync)

		r.Get("/logs", s.listLogs)
	})

	return r
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// writeServiceError maps errors returned by the library and the pipeline
// to HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, library.ErrDuplicate):
		writeError(w, http.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, pipeline.ErrShowMismatch):
		writeError(w, http.StatusBadRequest, "SHOW_MISMATCH", err.Error())
	case errors.Is(err, pipeline.ErrMatchingsMismatch):
		writeError(w, http.StatusBadRequest, "MATCHINGS_MISMATCH", err.Error())
	case errors.Is(err, search.ErrNoIndexers),
		errors.Is(err, search.ErrProwlarrUnavailable),
		errors.Is(err, search.ErrInvalidAPIKey),
		errors.Is(err, search.ErrUnknownEncoding),
		errors.Is(err, search.ErrInvalidTorrent):
		writeError(w, http.StatusBadGateway, "INDEXER_ERROR", err.Error())
	case errors.Is(err, download.ErrClientUnavailable),
		errors.Is(err, download.ErrTorrentNotFound):
		writeError(w, http.StatusBadGateway, "TORRENT_CLIENT_ERROR", err.Error())
	default:
		s.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// pathName extracts the release name from the URL path. chi matches on the
// raw path when the request carries one, leaving the value escaped.
func pathName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	shows, err := s.deps.Library.ListShows(library.ShowFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	releases, err := s.deps.Library.ListReleases(library.ReleaseFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := statusResponse{
		Version:  s.deps.Version,
		Shows:    len(shows),
		Releases: len(releases),
		Sync:     s.deps.Scheduler.Status(),
	}
	for _, sh := range shows {
		if sh.IsMissing {
			resp.MissingShows++
		}
	}
	for _, rel := range releases {
		switch {
		case !rel.TorrentIsFinished:
			resp.Downloading++
		case rel.NeedsExport():
			resp.PendingExport++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listShows(w http.ResponseWriter, r *http.Request) {
	var filter library.ShowFilter
	if v := r.URL.Query().Get("missing"); v != "" {
		missing, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_QUERY", "missing must be a boolean")
			return
		}
		filter.Missing = &missing
	}

	shows, err := s.deps.Library.ListShows(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listShowsResponse{Items: make([]showResponse, len(shows)), Total: len(shows)}
	for i, sh := range shows {
		resp.Items[i] = showToResponse(sh)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getShow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	show, err := s.deps.Library.GetShow(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	releases, err := s.deps.Library.ListReleases(library.ReleaseFilter{ShowID: &id})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	results, err := show.SearchResults()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := showDetailResponse{
		showResponse:  showToResponse(show),
		Seasons:       []seasonResponse{},
		Releases:      make([]releaseResponse, len(releases)),
		SearchResults: searchResultsToResponse(results),
	}
	if c, err := show.CatalogSeries(); err == nil {
		resp.Overview = c.Overview
		resp.ImageURL = c.ImageURL
	}
	if p, err := show.PVRSeries(); err == nil {
		for _, sn := range p.Seasons {
			resp.Seasons = append(resp.Seasons, seasonResponse{
				SeasonNumber:       sn.SeasonNumber,
				EpisodeFileCount:   sn.EpisodeFileCount,
				EpisodeCount:       sn.EpisodeCount,
				TotalEpisodesCount: sn.TotalEpisodesCount,
				Missing:            show.IsSeasonMissing(sn.SeasonNumber),
			})
		}
	}
	for i, rel := range releases {
		resp.Releases[i] = releaseToResponse(rel)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req searchRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
			return
		}
	}

	results, err := s.deps.Searcher.Search(r.Context(), id, req.Query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	query := req.Query
	if query == "" {
		if show, err := s.deps.Library.GetShow(id); err == nil {
			query = show.Search
		}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: searchResultsToResponse(results)})
}

func searchResultsToResponse(results []search.Result) []searchResultResponse {
	resp := make([]searchResultResponse, len(results))
	for i, r := range results {
		resp[i].Result = r
		if key, err := r.PK(); err != nil {
			resp[i].KeyError = err.Error()
		} else {
			resp[i].Key = key
		}
	}
	return resp
}

func (s *Server) grab(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req grabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.PK == "" {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "pk is required")
		return
	}

	rel, err := s.deps.Grabber.Grab(r.Context(), id, req.PK)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, releaseToResponse(rel))
}

func (s *Server) updateMatchings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var updates []pipeline.MatchingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	ms, err := s.deps.Releases.UpdateFileMatchings(id, pathName(r), updates)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchingsResponse{Items: matchingsToResponse(ms)})
}

func (s *Server) detectMatchings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	ms, err := s.deps.Releases.DetectFileMatchings(id, pathName(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matchingsResponse{Items: matchingsToResponse(ms)})
}

func (s *Server) deleteRelease(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Releases.DeleteRelease(pathName(r)); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getSync(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Scheduler.Status())
}

func (s *Server) triggerSync(w http.ResponseWriter, r *http.Request) {
	triggered := s.deps.Scheduler.Trigger()
	writeJSON(w, http.StatusAccepted, syncTriggerResponse{
		Triggered: triggered,
		Status:    s.deps.Scheduler.Status(),
	})
}

func (s *Server) listLogs(w http.ResponseWriter, r *http.Request) {
	if s.deps.LogFile == "" {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Log file not configured")
		return
	}

	entries, err := logging.Tail(s.deps.LogFile, queryInt(r, "limit", logging.DefaultTailLimit))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "LOG_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, logsResponse{Items: entries})
}

func showToResponse(sh *library.Show) showResponse {
	resp := showResponse{
		ID:             sh.ID,
		SonarrID:       sh.SonarrID,
		Title:          sh.Title(),
		IsMissing:      sh.IsMissing,
		MissingSeasons: sh.MissingSeasons,
		Search:         sh.Search,
		AddedAt:        sh.AddedAt,
		UpdatedAt:      sh.UpdatedAt,
	}
	if resp.MissingSeasons == nil {
		resp.MissingSeasons = []int{}
	}
	if c, err := sh.CatalogSeries(); err == nil {
		resp.TVDBID = c.ID
		resp.Year = c.Year
	}
	return resp
}

func releaseToResponse(rel *library.Release) releaseResponse {
	resp := releaseResponse{
		Name:                    rel.Name,
		ShowID:                  rel.ShowID,
		SearchResultPK:          rel.SearchResultPK,
		TorrentHash:             rel.TorrentHash,
		Finished:                rel.TorrentIsFinished,
		ExportFailures:          rel.ExportFailuresCount,
		LastExportedTorrentHash: rel.LastExportedTorrentHash,
		UpdatedAt:               rel.UpdatedAt,
		Matchings:               matchingsToResponse(rel.FileMatchings),
	}
	if res, err := rel.SearchResult(); err == nil {
		resp.Title = res.Title
		resp.Indexer = res.Indexer
	}
	if st, ok, err := rel.Stats(); err == nil && ok {
		resp.Progress = st.Progress
	}
	return resp
}

func matchingsToResponse(ms []*library.FileMatching) []matchingResponse {
	out := make([]matchingResponse, len(ms))
	for i, m := range ms {
		out[i] = matchingResponse{
			ID:            m.ID,
			FileName:      m.FileName,
			SeasonNumber:  m.SeasonNumber,
			EpisodeNumber: m.EpisodeNumber,
		}
	}
	return out
}
