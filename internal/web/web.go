package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"classcal/internal/config"
	"classcal/internal/feed"
	appLog "classcal/internal/log"
	"classcal/internal/records"
	"classcal/internal/schedule"
)

// CollectionsProvider supplies the four raw record collections. Implemented
// by records.Client in production and by stubs in tests.
type CollectionsProvider interface {
	FetchCollections(ctx context.Context) (records.Collections, []error)
}

// collectionsCacheTTL bounds how stale the in-memory collections snapshot
// may get between cron refreshes before an HTTP request refetches.
const collectionsCacheTTL = 30 * time.Second

// Server provides the HTTP API over the reconciliation core: the unified
// occurrence list, single-date classification, and an ICS feed.
type Server struct {
	cfg      *config.Config
	provider CollectionsProvider
	mux      *http.ServeMux

	// In-memory cache of the last fetched collections, shared by all
	// endpoints so one backend round-trip serves many requests.
	collectionsMu sync.RWMutex
	collections   *collectionsCache
}

type collectionsCache struct {
	data      records.Collections
	updatedAt time.Time
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, provider CollectionsProvider) *Server {
	s := &Server{
		cfg:      cfg,
		provider: provider,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays unauthenticated.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="classcal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/occurrences", s.handleOccurrences)
	s.mux.HandleFunc("/api/day", s.handleDay)
	s.mux.HandleFunc("/calendar.ics", s.handleFeed)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Refresh refetches the backend collections into the in-memory cache. It is
// called from the cron refresh loop and lazily from request handlers when
// the cache has gone stale.
func (s *Server) Refresh(ctx context.Context) records.Collections {
	data, errs := s.provider.FetchCollections(ctx)
	if len(errs) > 0 {
		appLog.Error("collections refresh: one or more sources failed", errorsAggregate(errs), "error_count", len(errs))
	}

	s.collectionsMu.Lock()
	s.collections = &collectionsCache{data: data, updatedAt: time.Now()}
	s.collectionsMu.Unlock()

	appLog.Info("collections refreshed",
		"classes", len(data.Classes),
		"schedules", len(data.Schedules),
		"attendance", len(data.Attendance),
		"makeups", len(data.Makeups),
	)
	return data
}

// currentCollections returns the cached collections, refetching when the
// snapshot is older than collectionsCacheTTL.
func (s *Server) currentCollections(ctx context.Context) records.Collections {
	s.collectionsMu.RLock()
	cc := s.collections
	s.collectionsMu.RUnlock()
	if cc != nil && time.Since(cc.updatedAt) < collectionsCacheTTL {
		return cc.data
	}
	return s.Refresh(ctx)
}

// occurrenceDTO is the JSON view of a unified occurrence. Callback fields
// never cross the wire; the rendering layer binds its own handlers.
type occurrenceDTO struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Date      string    `json:"date"`
	Category  string    `json:"category"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	Style     string    `json:"style,omitempty"`
}

type occurrencesResponse struct {
	Occurrences []occurrenceDTO `json:"occurrences"`
	RangeStart  string          `json:"range_start"`
	RangeEnd    string          `json:"range_end"`
}

// handleOccurrences returns the unified occurrence list within a date window.
//
// GET /api/occurrences?from=2025-01-01&to=2025-02-01
//
// Missing bounds default to today minus backfill_days / plus horizon_days.
func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	from := parseDayDefault(q.Get("from"), today.AddDate(0, 0, -s.cfg.BackfillDays))
	to := parseDayDefault(q.Get("to"), today.AddDate(0, 0, s.cfg.HorizonDays))
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to is before from")
		return
	}

	collections := s.currentCollections(ctx)
	occurrences := schedule.NormalizeAll(collections, schedule.Overrides{})

	dtos := make([]occurrenceDTO, 0, len(occurrences))
	for _, occ := range occurrences {
		// Window is inclusive of both boundary days.
		if occ.Timestamp.Before(from) || !occ.Timestamp.Before(to.AddDate(0, 0, 1)) {
			continue
		}
		dtos = append(dtos, occurrenceDTO{
			ID:        occ.ID,
			Timestamp: occ.Timestamp,
			Date:      occ.Timestamp.Format("2006-01-02"),
			Category:  string(occ.Category),
			StartTime: occ.StartDisplay,
			EndTime:   occ.EndDisplay,
			Style:     occ.Style,
		})
	}
	sort.SliceStable(dtos, func(i, j int) bool {
		return dtos[i].Timestamp.Before(dtos[j].Timestamp)
	})

	writeJSON(w, http.StatusOK, occurrencesResponse{
		Occurrences: dtos,
		RangeStart:  from.Format("2006-01-02"),
		RangeEnd:    to.Format("2006-01-02"),
	})
}

type dayResponse struct {
	Date     string `json:"date"`
	Category string `json:"category"`
}

// handleDay classifies a single date for calendar widgets that color one
// cell per day without needing the full occurrence list.
//
// GET /api/day?date=2025-01-06
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing date, expected YYYY-MM-DD")
		return
	}

	category := schedule.Classify(date, s.currentCollections(r.Context()))
	writeJSON(w, http.StatusOK, dayResponse{
		Date:     date.Format("2006-01-02"),
		Category: string(category),
	})
}

// handleFeed serves the reconciled schedule as a subscribable ICS feed.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	collections := s.currentCollections(r.Context())
	occurrences := schedule.NormalizeAll(collections, schedule.Overrides{})

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed.Build(occurrences, time.Now())))
}

func parseDayDefault(raw string, def time.Time) time.Time {
	if raw == "" {
		return def
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return def
	}
	return t
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

func errorsAggregate(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(e.Error())
	}
	return errors.New(b.String())
}
