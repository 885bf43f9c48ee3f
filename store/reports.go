// Package store persists reports and media assets on the local filesystem.
// Reports are one JSON file each with an in-memory read-through cache;
// assets are content files addressed by generated names. Nothing here
// touches the network.
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dittomusic-JK/promo-report-dashboard/models"
)

// reValidID accepts generated report IDs and nothing that could escape the
// store directory.
var reValidID = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ReportStore keeps one JSON file per report under dir. Reads go through
// an in-memory cache that fills lazily from disk, so restarts lose nothing
// and repeated reads cost no IO.
type ReportStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*models.Report
}

// NewReportStore creates the backing directory if needed.
func NewReportStore(dir string) (*ReportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir: %w", err)
	}
	return &ReportStore{dir: dir, cache: make(map[string]*models.Report)}, nil
}

// Save writes the report to disk and refreshes the cache. A report without
// an ID gets one; CreatedAt is set on first save and UpdatedAt on every
// save. The write goes through a temp file and rename so a crash never
// leaves a half-written report behind.
func (s *ReportStore) Save(r *models.Report) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return models.NewExtractError(models.ErrCodeStorage, "failed to encode report", err)
	}

	path := s.path(r.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return models.NewExtractError(models.ErrCodeStorage, "failed to write report", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return models.NewExtractError(models.ErrCodeStorage, "failed to write report", err)
	}

	s.mu.Lock()
	s.cache[r.ID] = r
	s.mu.Unlock()
	return nil
}

// Get returns the report with the given ID, reading from disk on a cache
// miss.
func (s *ReportStore) Get(id string) (*models.Report, error) {
	if !validID(id) {
		return nil, models.NewExtractError(models.ErrCodeNotFound, "report not found", nil)
	}

	s.mu.RLock()
	if r, ok := s.cache[id]; ok {
		s.mu.RUnlock()
		return r, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, models.NewExtractError(models.ErrCodeNotFound, "report not found", err)
		}
		return nil, models.NewExtractError(models.ErrCodeStorage, "failed to read report", err)
	}

	var r models.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, models.NewExtractError(models.ErrCodeStorage, "report file is corrupt", err)
	}

	s.mu.Lock()
	s.cache[id] = &r
	s.mu.Unlock()
	return &r, nil
}

// List returns summaries of every stored report, newest first. Unreadable
// files are skipped with a warning rather than failing the whole listing.
func (s *ReportStore) List() ([]models.ReportSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, models.NewExtractError(models.ErrCodeStorage, "failed to list reports", err)
	}

	summaries := []models.ReportSummary{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		r, err := s.Get(strings.TrimSuffix(name, ".json"))
		if err != nil {
			slog.Warn("skipping unreadable report", "file", name, "error", err)
			continue
		}
		summaries = append(summaries, r.Summary())
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Delete removes a report from disk and cache.
func (s *ReportStore) Delete(id string) error {
	if !validID(id) {
		return models.NewExtractError(models.ErrCodeNotFound, "report not found", nil)
	}

	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return models.NewExtractError(models.ErrCodeNotFound, "report not found", err)
		}
		return models.NewExtractError(models.ErrCodeStorage, "failed to delete report", err)
	}
	return nil
}

func (s *ReportStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func validID(id string) bool {
	return id != "" && reValidID.MatchString(id)
}
