// Package store provides transcript and web-cache persistence backends.
//
// It includes an in-memory store plus SQLite and PostgreSQL implementations
// selected by DSN.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vendalab/salespipe/internal/models"
)

// HighReadinessThreshold marks a session as conversion-ready in analytics.
const HighReadinessThreshold = 0.7

// Store persists conversation transcripts and cached web extractions.
type Store interface {
	// AddTranscript records one completed conversation turn.
	AddTranscript(entry models.TranscriptEntry) error
	// GetTranscripts returns all turns of a session in chronological order.
	GetTranscripts(sessionID string) ([]models.TranscriptEntry, error)
	// Analytics aggregates the stored transcripts.
	Analytics() (*models.AnalyticsReport, error)
	// CacheWebData stores or refreshes the extraction for a URL.
	CacheWebData(url string, data *models.PageData) error
	// GetCachedWebData returns the cached extraction for a URL if it is
	// younger than maxAge, else nil.
	GetCachedWebData(url string, maxAge time.Duration) (*models.PageData, error)
	// Close releases backend resources.
	Close() error
}

// Opts holds store configuration options.
type Opts struct {
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite3". URL-style and
// key=value connection strings go to Postgres; bare paths are SQLite files.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	if strings.Contains(dsn, "host=") || strings.Contains(dsn, "dbname=") {
		return "postgres"
	}
	return "sqlite3"
}

type cachedPage struct {
	data     *models.PageData
	storedAt time.Time
}

// InMemoryStore keeps transcripts and web caches in process memory. It is the
// default backend when no DSN is configured.
type InMemoryStore struct {
	mu          sync.RWMutex
	transcripts []models.TranscriptEntry
	nextID      int64
	webCache    map[string]cachedPage
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1, webCache: make(map[string]cachedPage)}
}

func (s *InMemoryStore) AddTranscript(entry models.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextID
	s.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	s.transcripts = append(s.transcripts, entry)
	return nil
}

func (s *InMemoryStore) GetTranscripts(sessionID string) ([]models.TranscriptEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TranscriptEntry
	for _, entry := range s.transcripts {
		if entry.SessionID == sessionID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Analytics() (*models.AnalyticsReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := &models.AnalyticsReport{StageCounts: make(map[string]int)}
	sessions := make(map[string]bool)
	highReadiness := make(map[string]bool)
	for _, entry := range s.transcripts {
		report.TotalTurns++
		report.StageCounts[string(entry.Stage)]++
		sessions[entry.SessionID] = true
		if entry.Readiness > HighReadinessThreshold {
			highReadiness[entry.SessionID] = true
		}
	}
	report.UniqueSessions = len(sessions)
	report.HighReadinessSessions = len(highReadiness)
	if report.UniqueSessions > 0 {
		report.ConversionRate = float64(report.HighReadinessSessions) / float64(report.UniqueSessions)
	}
	return report, nil
}

func (s *InMemoryStore) CacheWebData(url string, data *models.PageData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.webCache[url] = cachedPage{data: data, storedAt: time.Now()}
	return nil
}

func (s *InMemoryStore) GetCachedWebData(url string, maxAge time.Duration) (*models.PageData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cached, ok := s.webCache[url]
	if !ok || time.Since(cached.storedAt) > maxAge {
		return nil, nil
	}
	return cached.data, nil
}

func (s *InMemoryStore) Close() error { return nil }
