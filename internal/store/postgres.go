// Package store: PostgreSQL-backed transcript persistence.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	_ "github.com/lib/pq"

	"github.com/vendalab/salespipe/internal/models"
)

// Database connection pool configuration constants.
const (
	DefaultMaxOpenConns    = 25
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists transcripts and web caches in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres store from the DSN option.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgresStore.NewPostgresStore: postgres store ready")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) AddTranscript(entry models.TranscriptEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(`INSERT INTO transcripts
		(session_id, user_message, bot_response, stage, emotional_state, engagement_level, trust_level, purchase_readiness, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.SessionID, entry.UserMessage, entry.BotResponse, string(entry.Stage), string(entry.Emotion),
		entry.Engagement, entry.Trust, entry.Readiness, entry.CreatedAt)
	if err != nil {
		slog.Error("PostgresStore.AddTranscript: insert failed", "session_id", entry.SessionID, "error", err)
		return fmt.Errorf("failed to insert transcript for %s: %w", entry.SessionID, err)
	}
	return nil
}

func (s *PostgresStore) GetTranscripts(sessionID string) ([]models.TranscriptEntry, error) {
	rows, err := s.db.Query(`SELECT id, session_id, user_message, bot_response, stage, emotional_state,
		engagement_level, trust_level, purchase_readiness, created_at
		FROM transcripts WHERE session_id = $1 ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcripts: %w", err)
	}
	defer rows.Close()
	return scanTranscripts(rows)
}

func (s *PostgresStore) Analytics() (*models.AnalyticsReport, error) {
	report := &models.AnalyticsReport{StageCounts: make(map[string]int)}

	err := s.db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT session_id) FROM transcripts`).
		Scan(&report.TotalTurns, &report.UniqueSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to query transcript totals: %w", err)
	}

	rows, err := s.db.Query(`SELECT stage, COUNT(*) FROM transcripts GROUP BY stage`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stage counts: %w", err)
	}
	defer rows.Close()
	if err := scanStageCounts(rows, report.StageCounts); err != nil {
		return nil, err
	}

	err = s.db.QueryRow(`SELECT COUNT(DISTINCT session_id) FROM transcripts WHERE purchase_readiness > $1`,
		HighReadinessThreshold).Scan(&report.HighReadinessSessions)
	if err != nil {
		return nil, fmt.Errorf("failed to query high-readiness sessions: %w", err)
	}
	if report.UniqueSessions > 0 {
		report.ConversionRate = float64(report.HighReadinessSessions) / float64(report.UniqueSessions)
	}
	return report, nil
}

func (s *PostgresStore) CacheWebData(url string, data *models.PageData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode page data: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO web_cache (url, page_data, stored_at) VALUES ($1, $2, $3)
		ON CONFLICT (url) DO UPDATE SET page_data = EXCLUDED.page_data, stored_at = EXCLUDED.stored_at`,
		url, string(payload), time.Now())
	if err != nil {
		return fmt.Errorf("failed to cache web data for %s: %w", url, err)
	}
	return nil
}

func (s *PostgresStore) GetCachedWebData(url string, maxAge time.Duration) (*models.PageData, error) {
	var payload string
	var storedAt time.Time
	err := s.db.QueryRow(`SELECT page_data, stored_at FROM web_cache WHERE url = $1`, url).
		Scan(&payload, &storedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query web cache: %w", err)
	}
	if time.Since(storedAt) > maxAge {
		return nil, nil
	}
	var data models.PageData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, fmt.Errorf("failed to decode cached page data: %w", err)
	}
	return &data, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
