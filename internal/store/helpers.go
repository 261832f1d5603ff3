package store

import (
	"database/sql"
	"fmt"

	"github.com/vendalab/salespipe/internal/models"
)

// scanTranscripts drains a transcript result set. Column order must match the
// SELECT lists in the backend queries.
func scanTranscripts(rows *sql.Rows) ([]models.TranscriptEntry, error) {
	var entries []models.TranscriptEntry
	for rows.Next() {
		var e models.TranscriptEntry
		var stage, emotion string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.UserMessage, &e.BotResponse, &stage, &emotion,
			&e.Engagement, &e.Trust, &e.Readiness, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}
		e.Stage = models.ConversationStage(stage)
		e.Emotion = models.EmotionalState(emotion)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcript rows: %w", err)
	}
	return entries, nil
}

func scanStageCounts(rows *sql.Rows, counts map[string]int) error {
	for rows.Next() {
		var stage string
		var count int
		if err := rows.Scan(&stage, &count); err != nil {
			return fmt.Errorf("failed to scan stage count row: %w", err)
		}
		counts[stage] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate stage count rows: %w", err)
	}
	return nil
}
