package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// GenerationLog is one row per generation request the bridge served.
type GenerationLog struct {
	ID           string
	RequestID    string
	Provider     string
	Model        string
	Kind         string
	Prompt       string
	Outline      string
	Response     string
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AddGenerationLog inserts a new log with pending status and returns its id.
func (s *Store) AddGenerationLog(ctx context.Context, l GenerationLog) (string, error) {
	if !s.Enabled() {
		return "", nil
	}
	id := uuid.New().String()
	now := time.Now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO generation_logs (
			id, request_id, provider, model, kind, prompt,
			outline, response, status, error_message, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		id, l.RequestID, l.Provider, l.Model, l.Kind, l.Prompt,
		"", "", StatusPending, "", now, now,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateGenerationLog records the terminal state of a generation.
func (s *Store) UpdateGenerationLog(ctx context.Context, id, response, outline, status, errMsg string) error {
	if !s.Enabled() || id == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE generation_logs
		SET response = $1, outline = $2, status = $3, error_message = $4, updated_at = NOW()
		WHERE id = $5
	`, response, outline, status, errMsg, id)
	return err
}

// ContentMatch is one telemetry result keyed by the request that produced
// the content.
type ContentMatch struct {
	RequestID    string
	Score        float64
	Attributions []byte // JSON array
}

func (s *Store) SaveContentMatch(ctx context.Context, m ContentMatch) error {
	if !s.Enabled() {
		return nil
	}
	attrs := m.Attributions
	if len(attrs) == 0 {
		attrs = []byte("[]")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO content_matches (id, request_id, score, attributions)
		VALUES ($1, $2, $3, $4)
	`, uuid.New().String(), m.RequestID, m.Score, attrs)
	return err
}
