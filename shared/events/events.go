// Package events defines the message contract shared by the bridge and the
// telemetry workers. The webview speaks the same envelope over WebSocket,
// so UI messages and broker messages carry identical shapes.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ── Message types (webview channel + topic exchange: lightspeed.events) ──────
const (
	GenerateRequested = "generate.requested"
	GeneratePlaybook  = "generatePlaybook"
	GenerateRole      = "generateRole"
	ErrorMessage      = "errorMessage"

	ContentMatchRequested = "contentmatch.requested"
	ContentMatchComplete  = "contentmatch.complete"
	HistoryAppended       = "history.appended"
)

const (
	KindPlaybook = "playbook"
	KindRole     = "role"
)

// ── Envelope wraps every message ─────────────────────────────────────────────

type Envelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"ts"`
	Payload   json.RawMessage `json:"data"`
}

func NewEnvelope(msgType string, payload any) (*Envelope, error) {
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		ID:        uuid.New().String(),
		Type:      msgType,
		Timestamp: time.Now(),
		Payload:   p,
	}, nil
}

func Wrap(msgType string, payload any) ([]byte, error) {
	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

func Unwrap[T any](raw []byte) (*T, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	var t T
	return &t, json.Unmarshal(env.Payload, &t)
}

func UnwrapEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	return &env, json.Unmarshal(raw, &env)
}

// ── Payload types ─────────────────────────────────────────────────────────────

// GenerateRequestedPayload is what the webview sends for one generation.
type GenerateRequestedPayload struct {
	Text    string            `json:"text"`
	Outline string            `json:"outline,omitempty"`
	Kind    string            `json:"kind,omitempty"` // playbook | role, defaults to playbook
	Meta    map[string]string `json:"meta,omitempty"`
}

// GenerationResultPayload is posted back on success.
type GenerationResultPayload struct {
	RequestID string `json:"request_id"`
	Content   string `json:"content"`
	Outline   string `json:"outline"`
	Model     string `json:"model"`
	Provider  string `json:"provider"`
}

type ContentMatchRequestedPayload struct {
	RequestID string `json:"request_id"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Prompt    string `json:"prompt"`
	Content   string `json:"content"`
}

type ContentMatchAttribution struct {
	Term  string  `json:"term"`
	Count int     `json:"count"`
	Score float64 `json:"score"`
}

type ContentMatchCompletePayload struct {
	RequestID    string                    `json:"request_id"`
	Score        float64                   `json:"score"`
	Attributions []ContentMatchAttribution `json:"attributions,omitempty"`
}

type HistoryAppendedPayload struct {
	RequestID string `json:"request_id"`
	Prompt    string `json:"prompt"`
}
