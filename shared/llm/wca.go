package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

const defaultWCAModel = "wisdom-codegen-v2"

// WCA implements the Provider interface for the vendor code-assistant
// service. Unlike Gemini it exposes purpose-built generation endpoints, so
// outline synthesis happens server-side in a single round trip.
type WCA struct {
	cfg     Config
	presets Presets
	client  *http.Client
}

// NewWCA creates a WCA provider. The endpoint has no default: deployments
// always point at their own tenant URL.
func NewWCA(cfg Config, presets Presets) *WCA {
	if cfg.Model == "" {
		cfg.Model = defaultWCAModel
	}
	return &WCA{
		cfg:     cfg,
		presets: presets,
		client:  &http.Client{Timeout: cfg.timeout()},
	}
}

func (w *WCA) Name() string { return "wca" }

// ValidateConfig reports whether required credentials and the tenant
// endpoint are present. Pure function of the stored config.
func (w *WCA) ValidateConfig() bool {
	return w.cfg.APIKey != "" && w.cfg.Endpoint != ""
}

func (w *WCA) Status(_ context.Context) Status {
	if !w.ValidateConfig() {
		return Status{Connected: false, Error: "WCA API key or endpoint not configured"}
	}
	return Status{
		Connected: true,
		ModelInfo: &ModelInfo{
			Name:         w.cfg.Model,
			Version:      "v1",
			Capabilities: []string{"completion", "chat", "playbook", "role"},
		},
	}
}

func (w *WCA) Completion(ctx context.Context, p CompletionParams) (CompletionResult, error) {
	sid := p.SuggestionID
	if sid == "" {
		sid = uuid.New().String()
	}

	var out struct {
		Predictions  []string `json:"predictions"`
		SuggestionID string   `json:"suggestion_id"`
	}
	err := w.post(ctx, "/completions", map[string]any{
		"model_id":      w.cfg.Model,
		"prompt":        p.Prompt,
		"suggestion_id": sid,
	}, &out)
	if err != nil {
		return CompletionResult{}, HandleHTTPError(err, "completion", "WCA")
	}
	if out.SuggestionID != "" {
		sid = out.SuggestionID
	}
	return CompletionResult{Predictions: out.Predictions, SuggestionID: sid}, nil
}

func (w *WCA) Chat(ctx context.Context, p ChatParams) (ChatResult, error) {
	cid := p.ConversationID
	if cid == "" {
		cid = DefaultConversationID
	}

	var out struct {
		Message        string `json:"message"`
		ConversationID string `json:"conversation_id"`
	}
	err := w.post(ctx, "/chat", map[string]any{
		"model_id":        w.cfg.Model,
		"query":           p.Query,
		"conversation_id": cid,
		"system":          w.presets.Chat,
	}, &out)
	if err != nil {
		return ChatResult{}, HandleHTTPError(err, "chat", "WCA")
	}
	if out.ConversationID != "" {
		cid = out.ConversationID
	}
	return ChatResult{Message: out.Message, ConversationID: cid, Model: w.cfg.Model}, nil
}

func (w *WCA) GeneratePlaybook(ctx context.Context, p GenerationParams) (GenerationResult, error) {
	return w.generateStructured(ctx, "playbook", p)
}

func (w *WCA) GenerateRole(ctx context.Context, p GenerationParams) (GenerationResult, error) {
	return w.generateStructured(ctx, "role", p)
}

func (w *WCA) generateStructured(ctx context.Context, kind string, p GenerationParams) (GenerationResult, error) {
	prompt := ApplyContext(p.Prompt, withFileType(p.Meta, kind))

	var out struct {
		Content string `json:"content"`
		Outline string `json:"outline"`
		Format  string `json:"format"`
	}
	err := w.post(ctx, "/generations/"+kind, map[string]any{
		"model_id":       w.cfg.Model,
		"text":           prompt,
		"create_outline": p.Outline == "",
		"outline":        p.Outline,
	}, &out)
	if err != nil {
		return GenerationResult{}, HandleHTTPError(err, kind+" generation", "WCA")
	}

	outline := p.Outline
	if outline == "" {
		outline = CleanOutput(out.Outline)
		if outline == "" {
			outline = fallbackOutline(kind, p.Prompt)
		}
	}

	return GenerationResult{
		Content: CleanOutput(out.Content),
		Outline: outline,
		Model:   w.cfg.Model,
	}, nil
}

// post sends one JSON request to the tenant endpoint. Non-2xx responses
// come back as *HTTPError so the classifier can map the status.
func (w *WCA) post(ctx context.Context, path string, payload, out any) error {
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", w.cfg.Endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.cfg.APIKey)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("wca request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Status: resp.StatusCode, Message: vendorMessage(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
