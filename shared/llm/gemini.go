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

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini implements the Provider interface over the Google
// generative-language REST API.
type Gemini struct {
	cfg     Config
	presets Presets
	client  *http.Client
}

// NewGemini creates a Gemini provider. Model and endpoint fall back to
// defaults; the timeout applies to every outbound call.
func NewGemini(cfg Config, presets Presets) *Gemini {
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = geminiBaseURL
	}
	return &Gemini{
		cfg:     cfg,
		presets: presets,
		client:  &http.Client{Timeout: cfg.timeout()},
	}
}

func (g *Gemini) Name() string { return "gemini" }

// ValidateConfig reports whether required credentials are present. Pure
// function of the stored config.
func (g *Gemini) ValidateConfig() bool {
	return g.cfg.APIKey != ""
}

func (g *Gemini) Status(_ context.Context) Status {
	if !g.ValidateConfig() {
		return Status{Connected: false, Error: "Gemini API key not configured"}
	}
	return Status{
		Connected: true,
		ModelInfo: &ModelInfo{
			Name:         g.cfg.Model,
			Version:      "v1beta",
			Capabilities: []string{"completion", "chat", "playbook", "role"},
		},
	}
}

func (g *Gemini) Completion(ctx context.Context, p CompletionParams) (CompletionResult, error) {
	raw, err := g.generate(ctx, "", p.Prompt)
	if err != nil {
		return CompletionResult{}, HandleHTTPError(err, "completion", "Gemini")
	}
	sid := p.SuggestionID
	if sid == "" {
		sid = uuid.New().String()
	}
	return CompletionResult{Predictions: []string{raw}, SuggestionID: sid}, nil
}

func (g *Gemini) Chat(ctx context.Context, p ChatParams) (ChatResult, error) {
	raw, err := g.generate(ctx, g.presets.Chat, p.Query)
	if err != nil {
		return ChatResult{}, HandleHTTPError(err, "chat", "Gemini")
	}
	cid := p.ConversationID
	if cid == "" {
		cid = DefaultConversationID
	}
	return ChatResult{Message: raw, ConversationID: cid, Model: g.cfg.Model}, nil
}

func (g *Gemini) GeneratePlaybook(ctx context.Context, p GenerationParams) (GenerationResult, error) {
	return runGeneration(ctx, "playbook", p, g.presets.Playbook, g.cfg.Model, "Gemini", g.generate)
}

func (g *Gemini) GenerateRole(ctx context.Context, p GenerationParams) (GenerationResult, error) {
	return runGeneration(ctx, "role", p, g.presets.Role, g.cfg.Model, "Gemini", g.generate)
}

// generate makes one generateContent call and returns the first candidate's
// text. Non-2xx responses come back as *HTTPError so the classifier can map
// the status.
func (g *Gemini) generate(ctx context.Context, system, prompt string) (string, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{"role": "user", "parts": []map[string]any{{"text": prompt}}},
		},
	}
	if system != "" {
		reqBody["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": system}},
		}
	}

	body, _ := json.Marshal(reqBody)
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.cfg.Endpoint, g.cfg.Model, g.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{Status: resp.StatusCode, Message: vendorMessage(raw)}
	}

	var gr struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &gr); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// vendorMessage pulls the human-readable message out of a vendor error
// body, falling back to the raw body.
func vendorMessage(raw []byte) string {
	var er struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &er); err == nil {
		if er.Error.Message != "" {
			return er.Error.Message
		}
		if er.Detail != "" {
			return er.Detail
		}
	}
	return string(bytes.TrimSpace(raw))
}
