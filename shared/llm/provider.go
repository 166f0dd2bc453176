// Package llm defines the provider contract every generation backend
// implements, plus the cross-cutting helpers (prompt context, output
// cleanup, HTTP error classification) the backends share.
package llm

import (
	"context"
	"strings"
	"time"
)

// DefaultTimeout is applied when a Config carries no timeout.
const DefaultTimeout = 30 * time.Second

// DefaultConversationID marks chat turns the caller did not bind to an
// existing conversation.
const DefaultConversationID = "00000000-0000-0000-0000-000000000000"

// Config holds one backend's connection settings. Immutable after
// construction — providers copy it and never write it back.
type Config struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// ModelInfo describes the model a connected provider serves.
type ModelInfo struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

// Status reports whether a provider is usable. Computed on demand, never
// cached. An invalid configuration sets Connected=false and a non-empty
// Error; it is never surfaced as an error return.
type Status struct {
	Connected bool       `json:"connected"`
	Error     string     `json:"error,omitempty"`
	ModelInfo *ModelInfo `json:"model_info,omitempty"`
}

type CompletionParams struct {
	Prompt       string
	SuggestionID string
}

type CompletionResult struct {
	Predictions  []string
	SuggestionID string
}

type ChatParams struct {
	Query          string
	ConversationID string
}

type ChatResult struct {
	Message        string
	ConversationID string
	Model          string
}

// GenerationParams is one playbook/role generation request.
type GenerationParams struct {
	Prompt  string
	Outline string
	Meta    map[string]string
}

// GenerationResult always carries a non-empty Outline: synthesized when the
// request had none, echoed verbatim otherwise.
type GenerationResult struct {
	Content string
	Outline string
	Model   string
}

// Provider is the uniform surface every backend implements so the rest of
// the system stays backend-agnostic.
type Provider interface {
	Name() string
	ValidateConfig() bool
	Status(ctx context.Context) Status
	Completion(ctx context.Context, p CompletionParams) (CompletionResult, error)
	Chat(ctx context.Context, p ChatParams) (ChatResult, error)
	GeneratePlaybook(ctx context.Context, p GenerationParams) (GenerationResult, error)
	GenerateRole(ctx context.Context, p GenerationParams) (GenerationResult, error)
}

// generateFunc is one raw vendor call: system prompt + user prompt in,
// vendor text out. Backends hand theirs to runGeneration.
type generateFunc func(ctx context.Context, system, prompt string) (string, error)

// runGeneration drives the shared playbook/role flow: enrich the prompt,
// synthesize an outline when the caller supplied none, generate content,
// clean fences. Vendor failures come back classified, never raw.
func runGeneration(ctx context.Context, kind string, p GenerationParams, pair PromptPair, model, providerName string, call generateFunc) (GenerationResult, error) {
	prompt := ApplyContext(p.Prompt, withFileType(p.Meta, kind))

	outline := p.Outline
	if outline == "" {
		raw, err := call(ctx, pair.Outline, prompt)
		if err != nil {
			return GenerationResult{}, HandleHTTPError(err, kind+" outline generation", providerName)
		}
		outline = CleanOutput(raw)
		if outline == "" {
			outline = fallbackOutline(kind, p.Prompt)
		}
	}

	raw, err := call(ctx, pair.System, prompt+"\n\nFollow this plan:\n"+outline)
	if err != nil {
		return GenerationResult{}, HandleHTTPError(err, kind+" generation", providerName)
	}

	return GenerationResult{
		Content: CleanOutput(raw),
		Outline: outline,
		Model:   model,
	}, nil
}

// fallbackOutline keeps the non-empty outline invariant when the vendor
// returns nothing usable for the outline call.
func fallbackOutline(kind, prompt string) string {
	goal := strings.TrimSpace(prompt)
	if i := strings.IndexByte(goal, '\n'); i >= 0 {
		goal = goal[:i]
	}
	if goal == "" {
		goal = "complete the requested " + kind
	}
	return "1. " + goal
}

func withFileType(meta map[string]string, kind string) map[string]string {
	if meta != nil && meta[MetaFileType] != "" {
		return meta
	}
	out := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		out[k] = v
	}
	out[MetaFileType] = kind
	return out
}
