package internal

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lightspeed-ai/lightspeed/shared/events"
	"github.com/lightspeed-ai/lightspeed/shared/llm"
	"github.com/lightspeed-ai/lightspeed/shared/store"
)

// errorBanner prefixes every failure message shown to the user.
const errorBanner = "Failed to get an answer from the server: "

// postFunc posts one message back to the webview that sent the request.
type postFunc func(msgType string, payload any) error

// HistoryAppender records a prompt after a confirmed success.
type HistoryAppender interface {
	Append(ctx context.Context, prompt string) error
}

// TelemetrySink receives content-match requests after a confirmed success.
type TelemetrySink interface {
	ContentMatch(ctx context.Context, p events.ContentMatchRequestedPayload) error
}

// Announcer fans a message out to every connected webview, not just the one
// that sent the request.
type Announcer interface {
	Broadcast(env *events.Envelope)
}

// Bridge routes webview messages to the configured provider and reports
// back. One request in flight per UI action; no queuing, no retry.
type Bridge struct {
	provider  llm.Provider
	validator *Validator
	history   HistoryAppender
	telemetry TelemetrySink
	announce  Announcer
	store     *store.Store
}

func NewBridge(provider llm.Provider, validator *Validator, history HistoryAppender, telemetry TelemetrySink, st *store.Store) *Bridge {
	return &Bridge{
		provider:  provider,
		validator: validator,
		history:   history,
		telemetry: telemetry,
		store:     st,
	}
}

// HandleRaw dispatches one raw webview frame.
func (b *Bridge) HandleRaw(ctx context.Context, raw []byte, post postFunc) {
	env, err := events.UnwrapEnvelope(raw)
	if err != nil {
		b.postError(post, "invalid message: "+err.Error())
		return
	}

	switch env.Type {
	case events.GenerateRequested:
		if err := b.validator.ValidateGenerate(env.Payload); err != nil {
			b.postError(post, err.Error())
			return
		}
		p, err := events.Unwrap[events.GenerateRequestedPayload](raw)
		if err != nil {
			b.postError(post, "invalid message: "+err.Error())
			return
		}
		b.HandleGenerate(ctx, *p, post)
	default:
		log.Warn().Str("type", env.Type).Msg("unsupported webview message")
		b.postError(post, "unsupported message type: "+env.Type)
	}
}

// HandleGenerate is the two-terminal state machine: Success posts exactly
// one result message then runs content-match telemetry and the history
// append; Failure posts exactly one errorMessage and short-circuits both.
func (b *Bridge) HandleGenerate(ctx context.Context, p events.GenerateRequestedPayload, post postFunc) {
	requestID := uuid.New().String()

	kind := p.Kind
	if kind == "" {
		kind = events.KindPlaybook
	}

	logID, err := b.store.AddGenerationLog(ctx, store.GenerationLog{
		RequestID: requestID,
		Provider:  b.provider.Name(),
		Kind:      kind,
		Prompt:    p.Text,
	})
	if err != nil {
		log.Warn().Err(err).Msg("generation log insert failed")
	}

	params := llm.GenerationParams{Prompt: p.Text, Outline: p.Outline, Meta: p.Meta}

	var res llm.GenerationResult
	var genErr error
	msgType := events.GeneratePlaybook
	if kind == events.KindRole {
		msgType = events.GenerateRole
		res, genErr = b.provider.GenerateRole(ctx, params)
	} else {
		res, genErr = b.provider.GeneratePlaybook(ctx, params)
	}

	if genErr != nil {
		if err := b.store.UpdateGenerationLog(ctx, logID, "", "", store.StatusFailed, genErr.Error()); err != nil {
			log.Warn().Err(err).Msg("generation log update failed")
		}
		log.Error().Str("request_id", requestID).Err(genErr).Msg("generation failed")
		b.postError(post, errorBanner+genErr.Error())
		return
	}

	result := events.GenerationResultPayload{
		RequestID: requestID,
		Content:   res.Content,
		Outline:   res.Outline,
		Model:     res.Model,
		Provider:  b.provider.Name(),
	}
	if err := post(msgType, result); err != nil {
		log.Warn().Err(err).Msg("result post failed")
	}

	if b.telemetry != nil {
		err := b.telemetry.ContentMatch(ctx, events.ContentMatchRequestedPayload{
			RequestID: requestID,
			Provider:  b.provider.Name(),
			Model:     res.Model,
			Prompt:    p.Text,
			Content:   res.Content,
		})
		if err != nil {
			log.Warn().Err(err).Msg("content-match publish failed")
		}
	}

	if b.history != nil {
		if err := b.history.Append(ctx, p.Text); err != nil {
			log.Warn().Err(err).Msg("history append failed")
		} else if b.announce != nil {
			env, err := events.NewEnvelope(events.HistoryAppended, events.HistoryAppendedPayload{
				RequestID: requestID,
				Prompt:    p.Text,
			})
			if err != nil {
				log.Warn().Err(err).Msg("history announce failed")
			} else {
				b.announce.Broadcast(env)
			}
		}
	}

	if err := b.store.UpdateGenerationLog(ctx, logID, res.Content, res.Outline, store.StatusSuccess, ""); err != nil {
		log.Warn().Err(err).Msg("generation log update failed")
	}

	log.Info().
		Str("request_id", requestID).
		Str("kind", kind).
		Str("model", res.Model).
		Int("content_len", len(res.Content)).
		Msg("generation complete")
}

func (b *Bridge) postError(post postFunc, msg string) {
	if err := post(events.ErrorMessage, msg); err != nil {
		log.Warn().Err(err).Msg("error post failed")
	}
}
