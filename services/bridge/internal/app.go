package internal

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lightspeed-ai/lightspeed/shared/events"
	"github.com/lightspeed-ai/lightspeed/shared/llm"
	"github.com/lightspeed-ai/lightspeed/shared/mq"
	"github.com/lightspeed-ai/lightspeed/shared/store"
)

// App wires the bridge together: provider, webview hub, broker, stores.
type App struct {
	cfg      Config
	provider llm.Provider
	broker   *mq.Broker
	hub      *Hub
	store    *store.Store
	history  *History
	bridge   *Bridge
}

func NewApp(ctx context.Context, cfg Config) (*App, error) {
	presets, err := llm.LoadPresets(cfg.PresetsPath)
	if err != nil {
		return nil, err
	}

	provider, err := llm.New(cfg.Provider, llm.Config{
		APIKey:   cfg.APIKey,
		Endpoint: cfg.APIEndpoint,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout,
	}, presets)
	if err != nil {
		return nil, err
	}

	broker, err := mq.New(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("mq connect: %w", err)
	}

	st, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if st.Enabled() {
		if err := store.Migrate(ctx, st.DB()); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	history, err := NewHistory(cfg.RedisURL, cfg.HistoryLimit)
	if err != nil {
		return nil, err
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}

	bridge := NewBridge(provider, validator, history, &brokerTelemetry{broker: broker}, st)

	app := &App{
		cfg:      cfg,
		provider: provider,
		broker:   broker,
		store:    st,
		history:  history,
		bridge:   bridge,
	}
	app.hub = NewHub(func(ctx context.Context, raw []byte, send func([]byte)) {
		bridge.HandleRaw(ctx, raw, postTo(send))
	})
	// Other webviews learn about new history entries through the hub.
	bridge.announce = app.hub
	return app, nil
}

func (a *App) Close() {
	a.broker.Close()
	if err := a.history.Close(); err != nil {
		log.Warn().Err(err).Msg("history close")
	}
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("store close")
	}
}

// Run starts the hub, the API server and the telemetry relay.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.hub.Run(ctx) })
	g.Go(func() error { return a.serveAPI(ctx) })
	g.Go(func() error { return a.relayContentMatches(ctx) })

	return g.Wait()
}

// relayContentMatches forwards completed content-match telemetry to every
// connected webview.
func (a *App) relayContentMatches(ctx context.Context) error {
	deliveries, err := a.broker.Subscribe("bridge.contentmatch.relay", events.ContentMatchComplete)
	if err != nil {
		return fmt.Errorf("subscribe relay: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			a.hub.BroadcastRaw(d.Body)
			d.Ack(false)
		}
	}
}

// postTo adapts a connection's send function to the handler's post contract.
func postTo(send func([]byte)) postFunc {
	return func(msgType string, payload any) error {
		b, err := events.Wrap(msgType, payload)
		if err != nil {
			return err
		}
		send(b)
		return nil
	}
}

// brokerTelemetry publishes content-match requests on the topic exchange.
type brokerTelemetry struct {
	broker *mq.Broker
}

func (t *brokerTelemetry) ContentMatch(ctx context.Context, p events.ContentMatchRequestedPayload) error {
	b, err := events.Wrap(events.ContentMatchRequested, p)
	if err != nil {
		return err
	}
	return t.broker.Publish(ctx, events.ContentMatchRequested, b)
}
