package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/lightspeed-ai/lightspeed/shared/events"
)

func (a *App) serveAPI(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/generate", a.handleGenerate)
	mux.HandleFunc("GET /api/status", a.handleStatus)
	mux.HandleFunc("GET /api/history", a.handleHistory)
	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.HandleFunc("/ws", a.hub.ServeWS)

	srv := &http.Server{
		Addr:         ":" + a.cfg.APIPort,
		Handler:      cors(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * a.cfg.Timeout,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleGenerate is the synchronous twin of the WebSocket path: same state
// machine, the reply envelope comes back as the response body.
func (a *App) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req events.GenerateRequestedPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, "invalid body", 400)
		return
	}
	if req.Text == "" {
		jsonErr(w, "text required", 400)
		return
	}

	var reply []byte
	post := func(msgType string, payload any) error {
		b, err := events.Wrap(msgType, payload)
		if err != nil {
			return err
		}
		if reply == nil {
			reply = b
		}
		return nil
	}

	a.bridge.HandleGenerate(r.Context(), req, post)

	if reply == nil {
		jsonErr(w, "no response", 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)
	w.Write(reply)
}

// handleHealth reports liveness. A disabled store pings as healthy.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		jsonErr(w, "store unreachable", 503)
		return
	}
	jsonOK(w, map[string]string{"status": "ok"}, 200)
}

func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := a.provider.Status(r.Context())
	jsonOK(w, map[string]any{
		"provider": a.provider.Name(),
		"status":   st,
	}, 200)
}

func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	prompts, err := a.history.Recent(r.Context(), 0)
	if err != nil {
		jsonErr(w, "history unavailable", 500)
		return
	}
	if prompts == nil {
		prompts = []string{}
	}
	jsonOK(w, map[string]any{"prompts": prompts}, 200)
}

func jsonOK(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	jsonOK(w, map[string]string{"error": msg}, code)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
