package llm

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

// Canned vendor outputs. The playbook one is fenced on purpose so tests
// exercise output cleaning end to end.
const (
	cannedPlaybook = "```yaml\n---\n- name: Install nginx\n  hosts: all\n  become: true\n  tasks:\n    - name: Install package\n      ansible.builtin.package:\n        name: nginx\n        state: present\n```"
	cannedRole     = "---\n- name: Ensure service is running\n  ansible.builtin.service:\n    name: nginx\n    state: started"
	cannedExplain  = "This playbook installs nginx on all hosts and ensures it is running."
	cannedOutline  = "1. Install the nginx package\n2. Start and enable the service"
	cannedDefault  = "---\n- name: Generated task\n  ansible.builtin.debug:\n    msg: ok"
)

// pickCanned emulates the generative-content endpoint's dispatch: it
// inspects the request text for playbook/role/explain substrings
// (case-insensitively) and for "outline" to tell outline synthesis from
// full-content generation.
func pickCanned(text string) string {
	t := strings.ToLower(text)
	if strings.Contains(t, "outline") {
		return cannedOutline
	}
	switch {
	case strings.Contains(t, "playbook"):
		return cannedPlaybook
	case strings.Contains(t, "role"):
		return cannedRole
	case strings.Contains(t, "explain"):
		return cannedExplain
	}
	return cannedDefault
}

// mockGemini serves the generateContent wire shape. Always 200.
func mockGemini(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{
					"parts": []map[string]any{{"text": pickCanned(string(body))}},
				}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// mockWCA serves the vendor code-assistant wire shapes. Always 200.
func mockWCA(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)

		text := func(key string) string {
			s, _ := req[key].(string)
			return s
		}

		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/generations/"):
			out := map[string]any{
				"content": pickCanned(text("text")),
				"format":  "plaintext",
			}
			if create, _ := req["create_outline"].(bool); create {
				out["outline"] = cannedOutline
			}
			_ = json.NewEncoder(w).Encode(out)
		case r.URL.Path == "/chat":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"message":         pickCanned(text("query")),
				"conversation_id": req["conversation_id"],
			})
		default: // /completions
			_ = json.NewEncoder(w).Encode(map[string]any{
				"predictions":   []string{pickCanned(text("prompt"))},
				"suggestion_id": req["suggestion_id"],
			})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// mockVendorError serves a fixed error status with a vendor-shaped body.
func mockVendorError(t *testing.T, status int, msg string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": msg},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}
