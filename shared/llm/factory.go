package llm

import "fmt"

// New returns the named backend. The bridge selects one at startup; nothing
// downstream ever switches on the concrete type.
func New(name string, cfg Config, presets Presets) (Provider, error) {
	switch name {
	case "gemini":
		return NewGemini(cfg, presets), nil
	case "wca":
		return NewWCA(cfg, presets), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
