package llm

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PromptPair holds the system prompts for one content kind: full
// generation and outline synthesis.
type PromptPair struct {
	System  string `yaml:"system"`
	Outline string `yaml:"outline"`
}

// Presets are the system prompts every backend dispatches with. Teams tune
// them per deployment via a YAML file; the compiled-in defaults cover the
// common case.
type Presets struct {
	Playbook PromptPair `yaml:"playbook"`
	Role     PromptPair `yaml:"role"`
	Chat     string     `yaml:"chat"`
}

// DefaultPresets returns the built-in system prompts.
func DefaultPresets() Presets {
	return Presets{
		Playbook: PromptPair{
			System: "You are an expert Ansible automation engineer. " +
				"Generate a complete, runnable Ansible playbook. " +
				"Output only raw YAML, never markdown fences or explanations.",
			Outline: "You are an expert Ansible automation engineer. " +
				"Produce a short numbered step outline for the requested playbook. " +
				"Output the outline only, one step per line.",
		},
		Role: PromptPair{
			System: "You are an expert Ansible automation engineer. " +
				"Generate the tasks/main.yml of an Ansible role. " +
				"Output only raw YAML, never markdown fences or explanations.",
			Outline: "You are an expert Ansible automation engineer. " +
				"Produce a short numbered step outline for the requested role. " +
				"Output the outline only, one step per line.",
		},
		Chat: "You are an Ansible assistant. Answer questions about playbooks, " +
			"roles, modules and inventory concisely.",
	}
}

// LoadPresets reads prompt presets from a YAML file. An empty path returns
// the defaults. Fields missing from the file keep their default value.
func LoadPresets(path string) (Presets, error) {
	p := DefaultPresets()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read presets: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse presets: %w", err)
	}
	return p, nil
}

func (p PromptPair) valid() bool {
	return p.System != "" && p.Outline != ""
}

// Validate reports the first missing prompt, if any.
func (p Presets) Validate() error {
	if !p.Playbook.valid() {
		return fmt.Errorf("presets: playbook prompts incomplete")
	}
	if !p.Role.valid() {
		return fmt.Errorf("presets: role prompts incomplete")
	}
	return nil
}
