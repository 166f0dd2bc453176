package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n\t ", ""},
		{"no fences", "---\n- name: test", "---\n- name: test"},
		{"yaml fence", "```yaml\n---\n- name: test\n```", "---\n- name: test"},
		{"yml fence", "```yml\n---\n- name: test\n```", "---\n- name: test"},
		{"uppercase fence", "```YAML\n---\n- name: test\n```", "---\n- name: test"},
		{"bare fence", "```\n---\n- name: test\n```", "---\n- name: test"},
		{"leading fence only", "```yaml\n---\n- name: test", "---\n- name: test"},
		{"trailing fence only", "---\n- name: test\n```", "---\n- name: test"},
		{"surrounding whitespace", "  ```yaml\n---\n- name: test\n```  \n", "---\n- name: test"},
		{"fence marker alone", "```yaml", ""},
		{"inner fences untouched", "---\n# keep ```yaml in comments\n- name: test", "---\n# keep ```yaml in comments\n- name: test"},
		{"nested bare over yaml fence", "```\n```yaml\n- a\n```\n```", "- a"},
		{"nested yml over yaml fence", "```yml\n```yaml\n- a\n```\n```", "- a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanOutput(tt.in))
		})
	}
}

func TestCleanOutputIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain text",
		"```yaml\n---\n- name: test\n```",
		"```yml\nkey: value\n```",
		"```\nanything\n```",
		"---\n- name: already clean",
		"```yaml\n```",
		"\n\n```YAML\n- a\n- b\n```\n\n",
		"```\n```yaml\n- a\n```\n```",
		"```yml\n```yaml\n- a\n```\n```",
		"```\n```\n```yaml\nkey: value\n```\n```\n```",
	}
	for _, in := range inputs {
		once := CleanOutput(in)
		assert.Equal(t, once, CleanOutput(once), "input %q", in)
	}
}

func TestCleanOutputStripsYAMLFence(t *testing.T) {
	got := CleanOutput("```yaml\n---\n- name: test\n```")
	assert.NotContains(t, got, "```yaml")
	assert.NotContains(t, got, "```")
}

func TestApplyContext(t *testing.T) {
	t.Run("defaults to playbook", func(t *testing.T) {
		got := ApplyContext("install nginx", nil)
		assert.Contains(t, got, "Ansible playbook")
		assert.Contains(t, got, "install nginx")
	})

	t.Run("honors file type", func(t *testing.T) {
		got := ApplyContext("install nginx", map[string]string{MetaFileType: "role"})
		assert.Contains(t, got, "Ansible role")
		assert.NotContains(t, got, "Ansible playbook")
	})

	t.Run("folds document and workspace context", func(t *testing.T) {
		got := ApplyContext("add a handler", map[string]string{
			MetaDocument:  "---\n- name: existing task",
			MetaWorkspace: "inventory: production",
		})
		assert.Contains(t, got, "Current document:")
		assert.Contains(t, got, "- name: existing task")
		assert.Contains(t, got, "Workspace context:")
		assert.Contains(t, got, "inventory: production")
		// prompt comes last
		assert.True(t, len(got) >= len("add a handler"))
		assert.Equal(t, "add a handler", got[len(got)-len("add a handler"):])
	})

	t.Run("omits absent context sections", func(t *testing.T) {
		got := ApplyContext("p", nil)
		assert.NotContains(t, got, "Current document:")
		assert.NotContains(t, got, "Workspace context:")
	})
}
