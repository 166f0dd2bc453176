package llm

import "strings"

// Meta keys recognized by ApplyContext.
const (
	MetaFileType  = "file_type"
	MetaDocument  = "document"
	MetaWorkspace = "workspace"
)

const defaultFileType = "playbook"

// ApplyContext enriches a raw user prompt with the Ansible editing context
// the webview captured: target file type, the open document, the workspace
// summary. Missing file type falls back to "playbook".
func ApplyContext(prompt string, meta map[string]string) string {
	fileType := meta[MetaFileType]
	if fileType == "" {
		fileType = defaultFileType
	}

	var sb strings.Builder
	sb.WriteString("You are writing an Ansible ")
	sb.WriteString(fileType)
	sb.WriteString(". Respond with valid YAML only.\n")

	if doc := meta[MetaDocument]; doc != "" {
		sb.WriteString("\nCurrent document:\n")
		sb.WriteString(doc)
		sb.WriteString("\n")
	}
	if ws := meta[MetaWorkspace]; ws != "" {
		sb.WriteString("\nWorkspace context:\n")
		sb.WriteString(ws)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(prompt)
	return sb.String()
}

// CleanOutput strips the Markdown fences vendors love to wrap YAML in.
// Nested fences are peeled until none remain, so the result is a fixpoint.
// Idempotent; empty input stays empty.
func CleanOutput(output string) string {
	s := strings.TrimSpace(output)
	for {
		next := stripFence(s)
		if next == s {
			return s
		}
		s = next
	}
}

func stripFence(s string) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")

	first := strings.ToLower(strings.TrimSpace(lines[0]))
	if first == "```yaml" || first == "```yml" || first == "```" {
		lines = lines[1:]
	}
	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "```" {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
