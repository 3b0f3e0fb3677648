// System prompt assembly for tool-calling conversations.
package agent

import (
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// BuildSystemPrompt constructs the system prompt from the behavioral rules
// and the registered tool schema. Definitions arrive in registration order,
// so the prompt is reproducible across runs.
func BuildSystemPrompt(workRoot string, defs []openai.ChatCompletionToolParam) string {
	var sb strings.Builder
	sb.WriteString("You are an AI assistant that uses tools for file operations, code analysis, and commands. Give precise and concise answers.\n\n")
	sb.WriteString(fmt.Sprintf("Working directory: %s\n", workRoot))

	if md := toolListMarkdown(defs); md != "" {
		sb.WriteString("\n")
		sb.WriteString(md)
		sb.WriteString("\n")
	}

	sb.WriteString(`
Tool usage rules:
1. ALWAYS use write_file for new file creation
2. Use read_file for reading existing files
3. Use list_files to browse directories and find_files to search by pattern
4. Use run_command for system operations; only allow-listed commands succeed
5. ALWAYS use web_search for questions about current events or time-sensitive facts
6. When showing code, include the full file content

Think step-by-step:
1. Analyze the request
2. Choose appropriate tools
3. Execute tools in order
4. Verify results

Respond ONLY with tool calls or final answers.`)

	return strings.TrimSpace(sb.String())
}

// toolListMarkdown renders a markdown listing of the registered tools.
func toolListMarkdown(defs []openai.ChatCompletionToolParam) string {
	if len(defs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Available tools\n")
	for _, def := range defs {
		name := sanitizeMarkdown(def.Function.Name)
		desc := sanitizeMarkdown(def.Function.Description.Or(""))
		if desc == "" {
			desc = "No description provided."
		}
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", name, desc))
	}
	return strings.TrimSpace(sb.String())
}

// sanitizeMarkdown keeps markdown fields single-line and trimmed.
func sanitizeMarkdown(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	return strings.TrimSpace(value)
}
