package prompt

import (
	"strings"

	"github.com/rhuss/lokal/pkg/api"
)

// Default renders messages with a generic format chosen by model-family
// heuristics on the model identifier. Unknown families fall back to a
// plain role-labelled transcript ending in an assistant cue.
func Default(model string, messages []api.Message) string {
	name := strings.ToLower(model)
	switch {
	case strings.Contains(name, "llama-2") && strings.Contains(name, "chat"):
		return llama2Chat(messages)
	case strings.Contains(name, "mistral") || strings.Contains(name, "mixtral"):
		return llama2Chat(messages)
	case strings.Contains(name, "chatml") || strings.Contains(name, "qwen") || strings.Contains(name, "mpt"):
		return chatML(messages)
	default:
		return plain(messages)
	}
}

// llama2Chat renders the [INST] format used by the Llama 2 chat family.
// System messages are folded into the first instruction block.
func llama2Chat(messages []api.Message) string {
	var b strings.Builder
	var system string

	for _, msg := range messages {
		switch msg.Role {
		case "system":
			system = "<<SYS>>\n" + msg.Content + "\n<</SYS>>\n\n"
		case "user":
			b.WriteString("[INST] ")
			if system != "" {
				b.WriteString(system)
				system = ""
			}
			b.WriteString(msg.Content)
			b.WriteString(" [/INST]")
		case "assistant":
			b.WriteString(" ")
			b.WriteString(msg.Content)
			b.WriteString(" ")
		}
	}
	return b.String()
}

// chatML renders the <|im_start|> format and appends the assistant cue
// so the engine continues the assistant turn.
func chatML(messages []api.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString("<|im_start|>")
		b.WriteString(msg.Role)
		b.WriteString("\n")
		b.WriteString(msg.Content)
		b.WriteString("<|im_end|>\n")
	}
	b.WriteString("<|im_start|>assistant\n")
	return b.String()
}

// plain renders a role-labelled transcript.
func plain(messages []api.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(msg.Role)
		b.WriteString(": ")
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	b.WriteString("assistant: ")
	return b.String()
}
