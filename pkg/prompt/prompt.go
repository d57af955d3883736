// Package prompt renders chat message lists into the single text prompt a
// local inference engine consumes. Models with a registered Template are
// rendered by deterministic concatenation; everything else goes through
// the default formatter, which picks a format by model-family heuristics.
package prompt

import (
	"strings"

	"github.com/rhuss/lokal/pkg/api"
)

// Role wraps one role's message with prefix and suffix text.
type Role struct {
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// Template describes a per-model custom prompt format: a role-to-wrapper
// mapping plus initial and final wrapper strings around the whole prompt.
type Template struct {
	Roles   map[string]Role `yaml:"roles"`
	Initial string          `yaml:"initial"`
	Final   string          `yaml:"final"`
}

// Render concatenates messages in order: Initial, then each message
// wrapped in its role's prefix and suffix, then Final. A role with no
// entry in Roles contributes its content bare.
func (t Template) Render(messages []api.Message) string {
	var b strings.Builder
	b.WriteString(t.Initial)
	for _, msg := range messages {
		role := t.Roles[msg.Role]
		b.WriteString(role.Prefix)
		b.WriteString(msg.Content)
		b.WriteString(role.Suffix)
	}
	b.WriteString(t.Final)
	return b.String()
}

// Build renders the prompt for model. If templates has an entry for the
// model identifier, that template is used; otherwise Default applies its
// model-family heuristics.
func Build(model string, messages []api.Message, templates map[string]Template) string {
	if tmpl, ok := templates[model]; ok {
		return tmpl.Render(messages)
	}
	return Default(model, messages)
}
