package debug

import (
	"log/slog"
	"testing"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		enabled []string
		absent  []string
	}{
		{"empty", "", nil, []string{"engine", "all"}},
		{"single", "engine", []string{"engine"}, []string{"providers"}},
		{"multiple", "engine,providers", []string{"engine", "providers"}, []string{"prompt"}},
		{"whitespace and case", " Engine , PROMPT ", []string{"engine", "prompt"}, []string{"auth"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := parseCategories(tt.input)
			for _, cat := range tt.enabled {
				if !m[cat] {
					t.Errorf("expected category %q enabled", cat)
				}
			}
			for _, cat := range tt.absent {
				if m[cat] {
					t.Errorf("expected category %q disabled", cat)
				}
			}
		})
	}
}

func TestEnabled_AllCategory(t *testing.T) {
	old := categories
	defer func() { categories = old }()

	categories = parseCategories("all")
	if !Enabled("engine") || !Enabled("anything") {
		t.Error("expected all categories enabled via 'all'")
	}

	categories = parseCategories("engine")
	if !Enabled("engine") {
		t.Error("expected engine enabled")
	}
	if Enabled("providers") {
		t.Error("expected providers disabled")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"TRACE", LevelTrace},
		{"trace", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("hello", 10); got != "hello" {
		t.Errorf("expected unmodified string, got %q", got)
	}
	if got := Truncate("hello world", 5); got != "hello..." {
		t.Errorf("expected truncated string, got %q", got)
	}
}
