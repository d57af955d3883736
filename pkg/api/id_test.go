package api

import (
	"strings"
	"testing"
)

func TestNewCompletionID_Format(t *testing.T) {
	id := NewCompletionID()
	if !strings.HasPrefix(id, "cmpl_") {
		t.Errorf("expected cmpl_ prefix, got %q", id)
	}
	if len(id) != len("cmpl_")+24 {
		t.Errorf("expected length %d, got %d", len("cmpl_")+24, len(id))
	}
	if !ValidateCompletionID(id) {
		t.Errorf("generated ID %q failed validation", id)
	}
}

func TestNewCompletionID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewCompletionID()
		if seen[id] {
			t.Fatalf("duplicate ID generated: %q", id)
		}
		seen[id] = true
	}
}

func TestValidateCompletionID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{"valid", "cmpl_" + strings.Repeat("a", 24), true},
		{"empty", "", false},
		{"wrong prefix", "resp_" + strings.Repeat("a", 24), false},
		{"too short", "cmpl_abc", false},
		{"too long", "cmpl_" + strings.Repeat("a", 25), false},
		{"invalid chars", "cmpl_" + strings.Repeat("!", 24), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCompletionID(tt.id); got != tt.valid {
				t.Errorf("ValidateCompletionID(%q) = %v, want %v", tt.id, got, tt.valid)
			}
		})
	}
}
