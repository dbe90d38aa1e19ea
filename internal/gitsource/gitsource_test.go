package gitsource

import "testing"

func TestDirName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/me/decks.git", "decks"},
		{"https://example.com/me/decks", "decks"},
		{"git@example.com:me/spanish-decks.git", "spanish-decks"},
		{"https://example.com/me/decks/", "decks"},
		{"", "repo"},
	}
	for _, tt := range tests {
		if got := DirName(tt.url); got != tt.want {
			t.Errorf("DirName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
