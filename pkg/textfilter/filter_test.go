package textfilter

import "testing"

func TestFilterClean(t *testing.T) {
	filter := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple replacement",
			input:    "What the hell is going on?",
			expected: "What the heck is going on?",
		},
		{
			name:     "multiple replacements",
			input:    "This is damn crap!",
			expected: "This is dang crud!",
		},
		{
			name:     "uppercase preserved",
			input:    "DAMN that goblin!",
			expected: "DANG that goblin!",
		},
		{
			name:     "title case preserved",
			input:    "Hell no, the bridge is out",
			expected: "Heck no, the bridge is out",
		},
		{
			name:     "word boundaries respected",
			input:    "I love classical music",
			expected: "I love classical music",
		},
		{
			name:     "no strong language",
			input:    "The tavern is quiet tonight.",
			expected: "The tavern is quiet tonight.",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "punctuation adjacent",
			input:    "What the hell?! That's damn strange.",
			expected: "What the heck?! That's dang strange.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.Clean(tt.input); got != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFilterFlagged(t *testing.T) {
	filter := New()

	if !filter.Flagged("well, damn") {
		t.Error("expected flagged text")
	}
	if filter.Flagged("a perfectly clean sentence") {
		t.Error("expected clean text")
	}
	if filter.Flagged("classical assassination plots") {
		t.Error("substrings inside words should not flag")
	}
}

func TestShouldFilter(t *testing.T) {
	tests := []struct {
		tone string
		want bool
	}{
		{"heroic", true},
		{"family_friendly", true},
		{"Lighthearted", true},
		{"gritty", false},
		{"dark", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ShouldFilter(tt.tone); got != tt.want {
			t.Errorf("ShouldFilter(%q) = %v, want %v", tt.tone, got, tt.want)
		}
	}
}
