package narrative

import (
	"testing"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"json fence", "```json\n{\"text\": \"hi\"}\n```", `{"text": "hi"}`},
		{"bare fence", "```\n{\"text\": \"hi\"}\n```", `{"text": "hi"}`},
		{"no fence", `{"text": "hi"}`, `{"text": "hi"}`},
		{"surrounding whitespace", "  \n{\"text\": \"hi\"}\n  ", `{"text": "hi"}`},
	}

	for _, tt := range tests {
		if got := stripFences(tt.input); got != tt.want {
			t.Errorf("%s: stripFences = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestParseResult(t *testing.T) {
	raw := "```json\n" + `{
		"text": "The door creaks open.",
		"delta": {"set_location": "Castle Gate", "set_flags": {"door_open": "true"}},
		"story_completed": false,
		"requires_new_situation": true
	}` + "\n```"

	result, err := parseResult(raw)
	if err != nil {
		t.Fatalf("parseResult failed: %v", err)
	}
	if result.Text != "The door creaks open." {
		t.Errorf("Text = %q", result.Text)
	}
	if result.Delta == nil || result.Delta.SetLocation != "Castle Gate" {
		t.Fatalf("Delta = %+v", result.Delta)
	}
	if result.Delta.SetFlags["door_open"] != "true" {
		t.Errorf("SetFlags = %v", result.Delta.SetFlags)
	}
	if !result.RequiresNewSituation {
		t.Error("expected RequiresNewSituation")
	}
}

func TestParseResultEmptyDeltaDropped(t *testing.T) {
	result, err := parseResult(`{"text": "Nothing changes.", "delta": {}}`)
	if err != nil {
		t.Fatalf("parseResult failed: %v", err)
	}
	if result.Delta != nil {
		t.Errorf("empty delta should be nil, got %+v", result.Delta)
	}
}

func TestParseResultErrors(t *testing.T) {
	if _, err := parseResult("I cannot answer in JSON."); err == nil {
		t.Error("expected error for non-JSON response")
	}
	if _, err := parseResult(`{"delta": {"set_location": "Somewhere"}}`); err == nil {
		t.Error("expected error for missing text")
	}
}
