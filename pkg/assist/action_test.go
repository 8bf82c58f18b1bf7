package assist

import (
	"strings"
	"testing"
)

func TestActionByName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"summarize", "summarize", "summarize", true},
		{"improve", "improve", "improve", true},
		{"complete", "complete", "complete", true},
		{"case insensitive", "Summarize", "summarize", true},
		{"unknown", "translate", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := ActionByName(tt.input)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && action.Name != tt.want {
				t.Errorf("action = %q, want %q", action.Name, tt.want)
			}
		})
	}
}

func TestBuildMessagesEmbedsSelection(t *testing.T) {
	for _, action := range []Action{ActionSummarize, ActionImprove, ActionComplete} {
		msgs := action.BuildMessages("the selected words")
		if len(msgs) != 2 {
			t.Fatalf("%s: message count = %d", action.Name, len(msgs))
		}
		if msgs[0].Role != "system" || msgs[0].Content != action.Instruction {
			t.Errorf("%s: system message wrong", action.Name)
		}
		if msgs[1].Role != "user" || !strings.Contains(msgs[1].Content, "the selected words") {
			t.Errorf("%s: user message missing selection: %q", action.Name, msgs[1].Content)
		}
	}
}
