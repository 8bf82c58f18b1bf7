package assist

import (
	"fmt"
	"strings"

	"ai-editor-be/pkg/completion"
)

// Action parameterizes one writing operation: the system instruction and
// the user-prompt wording wrapped around the selected text. Summarize,
// improve and complete are the same state machine with different prompts.
type Action struct {
	Name        string
	Instruction string
	Template    string // one %s slot for the selected text
}

func (a Action) BuildMessages(selected string) []completion.Message {
	return []completion.Message{
		{Role: completion.RoleSystem, Content: a.Instruction},
		{Role: completion.RoleUser, Content: fmt.Sprintf(a.Template, selected)},
	}
}

var (
	ActionSummarize = Action{
		Name: "summarize",
		Instruction: `You are a writing assistant embedded in a text editor.
Rewrite the passage the user gives you as a concise summary.
Keep the author's voice and tense. Output ONLY the replacement text:
no preamble, no quotes, no markdown fences, no commentary.`,
		Template: "Summarize the following passage:\n\n%s",
	}

	ActionImprove = Action{
		Name: "improve",
		Instruction: `You are a writing assistant embedded in a text editor.
Rewrite the passage the user gives you with better clarity, grammar and flow.
Preserve the meaning and approximate length. Output ONLY the replacement text:
no preamble, no quotes, no markdown fences, no commentary.`,
		Template: "Improve the following passage:\n\n%s",
	}

	ActionComplete = Action{
		Name: "complete",
		Instruction: `You are a writing assistant embedded in a text editor.
Continue the passage the user gives you, starting with the passage itself so
the result reads as one continuous text. Match the style and tone.
Output ONLY the replacement text: no preamble, no quotes, no commentary.`,
		Template: "Continue writing from this passage:\n\n%s",
	}
)

// ActionByName resolves a client-supplied action name. Matching is
// case-insensitive.
func ActionByName(name string) (Action, bool) {
	switch strings.ToLower(name) {
	case ActionSummarize.Name:
		return ActionSummarize, true
	case ActionImprove.Name:
		return ActionImprove, true
	case ActionComplete.Name:
		return ActionComplete, true
	default:
		return Action{}, false
	}
}
