package assist

import (
	"context"
	"fmt"

	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/editor"
)

const chatInstruction = `You are a writing assistant embedded in a text editor.
Answer the user's questions about their document: explain, suggest changes,
brainstorm. Ground every answer in the document content provided below.
If the answer is not in the document, say so instead of inventing it.
Be direct and concise.

=== DOCUMENT CONTEXT ===
%s`

const freeChatInstruction = `You are a writing assistant. Answer the user's
questions directly and concisely. No document is attached to this
conversation.`

// BuildChatMessages assembles one chat request: the running instruction
// embedding the grounding context, the transcript so far in order, then the
// new user message.
func BuildChatMessages(grounding string, history []completion.Message, userText string) []completion.Message {
	messages := make([]completion.Message, 0, len(history)+2)
	messages = append(messages, completion.Message{
		Role:    completion.RoleSystem,
		Content: fmt.Sprintf(chatInstruction, grounding),
	})
	messages = append(messages, history...)
	messages = append(messages, completion.Message{
		Role:    completion.RoleUser,
		Content: userText,
	})
	return messages
}

// BuildFreeChatMessages assembles a request with no document grounding.
func BuildFreeChatMessages(history []completion.Message, userText string) []completion.Message {
	messages := make([]completion.Message, 0, len(history)+2)
	messages = append(messages, completion.Message{
		Role:    completion.RoleSystem,
		Content: freeChatInstruction,
	})
	messages = append(messages, history...)
	messages = append(messages, completion.Message{
		Role:    completion.RoleUser,
		Content: userText,
	})
	return messages
}

// GroundingContext picks what the model gets to see: the selection when one
// exists, otherwise the full document export.
func GroundingContext(doc editor.Document) (string, error) {
	selected, err := editor.SelectedText(doc)
	if err != nil {
		return "", err
	}
	if selected != "" {
		return selected, nil
	}
	return doc.Export(), nil
}

// Chat streams one chat response grounded in the document and returns it
// fully accumulated. On stream failure no text is returned; the partial is
// available through the wrapped StreamError for reporting.
func Chat(ctx context.Context, provider completion.Provider, doc editor.Document, history []completion.Message, userText string, opts ...completion.Option) (string, error) {
	grounding, err := GroundingContext(doc)
	if err != nil {
		return "", err
	}

	stream, err := provider.ChatStream(ctx, BuildChatMessages(grounding, history, userText), opts...)
	if err != nil {
		return "", &CompletionError{Err: err}
	}
	defer stream.Close()

	reply, err := completion.Collect(stream)
	if err != nil {
		return "", &CompletionError{Err: err}
	}
	return reply, nil
}

// FreeChat streams one chat response with no document grounding.
func FreeChat(ctx context.Context, provider completion.Provider, history []completion.Message, userText string, opts ...completion.Option) (string, error) {
	stream, err := provider.ChatStream(ctx, BuildFreeChatMessages(history, userText), opts...)
	if err != nil {
		return "", &CompletionError{Err: err}
	}
	defer stream.Close()

	reply, err := completion.Collect(stream)
	if err != nil {
		return "", &CompletionError{Err: err}
	}
	return reply, nil
}
