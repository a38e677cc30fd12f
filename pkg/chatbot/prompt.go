package chatbot

import (
	"fmt"
	"strings"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
)

// PromptInput carries everything that shapes a single generation prompt.
// History is the session transcript in stored order and may contain
// document_context entries alongside the user/assistant turns.
type PromptInput struct {
	UserName    string
	UserPersona string
	RAGContext  string
	History     []entity.HistoryEntry
	Message     string
}

// BuildPrompt assembles the flat prompt sent to the LLM. Part order is fixed:
// identity preamble, retrieved context, imported documents, conversation
// turns, then the current message. Parts are joined with blank lines.
func BuildPrompt(in PromptInput) string {
	parts := make([]string, 0, len(in.History)+4)

	switch {
	case in.UserName != "" && in.UserPersona != "":
		parts = append(parts, fmt.Sprintf("You are responding to %s, whose persona is: '%s'.", in.UserName, in.UserPersona))
	case in.UserName != "":
		parts = append(parts, fmt.Sprintf("You are responding to %s.", in.UserName))
	case in.UserPersona != "":
		parts = append(parts, fmt.Sprintf("The user's persona is: '%s'.", in.UserPersona))
	}

	if in.RAGContext != "" {
		parts = append(parts, in.RAGContext)
	}

	// Imported documents surface before the conversation so the model reads
	// them as standing context rather than as turns.
	for _, turn := range in.History {
		if turn.Role == constant.MessageRoleDocumentContext {
			parts = append(parts, fmt.Sprintf("## Imported Document Context:\n%s", turn.Content))
		}
	}

	for _, turn := range in.History {
		switch turn.Role {
		case constant.MessageRoleUser:
			parts = append(parts, fmt.Sprintf("User: %s", turn.Content))
		case constant.MessageRoleAssistant:
			parts = append(parts, fmt.Sprintf("Assistant: %s", turn.Content))
		}
	}

	parts = append(parts, fmt.Sprintf("User's message: %s", in.Message))
	return strings.Join(parts, "\n\n")
}
