package llm

import (
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/cortivus/chat-api/internal/retrieval"
)

// Conversation roles accepted in history turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one prior exchange supplied by the caller. Only the
// most recent turns are forwarded to the model; nothing is persisted here.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// historyLimit caps how many trailing history turns are forwarded per call.
const historyLimit = 5

var systemPrompts = map[retrieval.Mode]string{
	retrieval.ModePolicy: "You are the Cortivus Policy Assistant. Answer questions based " +
		"only on the provided policy documents. If the answer is not in the documents, " +
		"politely say you don't have that information. Keep responses concise, " +
		"professional, and helpful. When quoting policies, cite the specific section.",
	retrieval.ModeSermon: "You are the Cortivus Sermon Preparation Assistant. Help users " +
		"prepare sermons and Bible studies using the provided scripture references and " +
		"commentary. Balance theological depth with practical application. Cite " +
		"scripture references when appropriate.",
}

// buildMessages assembles the role-tagged message list: the mode's system
// prompt, up to the last 5 history turns, a system message summarizing the
// retrieved documents (only when non-empty), then the current user message.
func buildMessages(message string, docs []retrieval.Document, history []ConversationTurn, mode retrieval.Mode) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+3)

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPromptFor(mode),
	})

	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	if len(docs) > 0 {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: documentContext(docs),
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	return messages
}

func systemPromptFor(mode retrieval.Mode) string {
	if prompt, ok := systemPrompts[mode]; ok {
		return prompt
	}
	return "You are a helpful Cortivus assistant."
}

// documentContext renders the retrieved documents as numbered context, each
// with its content and a source line.
func documentContext(docs []retrieval.Document) string {
	var b strings.Builder
	b.WriteString("Here are relevant documents to help answer the query:\n\n")
	for i, doc := range docs {
		fmt.Fprintf(&b, "Document %d: %s\n", i+1, doc.Content)
		if doc.Source != "" {
			fmt.Fprintf(&b, "Source: %s\n", doc.Source)
		}
		b.WriteString("\n")
	}
	return b.String()
}
