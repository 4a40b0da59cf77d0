package llm

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client produces a short text completion for a prompt and an optional
// system instruction.
type Client interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (Response, error)
}
