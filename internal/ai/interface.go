// interface.go - Chat provider interface for supporting multiple AI backends

package ai

import (
	"context"

	"github.com/nutrilens/nutrilens-api/internal/common"
)

// ChatRequest describes one chat-completion round trip. Messages are sent in
// order after the optional system instruction; a message may carry an image
// reference for vision-capable models.
type ChatRequest struct {
	System      string
	Messages    []ChatMessage
	Temperature float32
	MaxTokens   int
}

// ChatMessage is a single conversation turn.
type ChatMessage struct {
	Role     string // "user" or "assistant"
	Text     string
	ImageURL string // optional; attached as an image part when set
}

// ChatProvider is the interface every AI backend implements. Complete sends
// one chat request and returns the raw model text plus token accounting.
type ChatProvider interface {
	Complete(ctx context.Context, req ChatRequest, reqCtx *common.RequestContext) (string, *common.TokenUsage, error)

	// GetProviderName returns the name of the provider (e.g., "openai", "gemini")
	GetProviderName() string
}
