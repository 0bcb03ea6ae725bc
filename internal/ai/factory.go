// factory.go - Chat provider factory for creating provider instances

package ai

import (
	"fmt"
	"log"

	"github.com/nutrilens/nutrilens-api/configs"
)

// CreateChatProvider creates a chat provider based on configuration
func CreateChatProvider() (ChatProvider, error) {
	provider := configs.AI_PROVIDER

	switch provider {
	case "openai":
		log.Printf("Creating OpenAI chat provider (model: %s)", configs.OPENAI_MODEL)
		return NewOpenAIProvider(configs.OPENAI_API_KEY, configs.OPENAI_BASE_URL, configs.OPENAI_MODEL), nil

	case "gemini":
		log.Printf("Creating Gemini chat provider (model: %s)", configs.GEMINI_MODEL)
		return NewGeminiProvider(configs.GEMINI_API_KEY, configs.GEMINI_MODEL), nil

	default:
		return nil, fmt.Errorf("unsupported AI provider: %s (supported: openai, gemini)", provider)
	}
}

// CreateChatProviderWithFallback creates a chat provider with automatic fallback.
// If the primary provider fails, callers may try the fallback provider.
func CreateChatProviderWithFallback() (primary ChatProvider, fallback ChatProvider, err error) {
	primary, err = CreateChatProvider()
	if err != nil {
		return nil, nil, err
	}

	switch primary.GetProviderName() {
	case "openai":
		if configs.GEMINI_API_KEY != "" {
			fallback = NewGeminiProvider(configs.GEMINI_API_KEY, configs.GEMINI_MODEL)
			log.Printf("Fallback provider configured: Gemini")
		}

	case "gemini":
		if configs.OPENAI_API_KEY != "" {
			fallback = NewOpenAIProvider(configs.OPENAI_API_KEY, configs.OPENAI_BASE_URL, configs.OPENAI_MODEL)
			log.Printf("Fallback provider configured: OpenAI")
		}
	}

	return primary, fallback, nil
}
