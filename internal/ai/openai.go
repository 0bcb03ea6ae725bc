// openai.go - OpenAI-compatible chat completion client

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nutrilens/nutrilens-api/internal/common"
	"github.com/nutrilens/nutrilens-api/internal/ratelimit"
)

// OpenAIProvider implements ChatProvider against any OpenAI-compatible
// chat-completions endpoint.
type OpenAIProvider struct {
	apiKey    string
	baseURL   string
	modelName string
	client    *http.Client
}

// NewOpenAIProvider creates a new OpenAI-compatible chat provider
func NewOpenAIProvider(apiKey, baseURL, modelName string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:    apiKey,
		baseURL:   baseURL,
		modelName: modelName,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

// GetProviderName returns "openai"
func (p *OpenAIProvider) GetProviderName() string {
	return "openai"
}

// Chat completions API request/response structures

type openAIContentPart struct {
	Type     string          `json:"type"` // "text" or "image_url"
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string, or []openAIContentPart for vision
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float32         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIChatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends one chat request and returns the model text
func (p *OpenAIProvider) Complete(ctx context.Context, req ChatRequest, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	ratelimit.WaitForRateLimit()

	apiReq := openAIChatRequest{
		Model:       p.modelName,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	if req.System != "" {
		apiReq.Messages = append(apiReq.Messages, openAIMessage{
			Role:    "system",
			Content: req.System,
		})
	}

	for _, msg := range req.Messages {
		apiReq.Messages = append(apiReq.Messages, buildOpenAIMessage(msg))
	}

	var response *openAIChatResponse
	err := callWithRetry(ctx, reqCtx, DefaultRetryConfig, func() error {
		var callErr error
		response, callErr = p.callChatAPI(ctx, apiReq)
		return callErr
	})
	if err != nil {
		return "", nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", nil, fmt.Errorf("no choices returned from chat API")
	}

	tokens := common.CalculateTokenCost(response.Usage.PromptTokens, response.Usage.CompletionTokens)
	return response.Choices[0].Message.Content, &tokens, nil
}

// buildOpenAIMessage converts a ChatMessage to the wire shape. Messages with
// an image use the multi-part content form.
func buildOpenAIMessage(msg ChatMessage) openAIMessage {
	if msg.ImageURL == "" {
		return openAIMessage{Role: msg.Role, Content: msg.Text}
	}

	parts := []openAIContentPart{}
	if msg.Text != "" {
		parts = append(parts, openAIContentPart{Type: "text", Text: msg.Text})
	}
	parts = append(parts, openAIContentPart{
		Type:     "image_url",
		ImageURL: &openAIImageURL{URL: msg.ImageURL},
	})

	return openAIMessage{Role: msg.Role, Content: parts}
}

// callChatAPI makes one HTTP request to the chat-completions endpoint
func (p *OpenAIProvider) callChatAPI(ctx context.Context, request openAIChatRequest) (*openAIChatResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		p.baseURL+"/chat/completions",
		bytes.NewBuffer(requestBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp openAIErrorResponse
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, &apiStatusError{StatusCode: resp.StatusCode, Body: errorResp.Error.Message}
		}
		return nil, &apiStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var response openAIChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse chat response: %w", err)
	}

	return &response, nil
}
