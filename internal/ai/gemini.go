// gemini.go - Gemini chat provider using the official SDK

package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nutrilens/nutrilens-api/configs"
	"github.com/nutrilens/nutrilens-api/internal/common"
	"github.com/nutrilens/nutrilens-api/internal/processor"
	"github.com/nutrilens/nutrilens-api/internal/ratelimit"
)

// GeminiProvider implements ChatProvider using the Gemini SDK.
type GeminiProvider struct {
	apiKey    string
	modelName string
}

// NewGeminiProvider creates a new Gemini chat provider
func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// GetProviderName returns "gemini"
func (p *GeminiProvider) GetProviderName() string {
	return "gemini"
}

// Complete sends one chat request and returns the model text
func (p *GeminiProvider) Complete(ctx context.Context, req ChatRequest, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	ratelimit.WaitForRateLimit()

	reqCtx.StartSubStep("init_gemini_client")
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	reqCtx.EndSubStep("")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.modelName)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	parts, err := p.buildParts(ctx, req.Messages, reqCtx)
	if err != nil {
		return "", nil, err
	}

	var resp *genai.GenerateContentResponse
	err = callWithRetry(ctx, reqCtx, DefaultRetryConfig, func() error {
		reqCtx.StartSubStep("call_gemini_api")
		var callErr error
		resp, callErr = model.GenerateContent(ctx, parts...)
		reqCtx.EndSubStep("")
		return callErr
	})
	if err != nil {
		return "", nil, fmt.Errorf("gemini call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := StripCodeFences(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))

	var tokens *common.TokenUsage
	if resp.UsageMetadata != nil {
		usage := common.CalculateTokenCost(
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
		)
		tokens = &usage
	}

	return responseText, tokens, nil
}

// buildParts flattens the message list into Gemini content parts. Images
// referenced by URL are downloaded and preprocessed first.
func (p *GeminiProvider) buildParts(ctx context.Context, messages []ChatMessage, reqCtx *common.RequestContext) ([]genai.Part, error) {
	var parts []genai.Part

	for _, msg := range messages {
		if msg.Text != "" {
			parts = append(parts, genai.Text(msg.Text))
		}

		if msg.ImageURL != "" {
			reqCtx.StartSubStep("image_preprocessing")
			fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			data, err := processor.FetchAndPreprocessImage(fetchCtx, msg.ImageURL, configs.MAX_IMAGE_DIMENSION)
			cancel()
			reqCtx.EndSubStep(fmt.Sprintf("%d bytes", len(data)))
			if err != nil {
				return nil, fmt.Errorf("failed to fetch image %s: %w", msg.ImageURL, err)
			}
			parts = append(parts, genai.ImageData("jpeg", data))
		}
	}

	if len(parts) == 0 {
		return nil, fmt.Errorf("no content to send")
	}

	return parts, nil
}
