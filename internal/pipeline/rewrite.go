// rewrite.go - Stage 3 summary tone rewrite

package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nutrilens/nutrilens-api/internal/ai"
	"github.com/nutrilens/nutrilens-api/internal/common"
)

// rewriteSummary runs the Stage 3 tone rewrite. Fully absorbed on failure:
// the original summary is kept and no error propagates.
func (p *Pipeline) rewriteSummary(ctx context.Context, summary, language string, reqCtx *common.RequestContext) (Outcome[string], *common.TokenUsage) {
	if strings.TrimSpace(summary) == "" {
		return Success(summary), nil
	}

	text, tokens, err := p.complete(ctx, ai.ChatRequest{
		System: ai.RewriteSystemPrompt,
		Messages: []ai.ChatMessage{
			{Role: "user", Text: ai.RewriteSummaryPrompt(summary, language)},
		},
		Temperature: 0.7,
	}, reqCtx)
	if err != nil {
		return Degraded(summary, fmt.Errorf("rewrite call failed: %w", err)), tokens
	}

	rewritten := strings.TrimSpace(strings.Trim(ai.StripCodeFences(text), `"`))
	if rewritten == "" {
		return Degraded(summary, fmt.Errorf("rewrite returned empty text")), tokens
	}

	return Success(rewritten), tokens
}
