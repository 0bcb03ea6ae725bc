// retry.go - Retry logic and error categorization for AI provider calls

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/nutrilens/nutrilens-api/internal/common"
)

// RetryConfig defines retry behavior for provider calls
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig provides sensible defaults for retry behavior
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialDelay:    1 * time.Second,
	MaxDelay:        8 * time.Second,
	BackoffMultiple: 2.0,
}

// ProviderError represents a categorized AI provider error
type ProviderError struct {
	OriginalError error
	Category      string
	StatusCode    int
	Message       string
	Retryable     bool
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("[%s] %s (status: %d, retryable: %v)", e.Category, e.Message, e.StatusCode, e.Retryable)
}

func (e *ProviderError) Unwrap() error {
	return e.OriginalError
}

// apiStatusError wraps a non-2xx HTTP status from a raw-HTTP provider so it
// can be categorized the same way as SDK errors.
type apiStatusError struct {
	StatusCode int
	Body       string
}

func (e *apiStatusError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Body)
}

// categorizeProviderError analyzes an error and determines retry strategy
func categorizeProviderError(err error) *ProviderError {
	if err == nil {
		return nil
	}

	provErr := &ProviderError{
		OriginalError: err,
		Category:      "unknown",
		Message:       err.Error(),
		Retryable:     false,
	}

	statusCode := 0
	if apiErr, ok := err.(*googleapi.Error); ok {
		statusCode = apiErr.Code
	} else if httpErr, ok := err.(*apiStatusError); ok {
		statusCode = httpErr.StatusCode
	}

	if statusCode != 0 {
		provErr.StatusCode = statusCode

		switch statusCode {
		case 400:
			provErr.Category = "bad_request"
			provErr.Message = "Invalid request format or parameters"

		case 401:
			provErr.Category = "unauthorized"
			provErr.Message = "Invalid API key or authentication failed"

		case 403:
			provErr.Category = "forbidden"
			provErr.Message = "API key lacks required permissions"

		case 404:
			provErr.Category = "not_found"
			provErr.Message = "Model not found or invalid endpoint"

		case 413:
			provErr.Category = "payload_too_large"
			provErr.Message = "Request size exceeds limit (reduce image size)"

		case 429:
			provErr.Category = "rate_limit"
			provErr.Message = "Rate limit exceeded - too many requests"
			provErr.Retryable = true

		case 500, 502, 503, 504:
			provErr.Category = "server_error"
			provErr.Message = fmt.Sprintf("Provider server error (%d)", statusCode)
			provErr.Retryable = true

		default:
			provErr.Category = "unknown_api_error"
			provErr.Retryable = statusCode >= 500
		}

		return provErr
	}

	if err == context.DeadlineExceeded {
		provErr.Category = "timeout"
		provErr.Message = "Request timeout - processing took too long"
		provErr.Retryable = true
		return provErr
	}

	if err == context.Canceled {
		provErr.Category = "canceled"
		provErr.Message = "Request was canceled"
		return provErr
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "limit") {
		provErr.Category = "quota_exceeded"
		provErr.Message = "API quota exceeded - daily or monthly limit reached"
		return provErr
	}

	if strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline") {
		provErr.Category = "timeout"
		provErr.Message = "Request timeout"
		provErr.Retryable = true
		return provErr
	}

	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") {
		provErr.Category = "network_error"
		provErr.Message = "Network connection error"
		provErr.Retryable = true
		return provErr
	}

	return provErr
}

// callWithRetry executes an AI call with categorized retry and exponential
// backoff. The call closure performs one attempt.
func callWithRetry(
	ctx context.Context,
	reqCtx *common.RequestContext,
	config RetryConfig,
	call func() error,
) error {
	var lastErr *ProviderError

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if attempt > 1 {
			reqCtx.LogInfo("Retry attempt %d/%d", attempt, config.MaxAttempts)
		}

		err := call()
		if err == nil {
			if attempt > 1 {
				reqCtx.LogInfo("Retry succeeded on attempt %d", attempt)
			}
			return nil
		}

		lastErr = categorizeProviderError(err)
		reqCtx.LogError("AI call failed (attempt %d/%d): %s", attempt, config.MaxAttempts, lastErr.Error())

		if !lastErr.Retryable {
			return lastErr
		}

		if attempt >= config.MaxAttempts {
			break
		}

		delay := calculateBackoff(attempt, config)
		if lastErr.Category == "rate_limit" {
			delay = delay * 2
			reqCtx.LogWarning("Rate limit hit, waiting %v before retry", delay)
		} else {
			reqCtx.LogInfo("Waiting %v before retry", delay)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("context canceled during retry wait: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("AI call failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

// calculateBackoff computes exponential backoff delay
func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= config.BackoffMultiple
	}

	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	return time.Duration(delay)
}
