// Package reason abstracts the structured-output reasoning backend. The
// pipeline's control flow and invariant checking depend only on the Client
// interface, so deterministic parts stay testable without a live model.
package reason

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/lovsentralen/saksanalyse/pkg/anthropic"
)

// Request is a single structured reasoning call: a system prompt, a user
// prompt describing the expected JSON shape, and sampling parameters.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int64
	Temperature float64
	Phase       string // for usage logging
}

// Client answers structured prompts with raw model text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// anthropicClient backs Client with the Anthropic messages API.
type anthropicClient struct {
	api   anthropic.Client
	model string
}

// NewClient creates a reasoning client over the Anthropic API.
func NewClient(api anthropic.Client, model string) Client {
	return &anthropicClient{api: api, model: model}
}

func (c *anthropicClient) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	temp := req.Temperature

	resp, err := c.api.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      req.System,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: req.Prompt},
		},
	})
	if err != nil {
		return "", err
	}

	resp.Usage.LogUsage(c.model, req.Phase)
	return resp.Text(), nil
}

// CleanJSON strips markdown code fences and leading/trailing prose around a
// JSON object or array in model output.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Narrow to the outermost object or array.
	objStart := strings.Index(text, "{")
	arrStart := strings.Index(text, "[")
	start := objStart
	endCh := "}"
	if start < 0 || (arrStart >= 0 && arrStart < start) {
		start = arrStart
		endCh = "]"
	}
	if start >= 0 {
		if end := strings.LastIndex(text, endCh); end > start {
			text = text[start : end+1]
		}
	}

	return strings.TrimSpace(text)
}

// DecodeOrDefault parses model output into T. Malformed output returns the
// fallback value instead of an error: a missing default is the only fatal
// shape failure in the pipeline.
func DecodeOrDefault[T any](text string, fallback T) T {
	var out T
	if err := json.Unmarshal([]byte(CleanJSON(text)), &out); err != nil {
		zap.L().Warn("reason: malformed structured output, using default", zap.Error(err))
		return fallback
	}
	return out
}
