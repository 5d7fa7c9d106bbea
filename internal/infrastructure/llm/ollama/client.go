// Package ollama is the completion-service adapter: one synchronous
// text-in/text-out call against an Ollama-compatible generate endpoint,
// guarded by a rate limiter and the resilience executor.
package ollama

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/drewherron/llm-librarian/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
}

// New builds a completion client. requestsPerMinute <= 0 disables rate
// limiting; a nil executor disables retries.
func New(baseURL, model string, requestsPerMinute int, executor *resilience.Executor) *Client {
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		limiter:    limiter,
		executor:   executor,
	}
}

// Complete sends one prompt and returns the generated text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	var out string
	generate := func(ctx context.Context) error {
		response, err := c.generateText(ctx, prompt)
		if err != nil {
			return err
		}
		out = response
		return nil
	}

	if c.executor == nil {
		if err := generate(ctx); err != nil {
			return "", err
		}
		return out, nil
	}

	if err := c.executor.Execute(ctx, "complete", generate); err != nil {
		return "", wrapTemporaryIfNeeded("complete", err)
	}
	return out, nil
}

func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
	}
	var response struct {
		Response string `json:"response"`
	}
	if err := c.postJSON(ctx, "/api/generate", reqBody, &response, "generate"); err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Response), nil
}
