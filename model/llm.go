package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"

	"faqbot/types"
)

// Generator produces free text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const maxAttempts = 3

// Client talks to an OpenAI-compatible chat completions endpoint (Grok,
// OpenAI, local gateways). Retries server errors and timeouts with backoff,
// fails fast on client errors.
type Client struct {
	url         string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	log         *zap.Logger
}

type ClientOpts struct {
	URL         string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

func NewClient(opts ClientOpts, log *zap.Logger) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		url:         opts.URL,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
		client:      &http.Client{Timeout: opts.Timeout},
		log:         log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
	Content  string `json:"content"`
	Response string `json:"response"`
}

// Generate sends the prompt prefixed with today's date so the model anchors
// relative phrases like "upcoming" or "next month".
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	dated := fmt.Sprintf("Today's date is %s.\n\n%s", time.Now().Format("January 2, 2006"), prompt)

	if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
		c.log.Debug("sending generation request",
			zap.Int("prompt_tokens", len(enc.Encode(dated, nil, nil))))
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: dated}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	var lastErr error
	lastStatus := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, status, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		lastStatus = status

		if status != 0 && !types.IsRetryableStatus(status) {
			c.log.Warn("generation failed with client error, not retrying",
				zap.Int("status", status))
			return "", types.NewGenerationError(attempt, status, false, err)
		}
		if ctx.Err() != nil {
			return "", types.NewGenerationError(attempt, status, true, ctx.Err())
		}

		c.log.Warn("generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("status", status),
			zap.Error(err))
		if attempt < maxAttempts {
			select {
			case <-time.After(time.Duration(attempt) * time.Second):
			case <-ctx.Done():
				return "", types.NewGenerationError(attempt, status, true, ctx.Err())
			}
		}
	}

	return "", types.NewGenerationError(maxAttempts, lastStatus, true, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body []byte) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", resp.StatusCode, fmt.Errorf("chat request: status %d: %s", resp.StatusCode, b)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", resp.StatusCode, fmt.Errorf("decode chat response: %w", err)
	}

	text := extractText(out)
	if text == "" {
		return "", resp.StatusCode, fmt.Errorf("chat response carries no text")
	}
	return text, resp.StatusCode, nil
}

// extractText tolerates the response shapes different providers return.
func extractText(out chatResponse) string {
	if len(out.Choices) > 0 {
		if out.Choices[0].Message.Content != "" {
			return out.Choices[0].Message.Content
		}
		if out.Choices[0].Text != "" {
			return out.Choices[0].Text
		}
	}
	if out.Content != "" {
		return out.Content
	}
	return out.Response
}
