package httpclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/configloader"
)

// ChatClient implements port.ChatCompleter against an OpenAI-compatible
// chat completions endpoint (IO Intelligence).
type ChatClient struct {
	client      *fasthttp.Client
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      port.Logger
}

var _ port.ChatCompleter = (*ChatClient)(nil)

// NewChatClient creates a chat client from config.
func NewChatClient(cfg configloader.ChatConfig, logger port.Logger) *ChatClient {
	return &ChatClient{
		client:      &fasthttp.Client{Name: "inft_dashboard"},
		endpoint:    strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxCompletionTokens,
		timeout:     time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		logger:      logger,
	}
}

type chatCompletionRequest struct {
	Model               string               `json:"model"`
	Messages            []entity.ChatMessage `json:"messages"`
	Temperature         float64              `json:"temperature"`
	Stream              bool                 `json:"stream"`
	MaxCompletionTokens int                  `json:"max_completion_tokens"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index        int                `json:"index"`
		Message      entity.ChatMessage `json:"message"`
		FinishReason string             `json:"finish_reason"`
	} `json:"choices"`
}

// Complete implements port.ChatCompleter.
func (c *ChatClient) Complete(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:               c.model,
		Messages:            messages,
		Temperature:         c.temperature,
		MaxCompletionTokens: c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Sending chat completion", "model", c.model, "messages", len(messages))
	if err := do(ctx, c.client, req, resp, c.timeout); err != nil {
		return "", err
	}
	if !isSuccess(resp.StatusCode()) {
		return "", statusError("chat completion", resp)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("failed to unmarshal chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat response %s has no choices", parsed.ID)
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
