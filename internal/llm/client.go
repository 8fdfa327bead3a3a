// Copyright 2026 HRChatBot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package llm provides the Language Model Gateway. It wraps an
// OpenAI-compatible chat completion endpoint (Groq in production) behind a
// small message-list interface. Calls are bounded by a timeout and are never
// retried: a gateway failure surfaces as a user-visible reply upstream, which
// keeps request latency predictable.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Message roles accepted by the gateway.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in the conversation sent to the model.
type Message struct {
	Role    string
	Content string
}

// Gateway turns an ordered message list into a single assistant reply.
type Gateway interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Config holds the gateway client configuration.
type Config struct {
	APIKey      string
	Endpoint    string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

// Client is the production Gateway backed by go-openai.
type Client struct {
	client      *openai.Client
	logger      *zap.Logger
	model       string
	temperature float32
	timeout     time.Duration
}

// NewClient creates a gateway client for an OpenAI-compatible endpoint.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger.Info("LLM gateway initialized",
		zap.String("endpoint", clientConfig.BaseURL),
		zap.String("model", cfg.Model),
		zap.Float64("temperature", float64(cfg.Temperature)),
		zap.Duration("timeout", timeout),
	)

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		logger:      logger,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}, nil
}

// Complete sends the message list and returns the assistant's reply text.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("message list cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: c.temperature,
	}

	c.logger.Debug("Sending chat completion request",
		zap.String("model", c.model),
		zap.Int("message_count", len(messages)),
	)

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Error("Chat completion failed",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from model")
	}

	c.logger.Debug("Chat completion successful",
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)),
	)

	return resp.Choices[0].Message.Content, nil
}

// toOpenAIMessages converts gateway messages to the wire format.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		out[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}
	return out
}
