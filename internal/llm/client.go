// Package llm provides the generative-model query collaborator.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/scoreline/internal/config"
	"github.com/yourusername/scoreline/internal/models"
)

// Client is the model query collaborator: ask about a subject under given
// instructions, get back free-form text. Failures wrap
// models.ErrUpstreamUnavailable.
type Client interface {
	Query(ctx context.Context, subject, instructions string, temperature float64) (string, error)
}

// AnthropicClient queries the Anthropic Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	retries   uint64
	logger    *logrus.Logger
}

// NewAnthropicClient builds a client from config.
func NewAnthropicClient(cfg *config.ModelConfig, logger *logrus.Logger) *AnthropicClient {
	if logger == nil {
		logger = logrus.New()
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	rps := cfg.RateLimitPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Name,
		maxTokens: maxTokens,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		retries:   uint64(cfg.RetryAttempts),
		logger:    logger,
	}
}

// Query sends one message to the model and returns the text of its reply.
// Transient failures are retried with exponential backoff; exhaustion wraps
// models.ErrUpstreamUnavailable.
func (c *AnthropicClient) Query(ctx context.Context, subject, instructions string, temperature float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	start := time.Now()
	defer func() {
		ModelQueryLatency.Observe(time.Since(start).Seconds())
	}()

	var text string
	operation := func() error {
		message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
			Model:       anthropic.Model(c.model),
			MaxTokens:   c.maxTokens,
			Temperature: anthropic.Float(temperature),
			System: []anthropic.TextBlockParam{
				{Text: instructions},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(subject)),
			},
		})
		if err != nil {
			return err
		}
		for _, block := range message.Content {
			if block.Type == "text" {
				text = block.Text
				return nil
			}
		}
		return backoff.Permanent(fmt.Errorf("no text content in model response"))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.retries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		ModelQueryErrorsTotal.Inc()
		c.logger.WithError(err).WithField("subject", subject).Error("Model query failed")
		return "", fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}

	ModelQueriesTotal.WithLabelValues("live", "false").Inc()
	c.logger.WithFields(logrus.Fields{
		"subject":  subject,
		"response": len(text),
	}).Debug("Model query completed")
	return text, nil
}
