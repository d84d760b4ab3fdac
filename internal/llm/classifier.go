package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/autobill/internal/common"
	"github.com/Veraticus/autobill/internal/model"
	"github.com/Veraticus/autobill/internal/service"
)

// Classifier is the boundary between the pipeline and the remote service.
type Classifier struct {
	client           Client
	cache            *voteCache
	limiter          *rateLimiter
	logger           *slog.Logger
	fallbackCategory string
	retryOpts        service.RetryOptions
	timeout          time.Duration
}

// NewClassifier creates a classifier with the provider selected by cfg.
func NewClassifier(cfg Config, logger *slog.Logger) (*Classifier, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return NewClassifierWithClient(client, cfg, logger), nil
}

// NewClassifierWithClient wraps an existing provider client.
func NewClassifierWithClient(client Client, cfg Config, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	fallback := cfg.FallbackCategory
	if fallback == "" {
		fallback = DefaultFallbackCategory
	}

	// MaxRetries counts retries after the first call; negative disables them.
	retries := cfg.MaxRetries
	switch {
	case retries == 0:
		retries = DefaultMaxRetries
	case retries < 0:
		retries = 0
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  retries + 1,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.InitialDelay <= 0 {
		retryOpts.InitialDelay = 500 * time.Millisecond
	}

	return &Classifier{
		client:           client,
		cache:            newVoteCache(cfg.CacheTTL),
		limiter:          newRateLimiter(cfg.RateLimit),
		logger:           logger,
		fallbackCategory: fallback,
		retryOpts:        retryOpts,
		timeout:          timeout,
	}
}

// FallbackCategory returns the sentinel used for unknown categories.
func (c *Classifier) FallbackCategory() string {
	return c.fallbackCategory
}

// Classify returns a validated vote for evidence. Any failure, including a
// timeout or a panic inside the provider, yields fallback unchanged.
func (c *Classifier) Classify(ctx context.Context, evidence model.RedactedEvidence, allowed []string, fallback model.CategoryVote) (vote model.CategoryVote) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classifier panic recovered", "panic", r)
			vote = fallback
		}
	}()

	v, err := c.vote(ctx, evidence, allowed)
	if err != nil {
		c.logger.Warn("classification unavailable, using defaults",
			"error", err,
			"default_category", fallback.Category)
		return fallback
	}
	return v
}

// vote is the error returning core of Classify.
func (c *Classifier) vote(ctx context.Context, evidence model.RedactedEvidence, allowed []string) (model.CategoryVote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := VoteRequest{
		Evidence:   evidence.Text,
		Categories: c.withFallback(allowed),
	}

	key := cacheKey(req.Evidence, req.Categories)
	if cached, ok := c.cache.get(key); ok {
		c.logger.Debug("classification cache hit")
		return cached, nil
	}

	if err := c.limiter.wait(ctx); err != nil {
		return model.CategoryVote{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, err)
	}

	var raw RawVote
	err := common.WithRetry(ctx, func() error {
		r, voteErr := c.client.Vote(ctx, req)
		if voteErr != nil {
			return voteErr
		}
		raw = r
		return nil
	}, c.retryOpts)
	if err != nil {
		return model.CategoryVote{}, fmt.Errorf("%w: %w", common.ErrClassificationUnavailable, err)
	}

	vote := c.validate(raw, allowed)
	c.cache.set(key, vote)

	c.logger.Debug("bill classified",
		"category", vote.Category,
		"note", vote.Note)

	return vote, nil
}

// validate never trusts the remote category: anything that is not exactly an
// allowed name, including a missing category, becomes the fallback sentinel.
func (c *Classifier) validate(raw RawVote, allowed []string) model.CategoryVote {
	category := raw.Category
	if !contains(allowed, category) {
		c.logger.Info("rewriting category outside whitelist",
			"error", fmt.Errorf("%w: %q", common.ErrInvalidCategory, strings.TrimSpace(raw.Category)),
			"fallback", c.fallbackCategory)
		category = c.fallbackCategory
	}

	return model.CategoryVote{
		Category: category,
		Note:     strings.TrimSpace(raw.Note),
	}
}

func (c *Classifier) withFallback(allowed []string) []string {
	out := make([]string, 0, len(allowed)+1)
	out = append(out, allowed...)
	if !contains(allowed, c.fallbackCategory) {
		out = append(out, c.fallbackCategory)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
