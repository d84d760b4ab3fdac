package llm

import (
	"context"
	"time"
)

// Client defines the interface for classification providers.
type Client interface {
	Vote(ctx context.Context, req VoteRequest) (RawVote, error)
}

// VoteRequest is what leaves the device: redacted evidence and the category set.
type VoteRequest struct {
	Evidence   string   `json:"redactedEvidence"`
	Categories []string `json:"allowedCategories"`
}

// RawVote is the provider's unvalidated reply.
type RawVote struct {
	Category string `json:"category"`
	Note     string `json:"note"`
}

// Config holds configuration for the classifier and its provider.
type Config struct {
	Provider         string
	Endpoint         string // endpoint provider URL
	BaseURL          string // overrides the chat provider API root
	APIKey           string
	Model            string
	FallbackCategory string
	Timeout          time.Duration
	RetryDelay       time.Duration
	CacheTTL         time.Duration
	Temperature      float64
	MaxTokens        int
	MaxRetries       int
	RateLimit        int
}

// Defaults applied by NewClassifier and the providers.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultTemperature      = 0.1
	DefaultMaxTokens        = 200
	DefaultMaxRetries       = 2
	DefaultFallbackCategory = "其他"
)
