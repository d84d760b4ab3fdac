// Package llm asks a remote text classification service to categorize bill
// evidence. Providers speak a plain JSON endpoint, the OpenAI chat API or the
// Anthropic messages API. The Classifier wraps any provider with timeouts,
// retries, rate limiting, caching and whitelist validation, and never
// returns an error: failures collapse to the caller's fallback vote.
package llm
