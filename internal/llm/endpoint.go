package llm

import (
	"context"
	"fmt"
	"net/http"
)

// endpointClient talks to a bespoke HTTPS service that accepts VoteRequest
// JSON and answers with {"category": ..., "note": ...}.
type endpointClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

func newEndpointClient(cfg Config) (Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("classification endpoint URL is required")
	}

	return &endpointClient{
		url:        cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: newHTTPClient(cfg.Timeout),
	}, nil
}

// Vote implements Client.
func (c *endpointClient) Vote(ctx context.Context, req VoteRequest) (RawVote, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	body, err := postJSON(ctx, c.httpClient, c.url, headers, req)
	if err != nil {
		return RawVote{}, err
	}

	return parseVote(string(body))
}
