package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/autobill/internal/common"
)

func TestAnthropicClient_Vote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		_, _ = w.Write([]byte(`{"id":"msg_1","content":[{"type":"text","text":"Here you go: {\"category\":\"红包\",\"note\":\"朋友红包\"}"}]}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	got, err := client.Vote(context.Background(), VoteRequest{Evidence: "收到***的红包 ¥6.66", Categories: []string{"红包"}})
	require.NoError(t, err)
	assert.Equal(t, RawVote{Category: "红包", Note: "朋友红包"}, got)
}

func TestAnthropicClient_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"msg_1","content":[]}`))
	}))
	defer server.Close()

	client, err := newAnthropicClient(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Vote(context.Background(), VoteRequest{})
	require.Error(t, err)
	assert.False(t, common.IsRetryable(err))
}

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "Sure! {\"a\":1} Hope this helps.", want: `{"a":1}`},
		{in: "no json here", want: "no json here"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.in))
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(VoteRequest{Evidence: "支付成功 ¥20.00", Categories: []string{"餐饮", "其他"}})
	assert.Contains(t, prompt, "- 餐饮\n- 其他\n")
	assert.Contains(t, prompt, "支付成功 ¥20.00")
}
