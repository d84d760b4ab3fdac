package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/autobill/internal/common"
)

// cleanMarkdownWrapper strips a ```json fence and any prose around the first
// JSON object in content.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```JSON")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	return content
}

// parseVote decodes a {"category": ..., "note": ...} object. Only malformed
// JSON is an error; missing fields are left empty for the classifier to judge.
func parseVote(content string) (RawVote, error) {
	var vote RawVote
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &vote); err != nil {
		return RawVote{}, common.Permanent(fmt.Errorf("failed to parse JSON response: %w", err))
	}
	return vote, nil
}
