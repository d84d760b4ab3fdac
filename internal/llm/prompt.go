package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a bookkeeping assistant for a personal finance app. ` +
	`You receive the text of a payment confirmation screen and a list of allowed categories. ` +
	`You MUST respond with ONLY a valid JSON object with exactly two string fields: ` +
	`"category" (one of the allowed categories, verbatim) and "note" (a short, clean description ` +
	`of the merchant or purpose, at most 20 characters, no amounts). ` +
	`Do not include any explanatory text or markdown.`

// buildPrompt renders the user message for chat providers.
func buildPrompt(req VoteRequest) string {
	var b strings.Builder
	b.WriteString("Allowed categories:\n")
	for _, c := range req.Categories {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("\nScreen text:\n")
	b.WriteString(req.Evidence)
	b.WriteString("\n\nRespond with JSON: {\"category\": \"...\", \"note\": \"...\"}")
	return b.String()
}
