// Package redact masks personal data in bill evidence before it is sent to
// the classification service.
package redact

import (
	"regexp"
	"strings"

	"github.com/Veraticus/autobill/internal/model"
)

// Masks used in redacted output.
const (
	PhoneMask        = "***********"
	CounterpartyMask = "***"
)

const (
	windowThreshold = 200
	windowSize      = 100
)

var (
	// Mainland mobile numbers. Digits next to the match are not inspected,
	// so numbers embedded in longer digit runs are masked too.
	phonePattern = regexp.MustCompile(`1[3-9]\d{9}`)

	outgoingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(转账给|转给)[^\s¥￥]{1,20}?(的?(?:转账|红包))`),
		regexp.MustCompile(`(?i)(transfer to )\S[^¥￥]{0,30}?( (?:transfer|red packet))`),
	}
	incomingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(收到)[^\s¥￥]{1,20}?(的(?:转账|红包))`),
		regexp.MustCompile(`(?i)(received )\S[^¥￥]{0,30}?('s (?:transfer|red packet))`),
	}

	currencyMarkers = []rune{'¥', '￥'}
)

// Redactor turns evidence text into a bounded, privacy safe excerpt.
type Redactor struct{}

// New creates a Redactor.
func New() *Redactor {
	return &Redactor{}
}

// Redact masks phone numbers and transfer counterparties, then bounds the
// text to model.MaxEvidenceRunes runes. Steps only replace substrings or cut
// the text; nothing is reordered.
func (r *Redactor) Redact(evidence string) model.RedactedEvidence {
	text := phonePattern.ReplaceAllString(evidence, PhoneMask)

	for _, re := range outgoingPatterns {
		text = re.ReplaceAllString(text, "${1}"+CounterpartyMask+"${2}")
	}
	for _, re := range incomingPatterns {
		text = re.ReplaceAllString(text, "${1}"+CounterpartyMask+"${2}")
	}

	runes := []rune(text)
	if len(runes) > windowThreshold {
		if idx := firstCurrencyMarker(runes); idx >= 0 {
			runes = centeredWindow(runes, idx, windowSize)
		}
	}

	if len(runes) > model.MaxEvidenceRunes {
		runes = runes[:model.MaxEvidenceRunes]
	}

	return model.RedactedEvidence{Text: strings.TrimSpace(string(runes))}
}

func firstCurrencyMarker(runes []rune) int {
	for i, r := range runes {
		for _, m := range currencyMarkers {
			if r == m {
				return i
			}
		}
	}
	return -1
}

// centeredWindow returns up to size runes around idx, shifted inward when idx
// is close to either end.
func centeredWindow(runes []rune, idx, size int) []rune {
	start := idx - size/2
	if start < 0 {
		start = 0
	}
	end := start + size
	if end > len(runes) {
		end = len(runes)
		start = end - size
		if start < 0 {
			start = 0
		}
	}
	return runes[start:end]
}
