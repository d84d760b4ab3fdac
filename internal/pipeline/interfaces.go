package pipeline

import (
	"context"
	"time"

	"github.com/Veraticus/autobill/internal/model"
)

// BillParser turns flattened screen text into a candidate. *parser.Registry
// satisfies it.
type BillParser interface {
	Parse(sourceAppID, text string) (model.CandidateBill, bool)
}

// DedupGuard decides whether a candidate is a replay. *dedup.Guard satisfies it.
type DedupGuard interface {
	Accept(candidate model.CandidateBill, now time.Time) bool
}

// Redactor strips personal data from evidence. *redact.Redactor satisfies it.
type Redactor interface {
	Redact(evidence string) model.RedactedEvidence
}

// VoteClassifier never fails: any problem yields fallback. *llm.Classifier
// satisfies it.
type VoteClassifier interface {
	Classify(ctx context.Context, evidence model.RedactedEvidence, allowed []string, fallback model.CategoryVote) model.CategoryVote
}
