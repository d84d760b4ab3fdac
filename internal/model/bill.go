package model

import (
	"crypto/sha256"
	"fmt"

	"github.com/shopspring/decimal"
)

// Fingerprint is the dedup key of a candidate bill.
type Fingerprint string

// CandidateBill is an unvalidated transaction guess extracted from screen text.
type CandidateBill struct {
	Amount       decimal.Decimal
	Direction    Direction
	EvidenceText string
	SourceAppID  string
	Scene        string // parser scene that matched, for diagnostics
}

// Fingerprint derives the dedup key from amount, direction and source app.
func (c CandidateBill) Fingerprint() Fingerprint {
	data := fmt.Sprintf("%s:%s:%s", c.Amount.StringFixed(2), c.Direction, c.SourceAppID)
	hash := sha256.Sum256([]byte(data))
	return Fingerprint(fmt.Sprintf("%x", hash))
}

// RedactedEvidence is the privacy safe excerpt that may leave the device.
type RedactedEvidence struct {
	Text string
}

// MaxEvidenceRunes bounds the length of RedactedEvidence.Text.
const MaxEvidenceRunes = 150
