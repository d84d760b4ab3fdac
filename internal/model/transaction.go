package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OriginAuto marks transactions produced by automatic bill recognition.
const OriginAuto = "AUTO"

// FinalizedTransaction is the only record handed to persistence. It is never
// mutated after creation.
type FinalizedTransaction struct {
	Timestamp    time.Time
	ID           string
	Category     string
	Icon         string
	Note         string
	OriginSource string
	SourceAppID  string
	Direction    Direction
	Amount       decimal.Decimal
}

// Notification returns the user facing summary of the transaction.
func (t FinalizedTransaction) Notification() Notification {
	return Notification{
		Amount:    t.Amount,
		Category:  t.Category,
		Note:      t.Note,
		Direction: t.Direction,
	}
}
