// Package model defines the core domain models used throughout the application.
package model

import "github.com/shopspring/decimal"

// CategoryVote is the classification service's suggestion after local validation.
type CategoryVote struct {
	Category string `json:"category"`
	Note     string `json:"note"`
}

// Notification is what the user is told after a bill was recorded.
type Notification struct {
	Amount    decimal.Decimal
	Category  string
	Note      string
	Direction Direction
}
