package model

import (
	"fmt"
	"strings"
)

// Direction indicates whether money left or entered the user's wallet.
type Direction string

// Direction constants.
const (
	DirectionExpense Direction = "expense"
	DirectionIncome  Direction = "income"
)

func (d Direction) String() string {
	return string(d)
}

// IsValid reports whether d is one of the known directions.
func (d Direction) IsValid() bool {
	return d == DirectionExpense || d == DirectionIncome
}

// ParseDirection converts a user or storage supplied string into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "out", "支出":
		return DirectionExpense, nil
	case "income", "in", "收入":
		return DirectionIncome, nil
	default:
		return "", fmt.Errorf("unknown direction: %q", s)
	}
}
