package model

import "time"

// CategoryType indicates whether a category is for income or expense.
type CategoryType string

const (
	// CategoryTypeIncome represents categories for income transactions.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense represents categories for expense transactions.
	CategoryTypeExpense CategoryType = "expense"
)

// Category is an entry of the user's category whitelist.
type Category struct {
	CreatedAt time.Time
	Name      string
	Icon      string
	Type      CategoryType
	ID        int
	IsActive  bool
}
