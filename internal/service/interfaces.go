// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/autobill/internal/model"
)

// CategoryLookup exposes the live category whitelist. Callers must not cache
// the result across pipeline passes.
type CategoryLookup interface {
	Categories(ctx context.Context) ([]model.Category, error)
}

// TransactionSink persists finalized transactions. Append is treated as an
// idempotent external append; duplicate prevention happens upstream.
type TransactionSink interface {
	Append(ctx context.Context, txn model.FinalizedTransaction) error
}

// Notifier tells the user about a recorded bill. Best effort.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// CategoryNames returns the active category names in lookup order.
func CategoryNames(categories []model.Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if !c.IsActive {
			continue
		}
		names = append(names, c.Name)
	}
	return names
}

// IconFor returns the icon configured for name, or "" when unknown.
func IconFor(categories []model.Category, name string) string {
	for _, c := range categories {
		if c.Name == name {
			return c.Icon
		}
	}
	return ""
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
