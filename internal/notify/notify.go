// Package notify tells the user about recorded bills. Every notifier is best
// effort: the pipeline logs failures and moves on.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/autobill/internal/model"
	"github.com/Veraticus/autobill/internal/service"
)

// LogNotifier writes notifications to a structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier; a nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify implements service.Notifier.
func (n *LogNotifier) Notify(ctx context.Context, note model.Notification) error {
	n.logger.InfoContext(ctx, Title(note),
		"category", note.Category,
		"note", note.Note)
	return nil
}

// Title renders the one line summary shown to the user, e.g. "支出 ¥20.00".
func Title(note model.Notification) string {
	label := "支出"
	if note.Direction == model.DirectionIncome {
		label = "收入"
	}
	return fmt.Sprintf("%s ¥%s", label, note.Amount.StringFixed(2))
}

// Multi fans a notification out to several notifiers. All of them are tried;
// their errors are joined.
type Multi []service.Notifier

// Notify implements service.Notifier.
func (m Multi) Notify(ctx context.Context, note model.Notification) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
