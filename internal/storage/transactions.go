package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/autobill/internal/model"
)

// Append records a finalized transaction. Re-appending the same ID is a
// no-op, which makes redelivery from an at-least-once caller harmless.
func (s *SQLiteStore) Append(ctx context.Context, txn model.FinalizedTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	query := `
		INSERT OR IGNORE INTO transactions (
			id, amount, direction, category, icon, note,
			origin_source, source_app_id, occurred_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		txn.ID,
		txn.Amount.StringFixed(2),
		string(txn.Direction),
		txn.Category,
		txn.Icon,
		txn.Note,
		txn.OriginSource,
		txn.SourceAppID,
		txn.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		slog.Debug("transaction already recorded", "id", txn.ID)
	}
	return nil
}

// RecentTransactions returns up to limit transactions, newest first.
func (s *SQLiteStore) RecentTransactions(ctx context.Context, limit int) ([]model.FinalizedTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, amount, direction, category, icon, note,
		       origin_source, source_app_id, occurred_at
		FROM transactions
		ORDER BY occurred_at DESC, id DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.FinalizedTransaction
	for rows.Next() {
		var txn model.FinalizedTransaction
		var amount, direction string
		if err := rows.Scan(
			&txn.ID, &amount, &direction, &txn.Category, &txn.Icon, &txn.Note,
			&txn.OriginSource, &txn.SourceAppID, &txn.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s has invalid amount %q: %w", txn.ID, amount, err)
		}
		txn.Direction = model.Direction(direction)
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// CountTransactions returns the number of recorded transactions.
func (s *SQLiteStore) CountTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}
