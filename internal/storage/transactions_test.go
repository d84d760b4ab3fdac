package storage

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/autobill/internal/model"
)

func testTransaction(id string, at time.Time) model.FinalizedTransaction {
	return model.FinalizedTransaction{
		ID:           id,
		Amount:       decimal.RequireFromString("20.00"),
		Direction:    model.DirectionExpense,
		Category:     "餐饮",
		Icon:         "🍜",
		Note:         "瑞幸咖啡",
		Timestamp:    at,
		OriginSource: model.OriginAuto,
		SourceAppID:  "com.tencent.mm",
	}
}

func TestAppendAndRecent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, testTransaction("01A", base)))
	later := testTransaction("01B", base.Add(time.Hour))
	later.Amount = decimal.RequireFromString("50.5")
	later.Direction = model.DirectionIncome
	require.NoError(t, store.Append(ctx, later))

	txns, err := store.RecentTransactions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "01B", txns[0].ID)
	assert.Equal(t, "50.50", txns[0].Amount.StringFixed(2))
	assert.Equal(t, model.DirectionIncome, txns[0].Direction)
	assert.True(t, base.Add(time.Hour).Equal(txns[0].Timestamp))

	assert.Equal(t, "01A", txns[1].ID)
	assert.Equal(t, "瑞幸咖啡", txns[1].Note)
	assert.Equal(t, "🍜", txns[1].Icon)
	assert.Equal(t, model.OriginAuto, txns[1].OriginSource)

	limited, err := store.RecentTransactions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAppend_Idempotent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	txn := testTransaction("01A", time.Now())

	require.NoError(t, store.Append(ctx, txn))
	require.NoError(t, store.Append(ctx, txn))

	n, err := store.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAppend_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name   string
		mutate func(*model.FinalizedTransaction)
	}{
		{name: "missing id", mutate: func(t *model.FinalizedTransaction) { t.ID = "" }},
		{name: "zero amount", mutate: func(t *model.FinalizedTransaction) { t.Amount = decimal.Zero }},
		{name: "negative amount", mutate: func(t *model.FinalizedTransaction) { t.Amount = decimal.NewFromInt(-1) }},
		{name: "bad direction", mutate: func(t *model.FinalizedTransaction) { t.Direction = "sideways" }},
		{name: "missing category", mutate: func(t *model.FinalizedTransaction) { t.Category = " " }},
		{name: "missing timestamp", mutate: func(t *model.FinalizedTransaction) { t.Timestamp = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := testTransaction("01A", now)
			tt.mutate(&txn)
			err := store.Append(ctx, txn)
			assert.ErrorIs(t, err, ErrInvalidTransaction)
		})
	}

	n, err := store.CountTransactions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
