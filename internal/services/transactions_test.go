package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgetflow/internal/core"
	"budgetflow/internal/store"
)

func TestTransactionAdd(t *testing.T) {
	st := newTestStore()
	rev := &Revision{}
	svc := NewTransactionService(st, rev, quietLogger())
	ctx := context.Background()

	saved, err := svc.Add(ctx, core.Transaction{
		Kind: core.KindIncome, Amount: core.NewMoney(500000), Category: " Freelance ",
		OccurredOn: d(2024, time.January, 12), Notes: " logo design ",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Freelance", saved.Category)
	assert.Equal(t, "logo design", saved.Notes)
	assert.Equal(t, uint64(1), rev.Current())

	txns, err := st.ListTransactions(ctx, d(2024, time.January, 12), d(2024, time.January, 13))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, saved.ID, txns[0].ID)
}

func TestTransactionAddValidation(t *testing.T) {
	rev := &Revision{}
	svc := NewTransactionService(newTestStore(), rev, quietLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		tx   core.Transaction
		want error
	}{
		{"zero amount", core.Transaction{Kind: core.KindExpense, Category: "Food & Drinks", OccurredOn: d(2024, 1, 1)}, core.ErrInvalidAmount},
		{"blank category", core.Transaction{Kind: core.KindExpense, Amount: core.NewMoney(1), Category: "  ", OccurredOn: d(2024, 1, 1)}, core.ErrEmptyCategory},
		{"no date", core.Transaction{Kind: core.KindExpense, Amount: core.NewMoney(1), Category: "Food & Drinks"}, core.ErrZeroDate},
		{"unknown kind", core.Transaction{Kind: "gift", Amount: core.NewMoney(1), Category: "Other", OccurredOn: d(2024, 1, 1)}, core.ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.tx)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, uint64(0), rev.Current())
}

func TestTransactionDelete(t *testing.T) {
	st := newTestStore()
	rev := &Revision{}
	svc := NewTransactionService(st, rev, quietLogger())
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "food-jan"))
	assert.Equal(t, uint64(1), rev.Current())

	txns, err := st.ListTransactions(ctx, d(2024, time.January, 1), d(2024, time.February, 1))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "salary", txns[0].ID)

	assert.ErrorIs(t, svc.Delete(ctx, "food-jan"), store.ErrNotFound)
	assert.Error(t, svc.Delete(ctx, " "))
	assert.Equal(t, uint64(1), rev.Current())
}
