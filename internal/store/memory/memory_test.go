package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
	"budgetflow/internal/store"
)

func TestMemoryStoreAddListDelete(t *testing.T) {
	ctx := context.Background()
	s := New(Seed{})

	added, err := s.AddTransaction(ctx, core.Transaction{
		Kind: core.KindExpense, Amount: core.NewMoney(850000), Category: "Food & Drinks",
		OccurredOn: calendar.NewDate(2024, 1, 5),
	})
	if err != nil || added.ID == "" {
		t.Fatalf("unexpected add: %+v err=%v", added, err)
	}
	if _, err := s.AddTransaction(ctx, core.Transaction{Kind: core.KindExpense}); err == nil {
		t.Fatalf("expected validation error")
	}

	jan, err := s.ListTransactions(ctx, calendar.NewDate(2024, 1, 1), calendar.NewDate(2024, 2, 1))
	if err != nil || len(jan) != 1 {
		t.Fatalf("unexpected list: %v err=%v", jan, err)
	}
	feb, _ := s.ListTransactions(ctx, calendar.NewDate(2024, 2, 1), calendar.NewDate(2024, 3, 1))
	if len(feb) != 0 {
		t.Fatalf("expected empty february, got %v", feb)
	}

	if err := s.DeleteTransaction(ctx, added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, added.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	jan, _ = s.ListTransactions(ctx, calendar.NewDate(2024, 1, 1), calendar.NewDate(2024, 2, 1))
	if len(jan) != 0 {
		t.Fatalf("deleted transaction still listed: %v", jan)
	}
}

func TestMemoryStorePlannedAndBudget(t *testing.T) {
	ctx := context.Background()
	s := New(Seed{})

	p, err := s.SavePlanned(ctx, core.PlannedItem{
		Title: "Rent", Amount: core.NewMoney(1200000), Category: "Bills",
		Kind: core.KindExpense, Frequency: core.Monthly, Anchor: 1, ReminderEnabled: true,
	})
	if err != nil || p.ID == "" {
		t.Fatalf("unexpected save: %+v err=%v", p, err)
	}
	p.LastCompletedOn = calendar.NewDate(2024, 1, 1)
	if _, err := s.SavePlanned(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetPlanned(ctx, p.ID)
	if err != nil || !got.LastCompletedOn.Equal(p.LastCompletedOn) {
		t.Fatalf("unexpected get: %+v err=%v", got, err)
	}
	if _, err := s.GetPlanned(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	b, err := s.GetBudget(ctx)
	if err != nil || b != nil {
		t.Fatalf("expected no budget, got %+v err=%v", b, err)
	}
	limits := map[string]core.Money{"Transport": core.NewMoney(300000)}
	if err := s.SaveBudget(ctx, core.BudgetConfig{MonthlyLimit: core.NewMoney(2000000), PerCategoryLimits: limits}); err != nil {
		t.Fatalf("save budget: %v", err)
	}
	limits["Transport"] = core.NewMoney(1)
	b, _ = s.GetBudget(ctx)
	if b == nil || b.PerCategoryLimits["Transport"].Minor != 300000 {
		t.Fatalf("budget not isolated from caller map: %+v", b)
	}
}

func TestMemoryStoreMarkReminded(t *testing.T) {
	ctx := context.Background()
	s := New(Seed{Planned: []core.PlannedItem{{
		ID: "rent", Title: "Rent", Amount: core.NewMoney(1200000), Category: "Bills",
		Kind: core.KindExpense, Frequency: core.Monthly, Anchor: 1, ReminderEnabled: true,
		LastCompletedOn: calendar.NewDate(2023, 12, 1),
	}}})

	paid, err := s.GetPlanned(ctx, "rent")
	if err != nil {
		t.Fatal(err)
	}
	paid.LastCompletedOn = calendar.NewDate(2024, 1, 15)
	if _, err := s.SavePlanned(ctx, paid); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.MarkReminded(ctx, "rent", calendar.NewDate(2024, 1, 15)); err != nil {
		t.Fatalf("MarkReminded() error = %v", err)
	}
	got, _ := s.GetPlanned(ctx, "rent")
	if !got.LastCompletedOn.Equal(calendar.NewDate(2024, 1, 15)) {
		t.Errorf("LastCompletedOn = %s, want 2024-01-15", got.LastCompletedOn)
	}
	if !got.LastRemindedOn.Equal(calendar.NewDate(2024, 1, 15)) {
		t.Errorf("LastRemindedOn = %s, want 2024-01-15", got.LastRemindedOn)
	}
	if err := s.MarkReminded(ctx, "missing", calendar.NewDate(2024, 1, 15)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewFromFilesSeeds(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFromFiles(dir)
	if err != nil {
		t.Fatalf("missing seed: %v", err)
	}
	cats, income, _ := s.ListCategories(context.Background())
	if len(cats) == 0 || len(income) == 0 {
		t.Fatalf("expected default categories when seed missing")
	}

	seed := `{
  "transactions": [
    {"kind": "income", "amount": 3500000, "category": "Salary", "occurred_on": "2024-01-01"},
    {"id": "t2", "kind": "expense", "amount": 850000, "category": "Food", "occurred_on": "2024-01-05"}
  ],
  "planned": [
    {"id": "rent", "title": "Rent", "amount": 1200000, "category": "Bills", "kind": "expense", "frequency": "monthly", "anchor": 1}
  ],
  "budget": {"monthly_limit": 2000000, "savings_target": 1000000},
  "expense_categories": ["Food", "Food", " ", "Bills"]
}`
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(seed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s, err = NewFromFiles(dir)
	if err != nil {
		t.Fatalf("NewFromFiles: %v", err)
	}
	ctx := context.Background()
	txns, _ := s.ListTransactions(ctx, calendar.NewDate(2024, 1, 1), calendar.NewDate(2025, 1, 1))
	if len(txns) != 2 || txns[1].ID != "t2" {
		t.Fatalf("unexpected seeded transactions: %+v", txns)
	}
	cats, _, _ = s.ListCategories(ctx)
	if len(cats) != 2 || cats[0] != "Food" || cats[1] != "Bills" {
		t.Fatalf("unexpected cats: %v", cats)
	}
	if b, _ := s.GetBudget(ctx); b == nil || b.MonthlyLimit.Minor != 2000000 {
		t.Fatalf("unexpected budget: %+v", b)
	}

	bad := `{"planned": [{"title": "x", "amount": 1, "category": "c", "kind": "expense", "frequency": "weekly", "anchor": 9}]}`
	if err := os.WriteFile(filepath.Join(dir, SeedFile), []byte(bad), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	if _, err := NewFromFiles(dir); err == nil {
		t.Fatalf("expected invalid seed error")
	}
}
