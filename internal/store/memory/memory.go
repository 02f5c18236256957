package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
	"budgetflow/internal/store"
)

// SeedFile is the JSON file NewFromFiles reads from the data directory.
const SeedFile = "seed.json"

// Seed is the on-disk shape of SeedFile.
type Seed struct {
	Transactions      []core.Transaction `json:"transactions"`
	Planned           []core.PlannedItem `json:"planned"`
	Budget            *core.BudgetConfig `json:"budget,omitempty"`
	ExpenseCategories []string           `json:"expense_categories,omitempty"`
	IncomeCategories  []string           `json:"income_categories,omitempty"`
}

type Store struct {
	mu      sync.Mutex
	txns    map[string]core.Transaction
	planned map[string]core.PlannedItem
	budget  *core.BudgetConfig
	expCats []string
	incCats []string
}

var _ store.Store = (*Store)(nil)

func New(seed Seed) *Store {
	s := &Store{
		txns:    make(map[string]core.Transaction, len(seed.Transactions)),
		planned: make(map[string]core.PlannedItem, len(seed.Planned)),
		expCats: dedupe(seed.ExpenseCategories),
		incCats: dedupe(seed.IncomeCategories),
	}
	if len(s.expCats) == 0 {
		s.expCats = append([]string(nil), core.DefaultExpenseCategories...)
	}
	if len(s.incCats) == 0 {
		s.incCats = append([]string(nil), core.DefaultIncomeCategories...)
	}
	for _, t := range seed.Transactions {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		s.txns[t.ID] = t
	}
	for _, p := range seed.Planned {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		s.planned[p.ID] = p
	}
	if seed.Budget != nil {
		b := cloneBudget(*seed.Budget)
		s.budget = &b
	}
	return s
}

// NewFromFiles seeds a store from base/seed.json. A missing file yields an
// empty store with the default categories.
func NewFromFiles(base string) (*Store, error) {
	b, err := os.ReadFile(filepath.Join(base, SeedFile))
	if err != nil {
		if os.IsNotExist(err) {
			return New(Seed{}), nil
		}
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(b, &seed); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", SeedFile, err)
	}
	for i, t := range seed.Transactions {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("seed transaction %d: %w", i, err)
		}
	}
	for i, p := range seed.Planned {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed planned item %d: %w", i, err)
		}
	}
	return New(seed), nil
}

func (s *Store) ListTransactions(_ context.Context, from, to calendar.Date) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txns {
		if t.OccurredOn.Before(from) || !t.OccurredOn.Before(to) {
			continue
		}
		out = append(out, cloneTransaction(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].OccurredOn.Compare(out[j].OccurredOn); c != 0 {
			return c < 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// AddTransaction validates and stores t.
func (s *Store) AddTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t = cloneTransaction(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[t.ID] = t
	return cloneTransaction(t), nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[id]; !ok {
		return fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	}
	delete(s.txns, id)
	return nil
}

// ListPlanned returns planned items ordered by title then ID.
func (s *Store) ListPlanned(_ context.Context) ([]core.PlannedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.PlannedItem, 0, len(s.planned))
	for _, p := range s.planned {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetPlanned(_ context.Context, id string) (core.PlannedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.planned[id]
	if !ok {
		return core.PlannedItem{}, fmt.Errorf("planned item %s: %w", id, store.ErrNotFound)
	}
	return p, nil
}

func (s *Store) SavePlanned(_ context.Context, p core.PlannedItem) (core.PlannedItem, error) {
	if err := p.Validate(); err != nil {
		return core.PlannedItem{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planned[p.ID] = p
	return p, nil
}

func (s *Store) MarkReminded(_ context.Context, id string, on calendar.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.planned[id]
	if !ok {
		return fmt.Errorf("planned item %s: %w", id, store.ErrNotFound)
	}
	p.LastRemindedOn = on
	s.planned[id] = p
	return nil
}

func (s *Store) DeletePlanned(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.planned[id]; !ok {
		return fmt.Errorf("planned item %s: %w", id, store.ErrNotFound)
	}
	delete(s.planned, id)
	return nil
}

func (s *Store) GetBudget(_ context.Context) (*core.BudgetConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.budget == nil {
		return nil, nil
	}
	b := cloneBudget(*s.budget)
	return &b, nil
}

func (s *Store) SaveBudget(_ context.Context, b core.BudgetConfig) error {
	b = cloneBudget(b)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = &b
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]string, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.expCats...), append([]string(nil), s.incCats...), nil
}

func cloneTransaction(t core.Transaction) core.Transaction {
	if t.Debt != nil {
		d := *t.Debt
		t.Debt = &d
	}
	return t
}

func cloneBudget(b core.BudgetConfig) core.BudgetConfig {
	if b.PerCategoryLimits != nil {
		limits := make(map[string]core.Money, len(b.PerCategoryLimits))
		for k, v := range b.PerCategoryLimits {
			limits[k] = v
		}
		b.PerCategoryLimits = limits
	}
	return b
}

func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
