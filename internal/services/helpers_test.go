package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"budgetflow/internal/amqp"
	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
	"budgetflow/internal/log"
	"budgetflow/internal/store"
	"budgetflow/internal/store/memory"
)

// 2024-01-15 is a Monday.
var testNow = time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)

func d(y int, m time.Month, day int) calendar.Date { return calendar.NewDate(y, m, day) }

func quietLogger() *log.Logger {
	return log.New(log.Config{Output: io.Discard})
}

func testSeed() memory.Seed {
	return memory.Seed{
		Transactions: []core.Transaction{
			{ID: "salary", Kind: core.KindIncome, Amount: core.NewMoney(3500000), Category: "Salary", OccurredOn: d(2024, time.January, 5)},
			{ID: "food-jan", Kind: core.KindExpense, Amount: core.NewMoney(2250000), Category: "Food & Drinks", OccurredOn: d(2024, time.January, 10)},
			{ID: "food-dec", Kind: core.KindExpense, Amount: core.NewMoney(1500000), Category: "Food & Drinks", OccurredOn: d(2023, time.December, 20)},
		},
		Planned: []core.PlannedItem{
			{
				ID: "rent", Title: "Rent", Amount: core.NewMoney(1200000), Category: "Bills",
				Kind: core.KindExpense, Frequency: core.Monthly, Anchor: 1,
				ReminderEnabled: true, LastCompletedOn: d(2023, time.December, 1),
			},
			{
				ID: "gym", Title: "Gym", Amount: core.NewMoney(150000), Category: "Healthcare",
				Kind: core.KindExpense, Frequency: core.Weekly, Anchor: 1,
			},
		},
	}
}

func newTestStore() *memory.Store {
	return memory.New(testSeed())
}

type failingStore struct {
	store.Store
	err error
}

func (f failingStore) ListTransactions(context.Context, calendar.Date, calendar.Date) ([]core.Transaction, error) {
	return nil, f.err
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*amqp.ReminderMessage
	err  error
	sent chan struct{}
}

func (p *recordingPublisher) PublishReminder(_ context.Context, msg *amqp.ReminderMessage) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	p.msgs = append(p.msgs, msg)
	p.mu.Unlock()
	if p.sent != nil {
		select {
		case p.sent <- struct{}{}:
		default:
		}
	}
	return nil
}

func (p *recordingPublisher) messages() []*amqp.ReminderMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*amqp.ReminderMessage(nil), p.msgs...)
}

var errBroker = errors.New("broker unavailable")

func newStoreFromSeed(seed memory.Seed) *memory.Store {
	return memory.New(seed)
}
