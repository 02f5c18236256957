package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"budgetflow/internal/calendar"
	"budgetflow/internal/core"
)

// ReminderMessage announces that a planned item is due soon, due today or
// overdue. It carries enough data for the notifier to render it without a
// database lookup.
type ReminderMessage struct {
	PlannedItemID string               `json:"planned_item_id"`
	Title         string               `json:"title"`
	Kind          core.TransactionKind `json:"kind"`
	Category      string               `json:"category"`
	AmountMinor   int64                `json:"amount_minor"`
	DueOn         calendar.Date        `json:"due_on"`
	Status        core.ScheduleStatus  `json:"status"`
	DaysUntil     int                  `json:"days_until"`
	Timestamp     time.Time            `json:"timestamp"`
}

// NewReminderMessage builds the message for item given its computed state.
func NewReminderMessage(item core.PlannedItem, res core.ScheduleResult, now time.Time) *ReminderMessage {
	return &ReminderMessage{
		PlannedItemID: item.ID,
		Title:         item.Title,
		Kind:          item.Kind,
		Category:      item.Category,
		AmountMinor:   item.Amount.Minor,
		DueOn:         res.NextOccurrence,
		Status:        res.Status,
		DaysUntil:     res.DaysUntil,
		Timestamp:     now,
	}
}

// Text renders a short notification line such as "Rent is due tomorrow".
func (m *ReminderMessage) Text() string {
	switch {
	case m.DaysUntil < -1:
		return fmt.Sprintf("%s is %d days overdue", m.Title, -m.DaysUntil)
	case m.DaysUntil == -1:
		return fmt.Sprintf("%s is 1 day overdue", m.Title)
	case m.DaysUntil == 0:
		return fmt.Sprintf("%s is due today", m.Title)
	case m.DaysUntil == 1:
		return fmt.Sprintf("%s is due tomorrow", m.Title)
	default:
		return fmt.Sprintf("%s is due in %d days (%s)", m.Title, m.DaysUntil, m.DueOn)
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReminderMessageFromJSON decodes a message and rejects one without an item ID.
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.PlannedItemID == "" {
		return nil, fmt.Errorf("reminder message without planned item id")
	}
	return &msg, nil
}
