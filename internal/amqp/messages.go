package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// LedgerEventMessage announces a ledger mutation to external automation.
// It carries only the transaction id and the action; a consumer that needs
// the full row fetches it from the database.
type LedgerEventMessage struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionCreatedMessage builds the event for a newly inserted transaction.
func NewTransactionCreatedMessage(id int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		ID:        id,
		Action:    ActionCreated,
		Timestamp: time.Now(),
	}
}

// NewTransactionDeletedMessage builds the event for a deleted transaction.
func NewTransactionDeletedMessage(id int64) *LedgerEventMessage {
	return &LedgerEventMessage{
		ID:        id,
		Action:    ActionDeleted,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
