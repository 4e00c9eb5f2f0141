package events

import "time"

// Event types
const (
	TransactionCreated = "transaction.created"
	TransactionDeleted = "transaction.deleted"
	StatementIngested  = "statement.ingested"
)

// Stream names
const (
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type TransactionCreatedEvent struct {
	TransactionID string  `json:"transactionId"`
	AccountType   string  `json:"accountType"`
	Amount        float64 `json:"amount"`
}

type TransactionDeletedEvent struct {
	TransactionID string `json:"transactionId"`
}

type StatementIngestedEvent struct {
	Institution    string   `json:"institution"`
	TransactionIDs []string `json:"transactionIds"`
	Failed         bool     `json:"failed"`
}
