package models

import (
	"fmt"
	"time"
)

// CreateTransaction is a transaction that has not been persisted yet. It has no
// identity; a backend assigns one when the record is created.
type CreateTransaction struct {
	AccountType string    `json:"account_type" validate:"required"`
	PaymentDate time.Time `json:"payment_date" validate:"required"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
}

// Transaction is a persisted transaction. ID is assigned once by the backend
// and never changes.
type Transaction struct {
	ID          string    `json:"id"`
	AccountType string    `json:"account_type"`
	PaymentDate time.Time `json:"payment_date"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToTransaction augments c with an id and persistence timestamps.
func (c CreateTransaction) ToTransaction(id string, now time.Time) Transaction {
	return Transaction{
		ID:          id,
		AccountType: c.AccountType,
		PaymentDate: c.PaymentDate,
		Amount:      c.Amount,
		Description: c.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (c CreateTransaction) String() string {
	return fmt.Sprintf("account_type: %s, date: %s, amount: %g",
		c.AccountType, c.PaymentDate.Format(time.RFC3339), c.Amount)
}

func (t Transaction) String() string {
	return fmt.Sprintf("Id: %s\nType: %s\nDate: %s\nAmount: %g\nDescription: %s",
		t.ID, t.AccountType, t.PaymentDate.Format(time.RFC3339), t.Amount, t.Description)
}
