package repository

import (
	"context"

	"github.com/eaglebank/statement-service/internal/models"
)

// Lifecycle manages the underlying resource of a backend. Both calls are
// idempotent.
type Lifecycle interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Connected() bool
}

// Writer defines the state-mutating operations of a backend.
type Writer interface {
	Create(ctx context.Context, tx models.CreateTransaction) (string, error)
	Delete(ctx context.Context, id string) error
}

// Reader defines the read operations of a backend. Get returns (nil, nil) when
// no record exists for a well-formed id.
type Reader interface {
	Get(ctx context.Context, id string) (*models.Transaction, error)
	GetAll(ctx context.Context) ([]models.Transaction, error)
}

// Backend is a storage implementation usable by the transaction service.
// Writer and Reader calls made while disconnected connect first.
type Backend interface {
	Lifecycle
	Writer
	Reader
}
