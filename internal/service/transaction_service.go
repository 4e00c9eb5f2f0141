// Package service is the single entry point transports use to reach storage.
package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eaglebank/statement-service/internal/models"
	"github.com/eaglebank/statement-service/internal/repository"
)

// TransactionService owns one backend for its whole lifetime. Reads share the
// lock; writes, connects and Close hold it exclusively for the full backend
// round trip.
type TransactionService struct {
	mu      sync.RWMutex
	backend repository.Backend
	log     zerolog.Logger
}

func NewTransactionService(backend repository.Backend, log zerolog.Logger) *TransactionService {
	return &TransactionService{
		backend: backend,
		log:     log.With().Str("component", "transaction_service").Logger(),
	}
}

func (s *TransactionService) CreateTransaction(ctx context.Context, tx models.CreateTransaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logLazyConnect()
	id, err := s.backend.Create(ctx, tx)
	if err != nil {
		s.log.Error().Err(err).Str("account_type", tx.AccountType).Msg("Failed to create transaction")
		return "", fromDatabaseError(KindSave, err)
	}
	return id, nil
}

// FindTransaction returns (nil, nil) when id is well formed but unknown.
func (s *TransactionService) FindTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var tx *models.Transaction
	err := s.read(ctx, func() error {
		var err error
		tx, err = s.backend.Get(ctx, id)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to find transaction")
		return nil, fromDatabaseError(KindFind, err)
	}
	return tx, nil
}

func (s *TransactionService) FindTransactions(ctx context.Context) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.read(ctx, func() error {
		var err error
		transactions, err = s.backend.GetAll(ctx)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list transactions")
		return nil, fromDatabaseError(KindFind, err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return transactions, nil
}

func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logLazyConnect()
	if err := s.backend.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("transaction_id", id).Msg("Failed to delete transaction")
		return fromDatabaseError(KindDelete, err)
	}
	return nil
}

// Close disconnects the backend. The service reconnects on the next call.
func (s *TransactionService) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Disconnect(ctx); err != nil {
		return fromDatabaseError(KindClose, err)
	}
	return nil
}

// read runs fn under the read lock, and only once the backend is connected in
// that same critical section. A disconnected backend is connected under the
// write lock first; Close may win the race in between, hence the loop.
func (s *TransactionService) read(ctx context.Context, fn func() error) error {
	for {
		s.mu.RLock()
		if s.backend.Connected() {
			err := fn()
			s.mu.RUnlock()
			return err
		}
		s.mu.RUnlock()

		if err := s.connect(ctx); err != nil {
			return err
		}
	}
}

func (s *TransactionService) connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend.Connected() {
		return nil
	}
	s.log.Info().Msg("Backend not connected, connecting")
	return s.backend.Connect(ctx)
}

// logLazyConnect must be called with the write lock held.
func (s *TransactionService) logLazyConnect() {
	if !s.backend.Connected() {
		s.log.Info().Msg("Backend not connected, connecting")
	}
}
