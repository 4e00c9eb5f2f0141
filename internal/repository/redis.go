package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eaglebank/statement-service/internal/models"
	redisclient "github.com/eaglebank/statement-service/internal/redis"
)

const (
	redisBackend         = "redis"
	transactionKeyPrefix = "transaction:"
)

// RedisStore keeps every transaction as a JSON value under
// transaction:<uuid>.
type RedisStore struct {
	opts    redisclient.Options
	client  *redisclient.Client
	records *redisclient.Store[models.Transaction]
}

func NewRedisStore(opts redisclient.Options) *RedisStore {
	return &RedisStore{opts: opts}
}

func (s *RedisStore) Connected() bool {
	return s.client != nil
}

func (s *RedisStore) Connect(ctx context.Context) error {
	if s.client != nil {
		return nil
	}

	client, err := redisclient.NewClient(s.opts)
	if err != nil {
		return newError(redisBackend, KindClient, err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return newError(redisBackend, KindConnection, err)
	}

	s.client = client
	s.records = redisclient.NewStore[models.Transaction](client.Client, transactionKeyPrefix)
	return nil
}

func (s *RedisStore) Disconnect(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	client := s.client
	s.client = nil
	s.records = nil
	if err := client.Close(); err != nil {
		return newError(redisBackend, KindConnection, err)
	}
	return nil
}

func (s *RedisStore) Create(ctx context.Context, tx models.CreateTransaction) (string, error) {
	if err := s.Connect(ctx); err != nil {
		return "", err
	}

	record := tx.ToTransaction(newRecordID(), time.Now().UTC())
	if err := s.records.Set(ctx, record.ID, &record); err != nil {
		return "", redisError(KindSave, err)
	}
	return record.ID, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	if !validRecordID(id) {
		return nil, newError(redisBackend, KindInvalidID, fmt.Errorf("invalid transaction id %q", id))
	}
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	tx, err := s.records.Get(ctx, id)
	if err != nil {
		return nil, redisError(KindGet, err)
	}
	return tx, nil
}

// GetAll lists every key and then fetches the records one by one.
func (s *RedisStore) GetAll(ctx context.Context) ([]models.Transaction, error) {
	if err := s.Connect(ctx); err != nil {
		return nil, err
	}

	ids, err := s.records.IDs(ctx)
	if err != nil {
		return nil, redisError(KindGet, err)
	}

	transactions := make([]models.Transaction, 0, len(ids))
	for _, id := range ids {
		tx, err := s.records.Get(ctx, id)
		if err != nil {
			return nil, redisError(KindGet, err)
		}
		// deleted between KEYS and GET
		if tx == nil {
			continue
		}
		transactions = append(transactions, *tx)
	}
	return transactions, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if !validRecordID(id) {
		return newError(redisBackend, KindInvalidID, fmt.Errorf("invalid transaction id %q", id))
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return redisError(KindDelete, err)
	}
	return nil
}

// redisError translates a store failure, keeping value-level problems apart
// from command failures of the given kind.
func redisError(kind Kind, err error) *DatabaseError {
	var valueErr *redisclient.ValueError
	if errors.As(err, &valueErr) {
		switch valueErr.Kind {
		case redisclient.ValueUnknown:
			kind = KindUnknownValue
		case redisclient.ValueNotText:
			kind = KindStringConversion
		case redisclient.ValueNotJSON:
			kind = KindSerialization
		}
	}
	return newError(redisBackend, kind, err)
}

var _ Backend = (*RedisStore)(nil)
