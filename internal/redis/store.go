package redis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

// ValueErrorKind tells why a stored value could not be turned back into T.
type ValueErrorKind int

const (
	// ValueUnknown means Redis replied with something other than a bulk string.
	ValueUnknown ValueErrorKind = iota + 1
	// ValueNotText means the payload is not valid UTF-8.
	ValueNotText
	// ValueNotJSON means the payload could not be encoded or decoded.
	ValueNotJSON
)

type ValueError struct {
	Key  string
	Kind ValueErrorKind
	Err  error
}

func (e *ValueError) Error() string {
	switch e.Kind {
	case ValueUnknown:
		return fmt.Sprintf("unknown value returned from redis for key %s", e.Key)
	case ValueNotText:
		return fmt.Sprintf("value for key %s is not valid utf-8", e.Key)
	default:
		return fmt.Sprintf("value for key %s is not valid json: %v", e.Key, e.Err)
	}
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Store is a JSON-backed Redis store for records of type T. Every record lives
// under prefix+id; the store holds no other state than the client.
type Store[T any] struct {
	client *goredis.Client
	prefix string
}

func NewStore[T any](client *goredis.Client, prefix string) *Store[T] {
	return &Store[T]{client: client, prefix: prefix}
}

func (s *Store[T]) Key(id string) string {
	return s.prefix + id
}

// Get returns (nil, nil) when the key does not exist.
func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	key := s.Key(id)
	reply, err := s.client.Do(ctx, "GET", key).Result()
	if err == goredis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var data []byte
	switch v := reply.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, &ValueError{Key: key, Kind: ValueUnknown}
	}
	if !utf8.Valid(data) {
		return nil, &ValueError{Key: key, Kind: ValueNotText}
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, &ValueError{Key: key, Kind: ValueNotJSON, Err: err}
	}
	return &value, nil
}

func (s *Store[T]) Set(ctx context.Context, id string, value *T) error {
	key := s.Key(id)
	data, err := json.Marshal(value)
	if err != nil {
		return &ValueError{Key: key, Kind: ValueNotJSON, Err: err}
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	key := s.Key(id)
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// IDs lists the ids of every stored record with a single KEYS call. It walks
// the whole keyspace, so it is only suitable for small stores.
func (s *Store[T]) IDs(ctx context.Context) ([]string, error) {
	keys, err := s.client.Keys(ctx, s.prefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		ids = append(ids, strings.TrimPrefix(key, s.prefix))
	}
	return ids, nil
}
