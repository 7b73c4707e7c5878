package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/routes64/pkg/domain"
)

// DefaultPrefix namespaces every key written by Store.
const DefaultPrefix = "routes64:save:"

// Store implements ports.SaveStore using Redis.
// Records are stored as JSON strings; an index set tracks the known slots.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for saves. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for saves.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a store from a redis URL such as redis://localhost:6379/0.
func New(url string, opts ...Option) (*Store, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(options), opts...), nil
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(slot string) string {
	return s.prefix + slot
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the record to Redis.
func (s *Store) Save(ctx context.Context, slot string, record domain.SaveRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal save record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(slot), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the record from Redis.
func (s *Store) Load(ctx context.Context, slot string) (domain.SaveRecord, error) {
	val, err := s.client.Get(ctx, s.key(slot)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.SaveRecord{}, domain.ErrSaveNotFound
		}
		return domain.SaveRecord{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	return domain.DecodeSaveRecord(val)
}

// Exists checks the key without fetching the payload.
func (s *Store) Exists(ctx context.Context, slot string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(slot)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check redis key: %w", err)
	}
	return n > 0, nil
}

// Delete removes the record.
func (s *Store) Delete(ctx context.Context, slot string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(slot))
	pipe.SRem(ctx, s.indexKey(), slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns the slots that still hold a record.
// Slots whose keys expired are pruned from the index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list redis index: %w", err)
	}

	slots := make([]string, 0, len(members))
	var stale []any
	for _, slot := range members {
		ok, err := s.Exists(ctx, slot)
		if err != nil {
			return nil, err
		}
		if ok {
			slots = append(slots, slot)
		} else {
			stale = append(stale, slot)
		}
	}

	if len(stale) > 0 {
		if err := s.client.SRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune redis index: %w", err)
		}
	}
	return slots, nil
}
