package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gymops/gymauth"
)

// DefaultRedisPrefix namespaces account keys in the Redis keyspace.
const DefaultRedisPrefix = "gymauth:acct:"

// RedisAccounts is a Redis-backed AccountStore. Rows are JSON-encoded
// under prefix+kind+":"+username. Update is a plain overwrite — it
// inherits the engine's documented read-modify-write race on the failure
// counter rather than hiding it behind a transaction.
type RedisAccounts struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisAccounts(client redis.UniversalClient, prefix string) *RedisAccounts {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisAccounts{client: client, prefix: prefix}
}

func (s *RedisAccounts) key(kind gymauth.AccountKind, username string) string {
	return s.prefix + string(kind) + ":" + username
}

func (s *RedisAccounts) FindByUsername(ctx context.Context, kind gymauth.AccountKind, username string) (*gymauth.Account, error) {
	data, err := s.client.Get(ctx, s.key(kind, username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, gymauth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("account lookup: %w", err)
	}

	var acct gymauth.Account
	if err := json.Unmarshal(data, &acct); err != nil {
		return nil, fmt.Errorf("account decode: %w", err)
	}
	return &acct, nil
}

func (s *RedisAccounts) Create(ctx context.Context, account *gymauth.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("account encode: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(account.Kind, account.Username), data, 0).Result()
	if err != nil {
		return fmt.Errorf("account create: %w", err)
	}
	if !ok {
		return gymauth.ErrAccountExists
	}
	return nil
}

func (s *RedisAccounts) Update(ctx context.Context, account *gymauth.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("account encode: %w", err)
	}

	key := s.key(account.Kind, account.Username)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("account update: %w", err)
	}
	if exists == 0 {
		return gymauth.ErrAccountNotFound
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("account update: %w", err)
	}
	return nil
}
