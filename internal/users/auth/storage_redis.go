// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// RedisStorage implements [Storage] on Redis under a key prefix.
type RedisStorage struct {
	client *redis.Client
	prefix string
}

// NewRedisStorage creates a new Redis-backed [Storage].
//
// # Parameters
//   - client: Connected client (see platform/redis).
//   - prefix: Namespace for the session keys, e.g. "dizesi:session:".
func NewRedisStorage(client *redis.Client, prefix string) *RedisStorage {
	return &RedisStorage{client: client, prefix: prefix}
}

/*
Get reads one session key.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - string: Stored value
  - bool: false when the key is absent
  - error: Connectivity errors
*/
func (storage *RedisStorage) Get(context context.Context, key string) (string, bool, error) {
	value, err := storage.client.Get(context, storage.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return value, true, nil
}

/*
SetAll writes every pair inside one MULTI/EXEC transaction.

Parameters:
  - context: context.Context
  - values: map[string]string

Returns:
  - error: Execution errors
*/
func (storage *RedisStorage) SetAll(context context.Context, values map[string]string) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	_, err := storage.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Set(context, storage.prefix+key, values[key], 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
DeleteAll removes every listed key with a single DEL.

Parameters:
  - context: context.Context
  - keys: ...string

Returns:
  - error: Execution errors
*/
func (storage *RedisStorage) DeleteAll(context context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = storage.prefix + key
	}

	if err := storage.client.Del(context, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
