// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the shared session backend.

With SESSION_BACKEND=redis, several client processes on one machine (or a
small fleet of CLI runners) share one signed-in identity: the token and the
cached user record live under a namespaced pair of keys instead of a local
file. The key layout belongs to the users/auth package.
*/
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the startup probe independently of the caller's deadline.
const pingTimeout = 2 * time.Second

/*
Connect parses a redis:// URL, opens a client sized for a CLI process and
probes it.

Returns:
  - *redis.Client: The connected client; the caller closes it
  - error: A malformed URL or a failed probe
*/
func Connect(ctx context.Context, redisURL string, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	sizeForSessions(options)

	client := redis.NewClient(options)
	if err := Ping(ctx, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Debug("session_backend_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
	)
	return client, nil
}

// sizeForSessions shrinks the pool: a command reads or writes two small keys.
func sizeForSessions(options *redis.Options) {
	options.PoolSize = 2
	options.MaxIdleConns = 1
	options.DialTimeout = 3 * time.Second
	options.ReadTimeout = 2 * time.Second
	options.WriteTimeout = 2 * time.Second
}

// Ping reports whether the backend answers within [pingTimeout].
func Ping(ctx context.Context, client *redis.Client) error {
	probeCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(probeCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
