// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/dizesi/internal/platform/constants"
)

// # Durable Storage

// Storage defines the durable key/value contract behind the session.
//
// The two session keys are always written and removed together, so both
// mutating methods take every key at once and must apply them atomically.
type Storage interface {

	/*
		Get returns the value stored under key.

		Parameters:
		  - context: context.Context
		  - key: string

		Returns:
		  - string: Stored value
		  - bool: Whether the key exists
		  - error: Backend failures
	*/
	Get(context context.Context, key string) (string, bool, error)

	/*
		SetAll writes every key/value pair in one atomic step.

		Parameters:
		  - context: context.Context
		  - values: map[string]string

		Returns:
		  - error: Persistence failures
	*/
	SetAll(context context.Context, values map[string]string) error

	/*
		DeleteAll removes every listed key in one atomic step. Missing keys are ignored.

		Parameters:
		  - context: context.Context
		  - keys: ...string

		Returns:
		  - error: Persistence failures
	*/
	DeleteAll(context context.Context, keys ...string) error
}

// # Session Store

// Store holds the single active identity of the process.
//
// # Concurrency
//
// Reads ([Store.Current], [Store.Token]) never block on storage I/O.
// Writes are serialized: one login, register, restore or logout at a time.
type Store struct {
	storage Storage
	logger  *slog.Logger

	// writeMu serializes writers across the storage round-trip.
	writeMu sync.Mutex

	mu      sync.RWMutex
	session *Session

	listenerMu sync.Mutex
	listeners  map[int]func(*User)
	listenerID int
}

// NewStore constructs an empty, signed-out [Store]. Call [Store.Restore] to
// pick up a persisted session.
func NewStore(storage Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage:   storage,
		logger:    logger,
		listeners: make(map[int]func(*User)),
	}
}

/*
Restore loads the persisted session, if any.

Description: Both keys present means signed in, without contacting the
server. A lone key (a torn write from an older client, or a hand-edited
file) is discarded so the store never holds one without the other.

Parameters:
  - context: context.Context

Returns:
  - error: Storage failures
*/
func (store *Store) Restore(context context.Context) error {
	var changed bool
	store.writeMu.Lock()
	defer store.unlock(&changed)

	// 1. Read both halves
	token, hasToken, err := store.storage.Get(context, constants.StorageKeyToken)
	if err != nil {
		return fmt.Errorf("session_restore_token_failed: %w", err)
	}
	rawUser, hasUser, err := store.storage.Get(context, constants.StorageKeyUser)
	if err != nil {
		return fmt.Errorf("session_restore_user_failed: %w", err)
	}

	// 2. Nothing persisted
	if !hasToken && !hasUser {
		changed = store.set(nil)
		return nil
	}

	// 3. Both halves present and readable
	if hasToken && hasUser && token != "" {
		var user User
		if err := json.Unmarshal([]byte(rawUser), &user); err == nil {
			changed = store.set(&Session{Token: token, User: user})
			store.logger.Debug("session_restored", slog.String("username", user.Username))
			return nil
		}
	}

	// 4. Orphan or corrupt: drop both
	store.logger.Warn("session_discarded",
		slog.Bool("has_token", hasToken),
		slog.Bool("has_user", hasUser),
	)
	changed = store.set(nil)
	if err := store.storage.DeleteAll(context, constants.StorageKeyToken, constants.StorageKeyUser); err != nil {
		return fmt.Errorf("session_restore_cleanup_failed: %w", err)
	}
	return nil
}

/*
Establish persists a new identity, then publishes it.

Parameters:
  - context: context.Context
  - token: string
  - user: User

Returns:
  - error: Persistence failures (the previous identity stays active)
*/
func (store *Store) Establish(context context.Context, token string, user User) error {
	if token == "" {
		return fmt.Errorf("session_establish_failed: empty token")
	}

	var changed bool
	store.writeMu.Lock()
	defer store.unlock(&changed)

	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session_encode_user_failed: %w", err)
	}

	if err := store.storage.SetAll(context, map[string]string{
		constants.StorageKeyToken: token,
		constants.StorageKeyUser:  string(rawUser),
	}); err != nil {
		return fmt.Errorf("session_persist_failed: %w", err)
	}

	changed = store.set(&Session{Token: token, User: user})
	return nil
}

/*
Clear removes both persisted keys and publishes the signed-out state.

Description: The in-memory identity is dropped even if storage fails, so a
logout always takes effect for this process.

Parameters:
  - context: context.Context

Returns:
  - error: Storage failures
*/
func (store *Store) Clear(context context.Context) error {
	var changed bool
	store.writeMu.Lock()
	defer store.unlock(&changed)

	err := store.storage.DeleteAll(context, constants.StorageKeyToken, constants.StorageKeyUser)
	changed = store.set(nil)

	if err != nil {
		return fmt.Errorf("session_clear_failed: %w", err)
	}
	return nil
}

// # Reads

// Current returns a copy of the signed-in user, or nil.
func (store *Store) Current() *User {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.session == nil {
		return nil
	}
	user := store.session.User
	return &user
}

// Token returns the bearer token, or "" when signed out.
// It satisfies the gateway's token source contract.
func (store *Store) Token() string {
	store.mu.RLock()
	defer store.mu.RUnlock()

	if store.session == nil {
		return ""
	}
	return store.session.Token
}

// IsAuthenticated reports whether a session is active.
func (store *Store) IsAuthenticated() bool {
	return store.Token() != ""
}

// # Observation

// Subscribe registers fn to run after every identity change with the new
// user (nil when signed out). fn runs after the write lock is released, so it
// may log out or sign in synchronously. It returns the unsubscribe func.
func (store *Store) Subscribe(fn func(*User)) func() {
	store.listenerMu.Lock()
	defer store.listenerMu.Unlock()

	store.listenerID++
	id := store.listenerID
	store.listeners[id] = fn

	return func() {
		store.listenerMu.Lock()
		defer store.listenerMu.Unlock()
		delete(store.listeners, id)
	}
}

// set swaps the in-memory session and reports that subscribers are due.
// Callers hold writeMu.
func (store *Store) set(session *Session) bool {
	store.mu.Lock()
	store.session = session
	store.mu.Unlock()
	return true
}

// unlock releases writeMu and then, if the identity changed, notifies
// subscribers with the identity current at that moment. Subscribers may
// therefore call back into the store.
func (store *Store) unlock(changed *bool) {
	store.writeMu.Unlock()
	if !*changed {
		return
	}

	user := store.Current()

	store.listenerMu.Lock()
	listeners := make([]func(*User), 0, len(store.listeners))
	for _, fn := range store.listeners {
		listeners = append(listeners, fn)
	}
	store.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(user)
	}
}
