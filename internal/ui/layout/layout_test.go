// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/ui/layout"
	"github.com/taibuivan/dizesi/internal/users/auth"
)

type countingCounter struct {
	calls atomic.Int32
	count int
	err   error
}

func (c *countingCounter) UnreadCount(context.Context) (int, error) {
	c.calls.Add(1)
	return c.count, c.err
}

func newStore(t *testing.T) *auth.Store {
	t.Helper()
	return auth.NewStore(auth.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLayout_SignedOutNeverCounts(t *testing.T) {
	counter := &countingCounter{count: 4}
	l := layout.New(context.Background(), newStore(t), counter, quiet)
	defer l.Close()

	assert.Zero(t, l.Unread())
	assert.Zero(t, counter.calls.Load())

	nav := l.Navigation()
	require.Len(t, nav, 2)
	assert.Equal(t, "Sign In", nav[0].Label)
	assert.Equal(t, "/register", nav[1].Route)
}

func TestLayout_RefreshesOnIdentityChange(t *testing.T) {
	store := newStore(t)
	counter := &countingCounter{count: 4}
	l := layout.New(context.Background(), store, counter, quiet)
	defer l.Close()

	require.NoError(t, store.Establish(context.Background(), "tok", auth.User{ID: 1, Username: "ayse"}))
	require.Eventually(t, func() bool { return l.Unread() == 4 }, time.Second, 5*time.Millisecond)

	nav := l.Navigation()
	assert.Equal(t, "Notifications", nav[3].Label)
	assert.Equal(t, "4", nav[3].Badge)
	assert.Equal(t, "/profile/ayse", nav[4].Route)
	assert.Equal(t, "Logout", nav[len(nav)-1].Label)
	for _, item := range nav {
		assert.NotEqual(t, "/admin", item.Route)
	}

	require.NoError(t, store.Clear(context.Background()))
	require.Eventually(t, func() bool { return l.Unread() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLayout_FailureShowsZero(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Establish(context.Background(), "tok", auth.User{ID: 1, Username: "ayse"}))

	l := layout.New(context.Background(), store, &countingCounter{err: apperr.Transport(500, nil)}, quiet)
	defer l.Close()

	assert.Zero(t, l.Unread())
	assert.Empty(t, l.Navigation()[3].Badge)
}

func TestLayout_AdminEntry(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Establish(context.Background(), "tok", auth.User{ID: 1, Username: "root", Role: "admin"}))

	l := layout.New(context.Background(), store, &countingCounter{}, quiet)
	defer l.Close()

	routes := make([]string, 0)
	for _, item := range l.Navigation() {
		routes = append(routes, item.Route)
	}
	assert.Contains(t, routes, "/admin")
}

func TestLayout_CloseStopsRefreshing(t *testing.T) {
	store := newStore(t)
	counter := &countingCounter{count: 2}
	l := layout.New(context.Background(), store, counter, quiet)
	l.Close()

	require.NoError(t, store.Establish(context.Background(), "tok", auth.User{ID: 1, Username: "ayse"}))
	time.Sleep(20 * time.Millisecond)

	assert.Zero(t, counter.calls.Load())
}

func TestLayout_Search(t *testing.T) {
	l := layout.New(context.Background(), newStore(t), &countingCounter{}, quiet)
	defer l.Close()

	route, ok := l.Search("  gül ")
	assert.True(t, ok)
	assert.Equal(t, "/search?q=g%C3%BCl", route)

	_, ok = l.Search("   ")
	assert.False(t, ok)
	assert.Contains(t, l.Footer(), "Dizesi")
}
