// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package layout implements the chrome around every page: the navigation with
the unread-notifications badge, the search box and the footer.

The badge is refreshed on construction and on every identity change pushed
by the session store. There is no polling.
*/
package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/taibuivan/dizesi/internal/platform/fetch"
	"github.com/taibuivan/dizesi/internal/social/search"
	"github.com/taibuivan/dizesi/internal/users/auth"
)

// Brand texts.
const (
	Brand   = "Dizesi"
	Tagline = "A sophisticated platform for writers, poets, and literary enthusiasts to share their craft and connect with fellow wordsmiths."
	footer  = "© 2024 Dizesi. Crafted with passion for the literary arts."
)

// SearchPlaceholder is the hint of the search box.
const SearchPlaceholder = "Search articles, authors, topics..."

// # Contracts

// Identity is the observable session.
type Identity interface {
	Current() *auth.User
	Subscribe(fn func(*auth.User)) func()
}

// Counter returns the number of unread notifications.
type Counter interface {
	UnreadCount(ctx context.Context) (int, error)
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Label string
	Route string
	Badge string
}

// # Layout

// Layout owns the badge state and the session subscription.
type Layout struct {
	identity Identity
	counter  Counter
	logger   *slog.Logger

	unread      *fetch.Resource[int]
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

/*
New mounts the layout.

Description: Subscribes to identity changes and refreshes the badge once
for the current session before returning.

Parameters:
  - ctx: context.Context (bounds every background refresh)
  - identity: Identity
  - counter: Counter
  - logger: *slog.Logger

Returns:
  - *Layout
*/
func New(ctx context.Context, identity Identity, counter Counter, logger *slog.Logger) *Layout {
	ctx, cancel := context.WithCancel(ctx)
	layout := &Layout{
		identity: identity,
		counter:  counter,
		logger:   logger,
		unread:   fetch.New[int](nil),
		ctx:      ctx,
		cancel:   cancel,
	}

	layout.unsubscribe = identity.Subscribe(func(*auth.User) {
		go layout.Refresh(layout.ctx)
	})
	layout.Refresh(ctx)
	return layout
}

/*
Refresh recomputes the badge for the current identity.

Description: A signed-out session shows 0 without a call. A failed lookup
also shows 0. A refresh overtaken by a newer one is discarded.

Parameters:
  - ctx: context.Context

Returns:
  - int: The unread count now shown
*/
func (layout *Layout) Refresh(ctx context.Context) int {
	user := layout.identity.Current()

	count, err := layout.unread.Run(ctx, func(ctx context.Context) (int, error) {
		if user == nil {
			return 0, nil
		}
		count, err := layout.counter.UnreadCount(ctx)
		if err != nil {
			layout.logger.Debug("unread_count_failed", slog.Any("error", err))
			return 0, nil
		}
		return count, nil
	})
	if errors.Is(err, fetch.ErrSuperseded) {
		return layout.Unread()
	}
	return count
}

// Unread returns the badge value.
func (layout *Layout) Unread() int {
	return layout.unread.Data()
}

// Navigation lists the navigation entries for the current identity.
func (layout *Layout) Navigation() []NavItem {
	user := layout.identity.Current()
	if user == nil {
		return []NavItem{
			{Label: "Sign In", Route: "/login"},
			{Label: "Join Community", Route: "/register"},
		}
	}

	badge := ""
	if unread := layout.Unread(); unread > 0 {
		badge = strconv.Itoa(unread)
	}

	items := []NavItem{
		{Label: "Home", Route: "/"},
		{Label: "Write Article", Route: "/create"},
		{Label: "Following", Route: "/following"},
		{Label: "Notifications", Route: "/notifications", Badge: badge},
		{Label: "Profile", Route: fmt.Sprintf("/profile/%s", user.Username)},
	}
	if user.Admin() {
		items = append(items, NavItem{Label: "Admin Panel", Route: "/admin"})
	}
	return append(items, NavItem{Label: "Logout", Route: "/login"})
}

// Search returns the route for a submitted search box, or false for a blank one.
func (layout *Layout) Search(query string) (string, bool) {
	route := search.Route(query)
	return route, route != ""
}

// Footer returns the footer line.
func (layout *Layout) Footer() string {
	return footer
}

// Close unmounts the layout: the subscription is dropped and pending refreshes are discarded.
func (layout *Layout) Close() {
	layout.unsubscribe()
	layout.cancel()
	layout.unread.Close()
}
