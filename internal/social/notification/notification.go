// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package notification implements the notifications page and the unread
// counter shown by the layout. Notifications are fetched on mount only.
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/dizesi/internal/platform/fetch"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
	"github.com/taibuivan/dizesi/pkg/pointer"
	"github.com/taibuivan/dizesi/pkg/slice"
)

// Kind is the event a notification reports.
type Kind string

const (
	KindLike    Kind = "like"
	KindComment Kind = "comment"
	KindFollow  Kind = "follow"
)

// EmptyMessage is shown when the list is empty.
const EmptyMessage = "No notifications yet."

// Actor is the user who caused the notification.
type Actor struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Notification is one entry of `GET /notifications`.
type Notification struct {
	ID        int64     `json:"id"`
	Type      Kind      `json:"type"`
	Actor     *Actor    `json:"actor,omitempty"`
	PostID    int64     `json:"post_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalJSON accepts both `is_read` and `isRead`.
func (n *Notification) UnmarshalJSON(data []byte) error {
	type plain Notification
	var raw struct {
		plain
		IsReadCamel *bool `json:"isRead"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Notification(raw.plain)
	if raw.IsReadCamel != nil {
		n.IsRead = n.IsRead || *raw.IsReadCamel
	}
	return nil
}

// Text renders the sentence shown for a notification.
func Text(n Notification) string {
	name := ""
	if n.Actor != nil {
		name = n.Actor.FullName
	}

	switch n.Type {
	case KindLike:
		return fmt.Sprintf("%s liked your post", name)
	case KindComment:
		return fmt.Sprintf("%s commented on your post", name)
	case KindFollow:
		return fmt.Sprintf("%s started following you", name)
	default:
		return "New notification"
	}
}

// Initial is the avatar fallback letter.
func Initial(n Notification) string {
	if n.Actor == nil || n.Actor.FullName == "" {
		return "N"
	}
	return string([]rune(n.Actor.FullName)[:1])
}

// # Client

// API is the gateway surface used by notifications.
type API interface {
	Request(ctx context.Context, path string, options gateway.Options, out any) error
}

// Client wraps the notifications endpoint.
type Client struct {
	api API
}

// NewClient constructs a notification [Client].
func NewClient(api API) *Client {
	return &Client{api: api}
}

// List fetches the caller's notifications.
func (client *Client) List(ctx context.Context) ([]Notification, error) {
	var response struct {
		Notifications *[]Notification `json:"notifications"`
	}
	if err := client.api.Request(ctx, "/notifications", gateway.Options{}, &response); err != nil {
		return nil, err
	}
	return pointer.Val(response.Notifications), nil
}

/*
UnreadCount counts the unread notifications for the layout badge.

Parameters:
  - ctx: context.Context

Returns:
  - int: Number of entries not yet read
  - error: Gateway failures
*/
func (client *Client) UnreadCount(ctx context.Context) (int, error) {
	items, err := client.List(ctx)
	if err != nil {
		return 0, err
	}
	unread := slice.Filter(items, func(n Notification) bool { return !n.IsRead })
	return len(unread), nil
}

// # Page

// Page is the controller of the notifications page.
type Page struct {
	items *fetch.Resource[[]Notification]
}

// NewPage constructs the page.
func NewPage(client *Client) *Page {
	return &Page{items: fetch.New(client.List)}
}

// Load fetches the list. Failures leave the page empty and are returned
// for logging; no toast is shown.
func (page *Page) Load(ctx context.Context) error {
	_, err := page.items.Load(ctx)
	if errors.Is(err, fetch.ErrSuperseded) {
		return nil
	}
	return err
}

// Items returns the loaded notifications.
func (page *Page) Items() []Notification {
	return page.items.Data()
}

// State exposes loading and error flags.
func (page *Page) State() fetch.State[[]Notification] {
	return page.items.State()
}

// Empty reports whether the page has finished loading with nothing to show.
func (page *Page) Empty() bool {
	state := page.items.State()
	return !state.Loading && len(state.Data) == 0 && (state.Loaded || state.Err != nil)
}

// Close unmounts the page.
func (page *Page) Close() {
	page.items.Close()
}
