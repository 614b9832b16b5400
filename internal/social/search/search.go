// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package search implements the search results page.

One combined request returns matching users and posts. Every query change
clears the previous results before the request is sent, and a response that
arrives after a newer query was issued is dropped.
*/
package search

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/taibuivan/dizesi/internal/platform/fetch"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/pkg/slice"
)

// Messages rendered by the page.
const (
	MessageNoResults = "No results found."
	MessageNoUsers   = "No users found."
	MessageNoPosts   = "No posts found."
	MessageFailed    = "Failed to fetch results."
)

// Results is what one query produced.
type Results struct {
	Query string
	Users []post.UserRef
	Cards []*post.Card
}

// Empty reports whether neither section has entries.
func (results Results) Empty() bool {
	return len(results.Users) == 0 && len(results.Cards) == 0
}

// Page is the controller of `/search?q=`.
type Page struct {
	deps    post.Deps
	results *fetch.Resource[Results]
}

// NewPage constructs the search page.
func NewPage(deps post.Deps) *Page {
	return &Page{deps: deps, results: fetch.New[Results](nil)}
}

/*
SetQuery runs a search for q.

Description: Previous results are cleared (and their cards closed) in the
same step that claims the load, so the response is applied only if no later
SetQuery has started in the meantime.

Parameters:
  - ctx: context.Context
  - q: string

Returns:
  - Results: The applied results (zero when superseded)
  - error: Gateway failures; a superseded query returns nil
*/
func (page *Page) SetQuery(ctx context.Context, q string) (Results, error) {
	discard := func(previous Results) Results {
		post.CloseAll(previous.Cards)
		return Results{Query: q}
	}

	results, err := page.results.Reset(ctx, discard, func(ctx context.Context) (Results, error) {
		return page.fetch(ctx, q)
	})
	if errors.Is(err, fetch.ErrSuperseded) {
		return Results{}, nil
	}
	return results, err
}

func (page *Page) fetch(ctx context.Context, q string) (Results, error) {
	users, posts, err := page.deps.Client.Search(ctx, q)
	if err != nil {
		return Results{Query: q}, err
	}

	return Results{
		Query: q,
		Users: users,
		Cards: slice.Map(posts, func(p post.Post) *post.Card {
			return post.NewCard(page.deps, p)
		}),
	}, nil
}

// Results returns the currently displayed results.
func (page *Page) Results() Results {
	return page.results.Data()
}

// State exposes loading and error flags.
func (page *Page) State() fetch.State[Results] {
	return page.results.State()
}

// Message returns the placeholder for the whole page, or "" when results are shown.
func (page *Page) Message() string {
	state := page.results.State()
	switch {
	case state.Loading:
		return ""
	case state.Err != nil:
		return MessageFailed
	case state.Loaded && state.Data.Empty():
		return MessageNoResults
	default:
		return ""
	}
}

// OnChange registers fn to run after every state change.
func (page *Page) OnChange(fn func(fetch.State[Results])) func() {
	return page.results.OnChange(fn)
}

// Close unmounts the page and every card on it.
func (page *Page) Close() {
	page.results.Close()
	post.CloseAll(page.results.Data().Cards)
}

// Route builds the search route for a raw query, or "" for a blank one.
func Route(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	return "/search?q=" + url.QueryEscape(query)
}
