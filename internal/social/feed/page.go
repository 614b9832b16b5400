// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package feed implements the Home and Following pages and the post composer.

A [Page] fetches one feed on mount and turns every post into an independent
[post.Card]. The cards are not shared with other pages: liking a post here
does not update the same post on the profile page until it reloads.
*/
package feed

import (
	"context"
	"errors"

	"github.com/taibuivan/dizesi/internal/platform/fetch"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/pkg/slice"
)

// Page is the controller of one feed.
type Page struct {
	kind     post.FeedKind
	deps     post.Deps
	notifier toast.Notifier
	cards    *fetch.Resource[[]*post.Card]
}

// NewPage constructs the page for the general or the following feed.
func NewPage(deps post.Deps, kind post.FeedKind) *Page {
	page := &Page{
		kind:     kind,
		deps:     deps,
		notifier: toast.OrDiscard(deps.Notifier),
	}
	page.cards = fetch.New(page.fetch)
	return page
}

func (page *Page) fetch(ctx context.Context) ([]*post.Card, error) {
	posts, err := page.deps.Client.Feed(ctx, page.kind)
	if err != nil {
		return nil, err
	}
	return slice.Map(posts, func(p post.Post) *post.Card {
		return post.NewCard(page.deps, p)
	}), nil
}

// Load (re)fetches the feed. A superseded or unmounted load is silent.
func (page *Page) Load(ctx context.Context) error {
	_, err := page.cards.Load(ctx)
	if errors.Is(err, fetch.ErrSuperseded) {
		return nil
	}
	if err != nil {
		page.notifier.Notify(ctx, toast.Error("Error", page.failureMessage()))
		return err
	}
	return nil
}

// Kind returns which feed the page shows.
func (page *Page) Kind() post.FeedKind {
	return page.kind
}

// Cards returns the cards of the last successful load.
func (page *Page) Cards() []*post.Card {
	return page.cards.Data()
}

// State exposes loading and error flags.
func (page *Page) State() fetch.State[[]*post.Card] {
	return page.cards.State()
}

// Empty reports whether a load finished with no posts.
func (page *Page) Empty() bool {
	state := page.cards.State()
	return state.Loaded && len(state.Data) == 0
}

// EmptyMessage is the placeholder shown when [Page.Empty].
func (page *Page) EmptyMessage() string {
	if page.kind == post.FeedFollowing {
		return "No posts from people you follow yet."
	}
	return "No Posts Yet"
}

// OnChange registers fn to run after every state change.
func (page *Page) OnChange(fn func(fetch.State[[]*post.Card])) func() {
	return page.cards.OnChange(fn)
}

// Close unmounts the page and every card on it.
func (page *Page) Close() {
	page.cards.Close()
	post.CloseAll(page.cards.Data())
}

func (page *Page) failureMessage() string {
	if page.kind == post.FeedFollowing {
		return "Failed to load posts from people you follow."
	}
	return "Failed to load articles."
}
