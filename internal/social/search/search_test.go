// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/internal/social/search"
	"github.com/taibuivan/dizesi/internal/users/auth"
)

// routedAPI answers each path through its own handler.
type routedAPI struct {
	mu     sync.Mutex
	paths  []string
	routes map[string]func() (string, error)
}

func (api *routedAPI) Request(_ context.Context, path string, _ gateway.Options, out any) error {
	api.mu.Lock()
	api.paths = append(api.paths, path)
	handler := api.routes[path]
	api.mu.Unlock()

	body, err := handler()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(body), out)
}

func (api *routedAPI) RequestMultipart(context.Context, string, *gateway.Form, any) error {
	return nil
}

type staticSession struct{ user *auth.User }

func (s staticSession) Current() *auth.User { return s.user }

func newPage(api *routedAPI) *search.Page {
	return search.NewPage(post.Deps{
		Client:  post.NewClient(api),
		Session: staticSession{},
	})
}

func TestSetQuery_StaleResponseDropped(t *testing.T) {
	release := make(chan struct{})
	api := &routedAPI{routes: map[string]func() (string, error){
		"/search?q=a&type=posts": func() (string, error) {
			<-release
			return `{"users":[{"id":1,"username":"a-user"}],"posts":[]}`, nil
		},
		"/search?q=ab&type=posts": func() (string, error) {
			return `{"users":[{"id":2,"username":"ab-user"}],"posts":[{"id":9,"title":"ab"}]}`, nil
		},
	}}
	page := newPage(api)

	first := make(chan error, 1)
	go func() {
		_, err := page.SetQuery(context.Background(), "a")
		first <- err
	}()
	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return len(api.paths) == 1
	}, time.Second, 5*time.Millisecond)

	results, err := page.SetQuery(context.Background(), "ab")
	require.NoError(t, err)
	assert.Equal(t, "ab", results.Query)

	close(release)
	require.NoError(t, <-first)

	shown := page.Results()
	assert.Equal(t, "ab", shown.Query)
	require.Len(t, shown.Users, 1)
	assert.Equal(t, "ab-user", shown.Users[0].Username)
	require.Len(t, shown.Cards, 1)
	assert.Equal(t, int64(9), shown.Cards[0].ID())
}

func TestSetQuery_ClearsPreviousResultsOnFailure(t *testing.T) {
	api := &routedAPI{routes: map[string]func() (string, error){
		"/search?q=%C5%9Fiir&type=posts": func() (string, error) {
			return `{"users":[{"id":1,"username":"u"}],"posts":[]}`, nil
		},
		"/search?q=roman&type=posts": func() (string, error) {
			return "", apperr.Transport(500, nil)
		},
	}}
	page := newPage(api)

	_, err := page.SetQuery(context.Background(), "şiir")
	require.NoError(t, err)
	require.Len(t, page.Results().Users, 1)

	_, err = page.SetQuery(context.Background(), "roman")
	assert.Error(t, err)
	assert.Empty(t, page.Results().Users)
	assert.Equal(t, search.MessageFailed, page.Message())
}

func TestSetQuery_ClosesReplacedCards(t *testing.T) {
	api := &routedAPI{routes: map[string]func() (string, error){
		"/search?q=gazel&type=posts": func() (string, error) {
			return `{"posts":[{"id":4,"title":"Gazel"}]}`, nil
		},
		"/search?q=kaside&type=posts": func() (string, error) {
			return `{"posts":[{"id":5,"title":"Kaside"}]}`, nil
		},
	}}
	page := newPage(api)

	first, err := page.SetQuery(context.Background(), "gazel")
	require.NoError(t, err)
	require.Len(t, first.Cards, 1)

	second, err := page.SetQuery(context.Background(), "kaside")
	require.NoError(t, err)
	require.Len(t, second.Cards, 1)

	assert.True(t, first.Cards[0].Closed())
	assert.False(t, second.Cards[0].Closed())

	page.Close()
	assert.True(t, second.Cards[0].Closed())
}

func TestMessage_NoResults(t *testing.T) {
	api := &routedAPI{routes: map[string]func() (string, error){
		"/search?q=zzz&type=posts": func() (string, error) { return `{}`, nil },
	}}
	page := newPage(api)

	assert.Empty(t, page.Message())
	_, err := page.SetQuery(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Equal(t, search.MessageNoResults, page.Message())
}

func TestRoute(t *testing.T) {
	assert.Equal(t, "/search?q=k%C4%B1rm%C4%B1z%C4%B1+g%C3%BCl", search.Route("  kırmızı gül "))
	assert.Empty(t, search.Route("   "))
}
