// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post_test

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/internal/users/auth"
)

// # Test Doubles

// scriptedAPI answers each call through handle and records the paths.
type scriptedAPI struct {
	mu     sync.Mutex
	paths  []string
	bodies []any
	handle func(path string, options gateway.Options) (string, error)
}

func (api *scriptedAPI) Request(_ context.Context, path string, options gateway.Options, out any) error {
	api.mu.Lock()
	api.paths = append(api.paths, options.Method+" "+path)
	api.bodies = append(api.bodies, options.Body)
	api.mu.Unlock()

	body, err := api.handle(path, options)
	if err != nil {
		return err
	}
	if out == nil || body == "" {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

func (api *scriptedAPI) RequestMultipart(ctx context.Context, path string, _ *gateway.Form, out any) error {
	return api.Request(ctx, path, gateway.Options{Method: "POST"}, out)
}

func (api *scriptedAPI) calls() []string {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]string(nil), api.paths...)
}

type staticSession struct{ user *auth.User }

func (s staticSession) Current() *auth.User { return s.user }

var (
	me     = &auth.User{ID: 1, Username: "me"}
	author = post.UserRef{ID: 2, Username: "yazar", FullName: "Yazar"}
)

func newCard(api *scriptedAPI, session post.Session, p post.Post) (*post.Card, *toast.Recorder) {
	recorder := &toast.Recorder{}
	card := post.NewCard(post.Deps{
		Client:    post.NewClient(api),
		Session:   session,
		Notifier:  recorder,
		PublicURL: "https://dizesi.app",
	}, p)
	return card, recorder
}

// # Like

/*
TestToggleLike_TwiceRestoresOriginal toggles against a server that keeps its own count.
*/
func TestToggleLike_TwiceRestoresOriginal(t *testing.T) {
	liked, count := false, 3
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		liked = !liked
		if liked {
			count++
		} else {
			count--
		}
		raw, _ := json.Marshal(map[string]any{"likesCount": count, "isLiked": liked})
		return string(raw), nil
	}}

	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: author, LikesCount: 3})

	require.NoError(t, card.ToggleLike(context.Background()))
	assert.True(t, card.Post().IsLiked)
	assert.Equal(t, 4, card.Post().LikesCount)

	require.NoError(t, card.ToggleLike(context.Background()))
	assert.False(t, card.Post().IsLiked)
	assert.Equal(t, 3, card.Post().LikesCount)
	assert.Equal(t, []string{"POST /posts/like", "POST /posts/like"}, api.calls())
}

func TestToggleLike_OptimisticThenAuthoritative(t *testing.T) {
	release := make(chan struct{})
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		<-release
		return `{"likesCount":10,"isLiked":true}`, nil
	}}
	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: author, LikesCount: 3})

	var mu sync.Mutex
	var seen []post.CardState
	card.OnChange(func(state post.CardState) {
		mu.Lock()
		seen = append(seen, state)
		mu.Unlock()
	})

	done := make(chan error, 1)
	go func() { done <- card.ToggleLike(context.Background()) }()

	require.Eventually(t, func() bool { return card.State().Liking }, timeout, tick)
	optimistic := card.State()
	assert.True(t, optimistic.Post.IsLiked)
	assert.Equal(t, 4, optimistic.Post.LikesCount)

	// A second click while pending is rejected without a call.
	assert.ErrorIs(t, card.ToggleLike(context.Background()), post.ErrInFlight)

	close(release)
	require.NoError(t, <-done)

	final := card.State()
	assert.False(t, final.Liking)
	assert.Equal(t, 10, final.Post.LikesCount)
	assert.Len(t, api.calls(), 1)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, 4, seen[0].Post.LikesCount)
}

func TestToggleLike_RollbackOnFailure(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		return "", apperr.Transport(500, nil)
	}}
	card, recorder := newCard(api, staticSession{me}, post.Post{ID: 10, User: author, LikesCount: 5, IsLiked: true})

	err := card.ToggleLike(context.Background())
	assert.Equal(t, 500, apperr.Status(err))

	state := card.State()
	assert.True(t, state.Post.IsLiked)
	assert.Equal(t, 5, state.Post.LikesCount)
	assert.False(t, state.Liking)

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, toast.VariantDestructive, last.Variant)
}

func TestToggleLike_MissingFieldsKeepOptimistic(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) { return `{}`, nil }}
	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: author, LikesCount: 0, IsLiked: true})

	require.NoError(t, card.ToggleLike(context.Background()))

	assert.False(t, card.Post().IsLiked)
	assert.Equal(t, 0, card.Post().LikesCount, "count is floored at zero")
}

func TestToggleLike_SignedOutNeverCalls(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) { return `{}`, nil }}
	card, recorder := newCard(api, staticSession{}, post.Post{ID: 10, User: author})

	err := card.ToggleLike(context.Background())

	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
	assert.Empty(t, api.calls())
	assert.Len(t, recorder.All(), 1)
}

// # Follow

func TestToggleFollow_AppliesServerBoolean(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		return `{"following":false}`, nil
	}}
	followed := author
	followed.IsFollowing = true
	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: followed})

	require.NoError(t, card.ToggleFollow(context.Background()))

	assert.False(t, card.State().IsFollowing)
	assert.Equal(t, []string{"POST /posts/follow"}, api.calls())
	assert.Equal(t, map[string]int64{"userId": 2}, api.bodies[0])
}

func TestToggleFollow_FailureLeavesStateUnchanged(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		return "", apperr.Transport(502, nil)
	}}
	card, recorder := newCard(api, staticSession{me}, post.Post{ID: 10, User: author})

	assert.Error(t, card.ToggleFollow(context.Background()))
	assert.False(t, card.State().IsFollowing)
	assert.False(t, card.State().Following)
	assert.Len(t, recorder.All(), 1)
}

func TestToggleFollow_OwnPost(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) { return `{}`, nil }}
	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: post.UserRef{ID: me.ID, Username: "me"}})

	assert.ErrorIs(t, card.ToggleFollow(context.Background()), post.ErrOwnPost)
	assert.False(t, card.CanFollow())
	assert.Empty(t, api.calls())
}

func TestSyncFollowState(t *testing.T) {
	api := &scriptedAPI{handle: func(path string, _ gateway.Options) (string, error) {
		return `{"user":{"id":2,"username":"yazar","is_following":true},"posts":[]}`, nil
	}}
	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: author})

	require.NoError(t, card.SyncFollowState(context.Background()))

	assert.True(t, card.State().IsFollowing)
	assert.Equal(t, []string{" /profile/yazar"}, api.calls())
}

// # Comments

func TestSubmitComment_EmptyNeverCalls(t *testing.T) {
	for _, body := range []string{"", "   ", "\n\t "} {
		api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) { return `{}`, nil }}
		card, recorder := newCard(api, staticSession{me}, post.Post{ID: 10, User: author})

		err := card.SubmitComment(context.Background(), body)

		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "body %q", body)
		assert.Empty(t, api.calls())
		last, ok := recorder.Last()
		require.True(t, ok)
		assert.Equal(t, "Empty comment", last.Title)
	}
}

func TestSubmitComment_TooLong(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) { return `{}`, nil }}
	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: author})

	err := card.SubmitComment(context.Background(), strings.Repeat("ş", 501))

	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Empty(t, api.calls())
}

func TestSubmitComment_RefetchesList(t *testing.T) {
	api := &scriptedAPI{handle: func(path string, options gateway.Options) (string, error) {
		if options.Method == "POST" {
			return `{}`, nil
		}
		return `{"comments":[{"id":1,"user":{"id":1,"username":"me"},"content":"Güzel şiir"}]}`, nil
	}}
	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: author, CommentsCount: 2})
	card.SetDraft("  Güzel şiir ")

	require.NoError(t, card.SubmitComment(context.Background(), ""))

	state := card.State()
	assert.Equal(t, 3, state.Post.CommentsCount)
	assert.Empty(t, state.Draft)
	assert.False(t, state.Commenting)
	require.Len(t, state.Comments, 1)
	assert.Equal(t, "Güzel şiir", state.Comments[0].Content)
	assert.Equal(t, []string{"POST /posts/10/comments", " /posts/10/comments"}, api.calls())
}

func TestOpenComments_FetchesFreshEachTime(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		return `{"comments":[]}`, nil
	}}
	card, _ := newCard(api, staticSession{}, post.Post{ID: 10, User: author})

	require.NoError(t, card.OpenComments(context.Background()))
	card.CloseComments()
	require.NoError(t, card.OpenComments(context.Background()))

	assert.Len(t, api.calls(), 2)
	assert.True(t, card.State().CommentsOpen)
}

func TestOpenComments_Failure(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		return "", apperr.Transport(500, nil)
	}}
	card, _ := newCard(api, staticSession{}, post.Post{ID: 10, User: author})

	assert.Error(t, card.OpenComments(context.Background()))
	state := card.State()
	assert.False(t, state.CommentsLoading)
	assert.Error(t, state.CommentsErr)
}

/*
TestLogout_BlocksComment signs out through the real store and comments.
*/
func TestLogout_BlocksComment(t *testing.T) {
	ctx := context.Background()
	store := auth.NewStore(auth.NewMemoryStorage(), nil)
	require.NoError(t, store.Establish(ctx, "tok", *me))

	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) { return `{}`, nil }}
	card, _ := newCard(api, store, post.Post{ID: 10, User: author})

	require.NoError(t, store.Clear(ctx))

	err := card.SubmitComment(ctx, "hello")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
	assert.Empty(t, api.calls())
}

// # Report

func TestReport_SecondAttemptBlocked(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) { return `{}`, nil }}
	card, _ := newCard(api, staticSession{me}, post.Post{ID: 10, User: author})

	require.NoError(t, card.Report(context.Background(), "spam"))
	assert.True(t, card.State().HasReported)

	assert.ErrorIs(t, card.Report(context.Background(), ""), post.ErrAlreadyReported)
	assert.Equal(t, []string{"POST /posts/10/report"}, api.calls())
}

func TestReport_DuplicateRejectedByServer(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		return "", apperr.Transport(409, nil)
	}}
	card, recorder := newCard(api, staticSession{me}, post.Post{ID: 10, User: author})

	assert.Error(t, card.Report(context.Background(), ""))
	assert.False(t, card.State().HasReported)

	last, _ := recorder.Last()
	assert.Contains(t, last.Description, "already reported")
}

// # Share

func TestShare(t *testing.T) {
	card, recorder := newCard(&scriptedAPI{}, staticSession{}, post.Post{ID: 42, Title: "Sessiz Gece Şiiri"})

	assert.Equal(t, "https://dizesi.app/post/42-sessiz-gece-siiri", card.Share(context.Background()))
	last, _ := recorder.Last()
	assert.Equal(t, "Link copied!", last.Title)

	assert.Equal(t, "https://dizesi.app/post/7", post.ShareURL("https://dizesi.app/", post.Post{ID: 7, Title: "!!!"}))
}

// # Lifecycle

func TestClose_FollowResolvingLateChangesNothing(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) {
		close(started)
		<-release
		return `{"following":true}`, nil
	}}
	card, recorder := newCard(api, staticSession{me}, post.Post{ID: 10, User: author})

	done := make(chan error, 1)
	go func() { done <- card.ToggleFollow(context.Background()) }()
	<-started

	card.Close()
	close(release)

	require.NoError(t, <-done)
	state := card.State()
	assert.False(t, state.IsFollowing)
	assert.True(t, state.Following, "busy flag frozen at unmount")
	assert.Empty(t, recorder.All())
}

func TestClose_DropsListenersAndToasts(t *testing.T) {
	api := &scriptedAPI{handle: func(string, gateway.Options) (string, error) { return "", nil }}
	card, recorder := newCard(api, staticSession{me}, post.Post{ID: 10, Title: "Gazel", User: author})

	calls := 0
	card.OnChange(func(post.CardState) { calls++ })
	card.Close()

	card.SetDraft("yeni")
	assert.NotEmpty(t, card.Share(context.Background()))
	assert.Zero(t, calls)
	assert.Empty(t, recorder.All())
}
