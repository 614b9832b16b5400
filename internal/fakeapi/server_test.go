// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fakeapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/admin"
	"github.com/taibuivan/dizesi/internal/fakeapi"
	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/config"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
	"github.com/taibuivan/dizesi/internal/platform/sec"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/social/feed"
	"github.com/taibuivan/dizesi/internal/social/notification"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/internal/users/auth"
	"github.com/taibuivan/dizesi/internal/users/profile"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// # Harness

type harness struct {
	server *httptest.Server
	store  *fakeapi.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := &config.FakeAPIConfig{
		Environment:   "test",
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		AdminUsername: "mod",
		AdminPassword: "modpass1",
		AdminEmail:    "mod@dizesi.app",
	}

	store := fakeapi.NewStore()
	require.NoError(t, fakeapi.Seed(store, cfg))

	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	liveness, readiness := fakeapi.NewHealthHandlers(store)
	server := fakeapi.NewServer(ctx, cfg, discard, tokens, fakeapi.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		API:       fakeapi.NewHandler(store, tokens, cfg.TokenTTL),
	})

	httpServer := httptest.NewServer(server.Handler())
	t.Cleanup(httpServer.Close)

	return &harness{server: httpServer, store: store}
}

// client is one signed-in (or anonymous) client process.
type client struct {
	session *auth.Store
	gateway *gateway.Client
	auth    *auth.Service
	toasts  *toast.Recorder
}

func (h *harness) client() *client {
	session := auth.NewStore(auth.NewMemoryStorage(), discard)
	api := gateway.New(h.server.URL+"/api", session, gateway.WithLogger(discard))
	toasts := &toast.Recorder{}
	return &client{
		session: session,
		gateway: api,
		auth:    auth.NewService(api, session, toasts),
		toasts:  toasts,
	}
}

func (h *harness) signUp(t *testing.T, username string) *client {
	t.Helper()
	c := h.client()
	_, err := c.auth.Register(context.Background(), auth.RegisterInput{
		FullName:        "Writer " + username,
		Username:        username,
		Email:           username + "@dizesi.app",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	return c
}

func (h *harness) moderator(t *testing.T) *client {
	t.Helper()
	c := h.client()
	_, err := c.auth.Login(context.Background(), auth.LoginInput{Username: "mod", Password: "modpass1"})
	require.NoError(t, err)
	return c
}

func (c *client) deps() post.Deps {
	return post.Deps{Client: post.NewClient(c.gateway), Session: c.session, Notifier: c.toasts}
}

// # End-to-end Flows

func TestServer_PublishModerateAndLike(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	// 1. A writer submits a post with an image
	writer := h.signUp(t, "ayla")
	created, err := post.NewClient(writer.gateway).Create(ctx, post.Draft{
		Title:     "Sessiz Gece",
		Content:   "Bir şiir",
		Image:     bytes.NewReader([]byte("\x89PNG\r\n\x1a\nfake")),
		ImageName: "cover.PNG",
	})
	require.NoError(t, err)
	assert.Equal(t, fakeapi.StatusPending, created.Status)
	require.NotEmpty(t, created.ImageURL)

	image, err := http.Get(h.server.URL + created.ImageURL)
	require.NoError(t, err)
	image.Body.Close()
	assert.Equal(t, http.StatusOK, image.StatusCode)

	// 2. The moderator approves it
	moderator := h.moderator(t)
	assert.True(t, moderator.session.Current().Admin())

	panel := admin.NewPanel(admin.NewClient(moderator.gateway), moderator.session, moderator.toasts)
	defer panel.Close()
	require.NoError(t, panel.Load(ctx))

	pending, _ := panel.PendingPage()
	require.Len(t, pending, 1)
	assert.Equal(t, "ayla", pending[0].Author())
	assert.Len(t, panel.Users(), 2)

	require.NoError(t, panel.Approve(ctx, created.ID))
	pending, _ = panel.PendingPage()
	assert.Empty(t, pending)

	// 3. A reader likes it from the feed
	reader := h.signUp(t, "mert")
	page := feed.NewPage(reader.deps(), post.FeedGeneral)
	defer page.Close()
	require.NoError(t, page.Load(ctx))

	cards := page.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, "Sessiz Gece", cards[0].Post().Title)

	require.NoError(t, cards[0].ToggleLike(ctx))
	state := cards[0].State()
	assert.Equal(t, 1, state.Post.LikesCount)
	assert.True(t, state.Post.IsLiked)

	// 4. The writer is notified
	unread, err := notification.NewClient(writer.gateway).UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)
}

func TestServer_FollowingFeedRequiresToken(t *testing.T) {
	h := newHarness(t)
	anonymous := h.client()

	_, err := post.NewClient(anonymous.gateway).Feed(context.Background(), post.FeedFollowing)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))
}

func TestServer_AdminRoutesRequireRole(t *testing.T) {
	h := newHarness(t)
	reader := h.signUp(t, "mert")

	_, err := admin.NewClient(reader.gateway).Users(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.Status(err))
}

func TestServer_LoginRejectsBadPassword(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	_, err := c.auth.Login(context.Background(), auth.LoginInput{Username: "mod", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.Status(err))
	assert.False(t, c.session.IsAuthenticated())
}

func TestServer_CheckUsername(t *testing.T) {
	h := newHarness(t)
	c := h.client()

	status, err := c.auth.CheckUsername(context.Background(), "MOD")
	require.NoError(t, err)
	assert.Equal(t, auth.UsernameTaken, status)

	status, err = c.auth.CheckUsername(context.Background(), "newcomer")
	require.NoError(t, err)
	assert.Equal(t, auth.UsernameAvailable, status)
}

func TestServer_ProfileEditing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	writer := h.signUp(t, "ayla")
	profiles := profile.NewClient(writer.gateway)

	require.NoError(t, profiles.Update(ctx, profile.UpdateInput{Bio: "Poet", InstagramURL: "instagram.com/ayla"}))

	path, err := profiles.UploadImage(ctx, profile.ImageCover, "cover.png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)
	assert.Contains(t, path, "/uploads/")

	person, posts, err := profiles.Get(ctx, "ayla")
	require.NoError(t, err)
	assert.Equal(t, "Poet", person.Bio)
	assert.Equal(t, "instagram.com/ayla", person.InstagramURL)
	assert.Equal(t, path, person.CoverImage)
	assert.Empty(t, posts)

	require.NoError(t, profiles.RemoveImage(ctx, profile.ImageCover))
	person, _, err = profiles.Get(ctx, "ayla")
	require.NoError(t, err)
	assert.Empty(t, person.CoverImage)
	assert.Equal(t, "Poet", person.Bio)
}

func TestServer_FollowFromCard(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	writer := h.signUp(t, "ayla")
	reader := h.signUp(t, "mert")

	author, err := h.store.Authenticate("ayla", "secret123")
	require.NoError(t, err)
	created, err := h.store.CreatePost(author.ID, "Poem", "Body", "")
	require.NoError(t, err)
	require.NoError(t, h.store.Approve(created.ID))

	page := feed.NewPage(reader.deps(), post.FeedGeneral)
	defer page.Close()
	require.NoError(t, page.Load(ctx))
	require.Len(t, page.Cards(), 1)

	card := page.Cards()[0]
	require.True(t, card.CanFollow())
	require.NoError(t, card.ToggleFollow(ctx))
	assert.True(t, card.State().IsFollowing)

	following := feed.NewPage(reader.deps(), post.FeedFollowing)
	defer following.Close()
	require.NoError(t, following.Load(ctx))
	assert.Len(t, following.Cards(), 1)

	items, err := notification.NewClient(writer.gateway).List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, notification.KindFollow, items[0].Type)
}

func TestServer_SearchAndComments(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	reader := h.signUp(t, "mert")

	author, err := h.store.Authenticate("mert", "secret123")
	require.NoError(t, err)
	created, err := h.store.CreatePost(author.ID, "Şiir Defteri", "Dizeler", "")
	require.NoError(t, err)
	require.NoError(t, h.store.Approve(created.ID))

	client := post.NewClient(reader.gateway)

	users, posts, err := client.Search(ctx, "şiir")
	require.NoError(t, err)
	assert.Empty(t, users)
	require.Len(t, posts, 1)

	require.NoError(t, client.Comment(ctx, created.ID, "Güzel"))
	comments, err := client.Comments(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Güzel", comments[0].Content)

	require.NoError(t, client.Report(ctx, created.ID, ""))
	err = client.Report(ctx, created.ID, "")
	assert.Equal(t, http.StatusConflict, apperr.Status(err))
}

// # Infrastructure

func TestServer_HealthProbes(t *testing.T) {
	h := newHarness(t)

	response, err := http.Get(h.server.URL + "/health")
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusOK, response.StatusCode)

	response, err = http.Get(h.server.URL + "/ready")
	require.NoError(t, err)
	defer response.Body.Close()

	var body struct {
		Status string        `json:"status"`
		Store  fakeapi.Stats `json:"store"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&body))
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, 1, body.Store.Users)
}

func TestServer_ErrorEnvelope(t *testing.T) {
	h := newHarness(t)

	request, err := http.NewRequest(http.MethodGet, h.server.URL+"/api/notifications", nil)
	require.NoError(t, err)
	request.Header.Set(constants.HeaderXRequestID, "req-1")

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Equal(t, "req-1", response.Header.Get(constants.HeaderXRequestID))

	var envelope struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, "Authentication required", envelope.Error)
	assert.Equal(t, apperr.CodeUnauthorized, envelope.Code)
}
