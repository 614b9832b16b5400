// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/users/auth"
)

type call struct {
	Path    string
	Options gateway.Options
}

// fakeAPI answers every call with a canned JSON body or error.
type fakeAPI struct {
	calls    []call
	response string
	err      error
}

func (api *fakeAPI) Request(_ context.Context, path string, options gateway.Options, out any) error {
	api.calls = append(api.calls, call{Path: path, Options: options})
	if api.err != nil {
		return api.err
	}
	if out == nil || api.response == "" {
		return nil
	}
	return json.Unmarshal([]byte(api.response), out)
}

func newService(api *fakeAPI) (*auth.Service, *auth.Store, *toast.Recorder) {
	store := auth.NewStore(auth.NewMemoryStorage(), nil)
	recorder := &toast.Recorder{}
	return auth.NewService(api, store, recorder), store, recorder
}

func TestLogin_EstablishesSession(t *testing.T) {
	api := &fakeAPI{response: `{"token":"tok-9","user":{"id":9,"username":"deniz","full_name":"Deniz Kaya","role":"admin"}}`}
	service, store, recorder := newService(api)

	user, err := service.Login(context.Background(), auth.LoginInput{Username: "deniz", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "Deniz Kaya", user.FullName)
	assert.True(t, user.Admin())
	assert.Equal(t, "tok-9", store.Token())

	require.Len(t, api.calls, 1)
	assert.Equal(t, "/auth/login", api.calls[0].Path)
	assert.True(t, api.calls[0].Options.Anonymous)

	last, _ := recorder.Last()
	assert.Equal(t, toast.VariantDefault, last.Variant)
}

func TestLogin_RejectionPropagatesUnchanged(t *testing.T) {
	rejection := apperr.Transport(401, nil)
	service, store, recorder := newService(&fakeAPI{err: rejection})

	_, err := service.Login(context.Background(), auth.LoginInput{Username: "deniz", Password: "bad"})

	assert.Same(t, rejection, err)
	assert.False(t, store.IsAuthenticated())
	last, _ := recorder.Last()
	assert.Equal(t, "Login failed", last.Title)
}

func TestLogin_RequiresFields(t *testing.T) {
	api := &fakeAPI{}
	service, _, _ := newService(api)

	_, err := service.Login(context.Background(), auth.LoginInput{Username: "  "})

	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Empty(t, api.calls)
}

func TestRegister_PasswordMismatchNeverCalls(t *testing.T) {
	api := &fakeAPI{}
	service, _, recorder := newService(api)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		FullName: "Ece", Username: "ece", Email: "ece@example.com",
		Password: "secret1", ConfirmPassword: "secret2",
	})

	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
	assert.Empty(t, api.calls)
	last, _ := recorder.Last()
	assert.Equal(t, "Password mismatch", last.Title)
}

func TestRegister_EstablishesSession(t *testing.T) {
	api := &fakeAPI{response: `{"token":"tok-new","user":{"id":3,"username":"ece","fullName":"Ece"}}`}
	service, store, _ := newService(api)

	_, err := service.Register(context.Background(), auth.RegisterInput{
		FullName: "Ece", Username: "ece", Email: "ece@example.com",
		Password: "secret", ConfirmPassword: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "tok-new", store.Token())
	require.Len(t, api.calls, 1)
	assert.Equal(t, "/auth/register", api.calls[0].Path)
	assert.True(t, api.calls[0].Options.Anonymous)
}

func TestCheckUsername(t *testing.T) {
	api := &fakeAPI{response: `{"available":false}`}
	service, _, _ := newService(api)

	status, err := service.CheckUsername(context.Background(), "şule k")
	require.NoError(t, err)
	assert.Equal(t, auth.UsernameTaken, status)
	assert.Equal(t, "/auth/check-username?username=%C5%9Fule+k", api.calls[0].Path)

	status, err = service.CheckUsername(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, auth.UsernameIdle, status)
	assert.Len(t, api.calls, 1)
}

func TestLogout_BlocksAuthenticatedActions(t *testing.T) {
	api := &fakeAPI{response: `{"token":"tok","user":{"id":1,"username":"a"}}`}
	service, _, _ := newService(api)

	_, err := service.Login(context.Background(), auth.LoginInput{Username: "a", Password: "b"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background()))

	_, err = service.RequireUser()
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
}
