// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/ctxutil"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
)

func staticToken(token string) gateway.TokenSource {
	return gateway.TokenFunc(func() string { return token })
}

/*
TestRequest_AttachesHeaders verifies JSON content type, bearer token and request ID.
*/
func TestRequest_AttachesHeaders(t *testing.T) {
	var captured *http.Request
	var body map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	defer server.Close()

	client := gateway.New(server.URL, staticToken("tok-1"))

	var out struct {
		OK bool `json:"ok"`
	}
	err := client.Request(context.Background(), "/posts/like", gateway.Options{
		Method: http.MethodPost,
		Body:   map[string]int{"postId": 7},
	}, &out)
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "/posts/like", captured.URL.Path)
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer tok-1", captured.Header.Get("Authorization"))
	assert.NotEmpty(t, captured.Header.Get("X-Request-ID"))
	assert.Equal(t, float64(7), body["postId"])
}

/*
TestRequest_OmitsAuthorization covers the no-session and anonymous cases.
*/
func TestRequest_OmitsAuthorization(t *testing.T) {
	var headers []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{}`)
	}))
	defer server.Close()

	noSession := gateway.New(server.URL, staticToken(""))
	require.NoError(t, noSession.Request(context.Background(), "/posts", gateway.Options{}, nil))

	withSession := gateway.New(server.URL, staticToken("tok"))
	require.NoError(t, withSession.Request(context.Background(), "/auth/login", gateway.Options{
		Method:    http.MethodPost,
		Anonymous: true,
	}, nil))

	assert.Equal(t, []string{"", ""}, headers)
}

/*
TestRequest_PropagatesRequestID reuses a correlation ID carried by the context.
*/
func TestRequest_PropagatesRequestID(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
	}))
	defer server.Close()

	ctx := ctxutil.WithRequestID(context.Background(), "rid-123")
	require.NoError(t, gateway.New(server.URL, nil).Request(ctx, "/notifications", gateway.Options{}, nil))

	assert.Equal(t, "rid-123", got)
}

/*
TestRequest_NonSuccessStatus normalizes every failure to a status-only error.
*/
func TestRequest_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusInternalServerError} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error":"detailed server message","code":"X"}`)
		}))

		err := gateway.New(server.URL, nil).Request(context.Background(), "/posts", gateway.Options{}, &struct{}{})
		server.Close()

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, apperr.CodeTransport, ae.Code)
		assert.Equal(t, status, ae.HTTPStatus)
		assert.NotContains(t, ae.Message, "detailed server message")
	}
}

/*
TestRequest_SingleAttempt confirms that failures are never retried.
*/
func TestRequest_SingleAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := gateway.New(server.URL, nil).Request(context.Background(), "/posts", gateway.Options{}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

/*
TestRequest_Timeout bounds a hung call.
*/
func TestRequest_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := gateway.New(server.URL, nil, gateway.WithTimeout(50*time.Millisecond))
	err := client.Request(context.Background(), "/posts", gateway.Options{}, nil)

	assert.True(t, apperr.HasCode(err, apperr.CodeTimeout), "got %v", err)
}

/*
TestRequest_Unreachable maps a connection failure to a status-less transport error.
*/
func TestRequest_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	err := gateway.New(url, nil).Request(context.Background(), "/posts", gateway.Options{}, nil)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeTransport, ae.Code)
	assert.Equal(t, 0, ae.HTTPStatus)
}

/*
TestRequestMultipart sends a POST with a boundary content type and file parts.
*/
func TestRequestMultipart(t *testing.T) {
	var (
		method      string
		contentType string
		auth        string
		title       string
		fileBody    string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		auth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		title = r.FormValue("title")

		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		raw, _ := io.ReadAll(file)
		fileBody = string(raw)

		_, _ = io.WriteString(w, `{"id":1}`)
	}))
	defer server.Close()

	form := gateway.NewForm().
		Field("title", "Gece").
		Field("content", "...").
		File("image", "gece.png", strings.NewReader("PNGDATA"))

	var out struct {
		ID int64 `json:"id"`
	}
	err := gateway.New(server.URL, staticToken("tok")).RequestMultipart(context.Background(), "/posts", form, &out)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "Gece", title)
	assert.Equal(t, "PNGDATA", fileBody)
	assert.Equal(t, int64(1), out.ID)
}

/*
TestPatchMultipart uses the PATCH verb for the profile endpoint.
*/
func TestPatchMultipart(t *testing.T) {
	var method, flag string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		_ = r.ParseMultipartForm(1 << 20)
		flag = r.FormValue("remove_cover_image")
	}))
	defer server.Close()

	form := gateway.NewForm().Field("remove_cover_image", "true")
	require.NoError(t, gateway.New(server.URL, nil).PatchMultipart(context.Background(), "/profile", form, nil))

	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "true", flag)
}
