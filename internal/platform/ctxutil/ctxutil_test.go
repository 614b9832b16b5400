// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/ctxutil"
	"github.com/taibuivan/dizesi/internal/platform/sec"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.RequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "rid-1")
	assert.Equal(t, "rid-1", ctxutil.RequestID(ctx))
}

func TestLogger_FallsBackWhenUnset(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := slog.New(slog.NewJSONHandler(io.Discard, nil))

	ctx := context.Background()
	assert.Same(t, fallback, ctxutil.Logger(ctx, fallback))
	assert.Nil(t, ctxutil.Logger(ctx, nil))

	ctx = ctxutil.WithLogger(ctx, scoped)
	assert.Same(t, scoped, ctxutil.Logger(ctx, fallback))
}

func TestClaims(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.Claims(ctx))

	ctx = ctxutil.WithClaims(ctx, &sec.AuthClaims{UserID: 12, Username: "ayse", Role: string(sec.RoleAdmin)})
	claims := ctxutil.Claims(ctx)

	require.NotNil(t, claims)
	assert.Equal(t, int64(12), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}
