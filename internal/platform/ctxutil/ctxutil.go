// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil carries call-scoped values through [context.Context].
//
// The gateway reads the request ID and the logger from here to correlate an
// outgoing call; the fake API stores the verified token claims for its
// handlers. Keys are private, so only this package can set or read them.
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/dizesi/internal/platform/sec"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	loggerKey
	claimsKey
)

// # Correlation

// WithRequestID tags ctx with the X-Request-ID value.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the tag set by [WithRequestID], or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// # Logging

// WithLogger attaches a call-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Logger returns the call-scoped logger, or fallback when none was attached.
func Logger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}

// # Identity

// WithClaims stores the verified token claims of the caller.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Claims returns the caller's claims, or nil for an anonymous request.
func Claims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(claimsKey).(*sec.AuthClaims)
	return claims
}
