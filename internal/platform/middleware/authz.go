// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/ctxutil"
	"github.com/taibuivan/dizesi/internal/platform/respond"
	"github.com/taibuivan/dizesi/internal/platform/sec"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*sec.AuthClaims, error)
}

var errAuthRequired = apperr.Unauthorized("Authentication required")

/*
Authenticate attaches the caller's claims when a valid bearer token is sent.

Description: Public routes (the general feed, profiles, search) still serve a
caller whose token is malformed or expired; they see the anonymous view. The
rejection is logged, and any route behind [RequireAuth] answers 401.
*/
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, present := bearerToken(request)
			if !present {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				ctxutil.Logger(request.Context(), slog.Default()).DebugContext(request.Context(), "token_rejected",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(writer, request)
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithClaims(request.Context(), claims)))
		})
	}
}

// bearerToken reads "Authorization: Bearer <token>". A header in any other
// form counts as present but yields an empty, unverifiable token.
func bearerToken(request *http.Request) (string, bool) {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", true
	}
	return strings.TrimSpace(token), true
}

// RequireAuth answers 401 unless [Authenticate] attached claims.
func RequireAuth(next http.Handler) http.Handler {
	return guard(next, func(*sec.AuthClaims) error { return nil })
}

// RequireRole answers 401 for anonymous callers and 403 for callers whose
// role ranks below role.
func RequireRole(role sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return guard(next, func(claims *sec.AuthClaims) error {
			if !sec.ParseRole(claims.Role).AtLeast(role) {
				return apperr.Forbidden("Insufficient permissions")
			}
			return nil
		})
	}
}

func guard(next http.Handler, allow func(*sec.AuthClaims) error) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.Claims(request.Context())
		if claims == nil {
			respond.Error(writer, request, errAuthRequired)
			return
		}
		if err := allow(claims); err != nil {
			respond.Error(writer, request, err)
			return
		}
		next.ServeHTTP(writer, request)
	})
}
