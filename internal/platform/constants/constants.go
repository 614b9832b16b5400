// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire client.

Categories:

  - Transport: header names and content types used by the gateway.
  - Session: durable storage keys for the token and the cached user record.
  - UI Limits: page sizes and input limits enforced before any network call.
  - Fake API: server timings and rate limits of the development API.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the page and card controllers.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "dizesi"
	AppVersion = "0.1.0-dev"
)

// # HTTP Headers

const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"

	ContentTypeJSON = "application/json"
	BearerPrefix    = "Bearer "
)

// # Session Storage Keys

const (
	// StorageKeyToken holds the opaque bearer token.
	StorageKeyToken = "authToken"

	// StorageKeyUser holds the serialized user record.
	StorageKeyUser = "userData"
)

// # UI Limits

const (
	// AdminPageSize is the fixed page size of the moderation tables.
	AdminPageSize = 5

	// CommentMaxLength is the input limit of the comment box, in characters.
	CommentMaxLength = 500

	// PostImageMaxBytes is the largest image accepted by the post composer.
	PostImageMaxBytes = 5 * 1024 * 1024

	// PreviewLength is how much post content a card shows before "Read more...".
	PreviewLength = 300
)

// # Client Timing

const (
	// DefaultRequestTimeout bounds a single gateway call when config does not.
	DefaultRequestTimeout = 15 * time.Second

	// StartupTimeout bounds session restore and storage connectivity checks.
	StartupTimeout = 10 * time.Second
)

// # Fake API Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// MaxUploadBytes bounds multipart bodies accepted by the fake API.
	MaxUploadBytes = 8 << 20
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in JWTs issued by the fake API.
	AuthIssuer = "dizesi.app"
)

// # JSON Field Identifiers

const (
	FieldError  = "error"
	FieldCode   = "code"
	FieldStatus = "status"
	FieldApp    = "app"
)
