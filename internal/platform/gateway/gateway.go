// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package gateway is the single boundary between the client and the remote REST API.

Every domain operation (login, feed, like, follow, comment, report, moderation,
profile upload) is a thin named wrapper around one of two primitives:

  - [Client.Request]: JSON body (or none), JSON response.
  - [Client.RequestMultipart]: multipart form body, JSON response.

# Contract

  - One attempt per call. No retry, no backoff, no caching, no de-duplication:
    two identical concurrent calls are two requests.
  - Each call is bounded by the configured timeout.
  - A non-2xx status becomes [apperr.Transport] carrying only the status code.
    The response body of a failure is never parsed.
  - The bearer token is read from the [TokenSource] at call time, so a login
    or logout is visible to the very next call.
*/
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/ctxutil"
	"github.com/taibuivan/dizesi/pkg/uuid"
)

// # Contracts

// TokenSource supplies the bearer token of the active session.
//
// An empty string means "no session": the Authorization header is omitted.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to [TokenSource].
type TokenFunc func() string

// Token implements [TokenSource].
func (f TokenFunc) Token() string { return f() }

// Options describes a JSON call.
type Options struct {
	// Method defaults to GET.
	Method string

	// Body is JSON-encoded when non-nil.
	Body any

	// Anonymous suppresses the Authorization header (login, register, username check).
	Anonymous bool
}

// # Client

// Client issues calls against one API base URL.
//
// # Concurrency
//
// Client is safe for concurrent use; it holds no per-call state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	timeout    time.Duration
	logger     *slog.Logger
}

// Option customizes a [Client].
type Option func(*Client)

// WithHTTPClient replaces the underlying [http.Client].
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) { client.httpClient = httpClient }
}

// WithTimeout sets the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(client *Client) {
		if timeout > 0 {
			client.timeout = timeout
		}
	}
}

// WithLogger sets the logger used when the call context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) { client.logger = logger }
}

// New constructs a gateway [Client].
//
// # Parameters
//   - baseURL: API root, e.g. "https://dizesi-backend.onrender.com/api".
//   - tokens: Source of the bearer token, usually the session store.
func New(baseURL string, tokens TokenSource, options ...Option) *Client {
	client := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		tokens:     tokens,
		timeout:    constants.DefaultRequestTimeout,
		logger:     slog.Default(),
	}

	for _, option := range options {
		option(client)
	}

	if client.tokens == nil {
		client.tokens = TokenFunc(func() string { return "" })
	}

	return client
}

// BaseURL returns the API root the client talks to.
func (client *Client) BaseURL() string {
	return client.baseURL
}

// # Primitives

/*
Request issues a JSON call and decodes the response body into out.

Parameters:
  - context: context.Context
  - path: API path starting with "/", including any query string
  - options: Options
  - out: Pointer to the destination value, or nil to discard the body

Returns:
  - error: apperr.Transport, apperr.Timeout, or nil
*/
func (client *Client) Request(context context.Context, path string, options Options, out any) error {
	method := options.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if options.Body != nil {
		payload, err := json.Marshal(options.Body)
		if err != nil {
			return fmt.Errorf("gateway: encode body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	header := http.Header{}
	header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	header.Set(constants.HeaderAccept, constants.ContentTypeJSON)

	return client.send(context, method, path, body, header, !options.Anonymous, out)
}

/*
RequestMultipart submits form as a multipart POST.

The Content-Type header is the one produced by the multipart encoder, which
carries the boundary; the JSON content type is never set on these calls.
*/
func (client *Client) RequestMultipart(context context.Context, path string, form *Form, out any) error {
	return client.sendMultipart(context, http.MethodPost, path, form, out)
}

// PatchMultipart is [Client.RequestMultipart] with the PATCH verb, used by the
// profile endpoint.
func (client *Client) PatchMultipart(context context.Context, path string, form *Form, out any) error {
	return client.sendMultipart(context, http.MethodPatch, path, form, out)
}

func (client *Client) sendMultipart(context context.Context, method, path string, form *Form, out any) error {
	if form == nil {
		form = NewForm()
	}

	body, contentType, err := form.encode()
	if err != nil {
		return fmt.Errorf("gateway: encode form: %w", err)
	}

	header := http.Header{}
	header.Set(constants.HeaderContentType, contentType)
	header.Set(constants.HeaderAccept, constants.ContentTypeJSON)

	return client.send(context, method, path, body, header, true, out)
}

// # Transport

// send performs exactly one HTTP exchange.
func (client *Client) send(ctx context.Context, method, path string, body io.Reader, header http.Header, withAuth bool, out any) error {

	// 1. Bound the call
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	// 2. Correlate
	requestID := ctxutil.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.New()
	}
	logger := client.loggerFor(ctx).With(
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
	)

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}

	request.Header = header
	request.Header.Set(constants.HeaderXRequestID, requestID)

	// 3. Attach the bearer token when a session exists
	if withAuth {
		if token := client.tokens.Token(); token != "" {
			request.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
		}
	}

	startTime := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		logger.Warn("api_call_failed", slog.Any("error", err))
		return transportFailure(ctx, err)
	}
	defer response.Body.Close()

	logAttrs := []any{
		slog.Int("status", response.StatusCode),
		slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
	}

	// 4. Normalize failures to a status-only error
	if response.StatusCode < 200 || response.StatusCode > 299 {
		logger.Warn("api_call_rejected", logAttrs...)
		_, _ = io.Copy(io.Discard, response.Body)
		return apperr.Transport(response.StatusCode, nil)
	}

	logger.Debug("api_call_finished", logAttrs...)

	// 5. Decode the success body
	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return transportFailure(ctx, err)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return apperr.Internal(fmt.Errorf("gateway: decode %s %s: %w", method, path, err))
	}

	return nil
}

// loggerFor prefers a call-scoped logger carried by the context.
func (client *Client) loggerFor(ctx context.Context) *slog.Logger {
	if logger := ctxutil.Logger(ctx, nil); logger != nil {
		return logger
	}
	return client.logger
}

// transportFailure classifies an exchange that produced no usable response.
func transportFailure(ctx context.Context, err error) error {
	if ae := apperr.FromContext(ctx.Err()); ae != nil {
		return ae
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(err)
	}
	return apperr.Unreachable(err)
}
