// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/platform/validate"
	"github.com/taibuivan/dizesi/internal/social/post"
)

// Composer field names.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldImage   = "image"
)

// ErrImageTooLarge is returned for an image over [constants.PostImageMaxBytes].
var ErrImageTooLarge = validate.Field(FieldImage, "Please select an image smaller than 5MB.")

// Composer is the controller of the "write" page.
type Composer struct {
	deps     post.Deps
	notifier toast.Notifier

	mu         sync.Mutex
	submitting bool
}

// NewComposer constructs a [Composer].
func NewComposer(deps post.Deps) *Composer {
	return &Composer{deps: deps, notifier: toast.OrDiscard(deps.Notifier)}
}

/*
Submit validates and publishes a draft.

Description: Title and content are required and the optional image must fit
the size limit; every check runs before the call. The image is buffered so
its size is known. Published posts enter moderation.

Parameters:
  - ctx: context.Context
  - draft: post.Draft

Returns:
  - *post.Post: The created post as returned by the server
  - error: UNAUTHENTICATED, VALIDATION_ERROR, ErrImageTooLarge, or the gateway failure
*/
func (composer *Composer) Submit(ctx context.Context, draft post.Draft) (*post.Post, error) {
	if composer.deps.Session.Current() == nil {
		composer.notifier.Notify(ctx, toast.Error("Login required", "Please sign in."))
		return nil, apperr.Unauthenticated()
	}

	// 1. Required fields
	validator := &validate.Validator{}
	validator.Required(FieldTitle, draft.Title).
		Required(FieldContent, draft.Content)
	if err := validator.Err(); err != nil {
		composer.notifier.Notify(ctx, toast.Error("Missing fields", "Title and content are required."))
		return nil, err
	}

	// 2. Image size
	if draft.Image != nil {
		buffered, err := readLimited(draft.Image, constants.PostImageMaxBytes)
		if err != nil {
			composer.notifier.Notify(ctx, toast.Error("File too large", "Please select an image smaller than 5MB."))
			return nil, err
		}
		draft.Image = buffered
	}

	composer.mu.Lock()
	if composer.submitting {
		composer.mu.Unlock()
		return nil, post.ErrInFlight
	}
	composer.submitting = true
	composer.mu.Unlock()

	defer func() {
		composer.mu.Lock()
		composer.submitting = false
		composer.mu.Unlock()
	}()

	// 3. Publish
	created, err := composer.deps.Client.Create(ctx, draft)
	if err != nil {
		composer.notifier.Notify(ctx, toast.Error("Error", "Failed to create post. Please try again."))
		return nil, err
	}

	composer.notifier.Notify(ctx, toast.Info("Post created!", "Your post has been published successfully."))
	return created, nil
}

// readLimited reads r fully, failing with [ErrImageTooLarge] past limit bytes.
func readLimited(r io.Reader, limit int64) (*bytes.Reader, error) {
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("feed: read image: %w", err)
	}
	if int64(len(raw)) > limit {
		return nil, ErrImageTooLarge
	}
	return bytes.NewReader(raw), nil
}
