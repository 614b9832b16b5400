// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"strings"
	"sync"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/platform/validate"
	"github.com/taibuivan/dizesi/internal/users/auth"
)

// # Errors

var (
	// ErrInFlight is returned when a control is triggered while its call is pending.
	ErrInFlight = apperr.Conflict("Action already in progress")

	// ErrAlreadyReported is returned once this session has reported the post.
	ErrAlreadyReported = apperr.Conflict("Post already reported")

	// ErrOwnPost is returned when following the author of one's own post.
	ErrOwnPost = apperr.ValidationError("You cannot follow yourself")
)

// FieldComment is the validation field of the comment box.
const FieldComment = "comment"

// # Dependencies

// Session is the read side of the session store.
type Session interface {
	Current() *auth.User
}

// Deps groups what every card (and the pages that build cards) needs.
type Deps struct {
	Client    *Client
	Session   Session
	Notifier  toast.Notifier
	PublicURL string
}

// # State

// CardState is a snapshot of one card.
type CardState struct {
	Post        Post
	IsFollowing bool

	// Busy flags: a control is disabled while its call is in flight.
	Liking     bool
	Following  bool
	Commenting bool
	Reporting  bool

	HasReported bool

	// Comment dialog
	CommentsOpen    bool
	CommentsLoading bool
	CommentsErr     error
	Comments        []Comment
	Draft           string
}

// # Card

// Card is the controller of one post card.
//
// # Concurrency
//
// Controls may be triggered from several goroutines. Each control admits a
// single call at a time; other controls stay usable meanwhile. Once the card
// is closed, calls that resolve later change nothing, publish nothing and
// raise no toast.
type Card struct {
	deps     Deps
	notifier toast.Notifier

	mu     sync.Mutex
	state  CardState
	closed bool

	// commentsGeneration discards comment lists from a dialog that was since
	// closed or reopened.
	commentsGeneration uint64

	listenerMu sync.Mutex
	listeners  map[int]func(CardState)
	listenerID int
}

// NewCard builds a card around its own copy of p.
func NewCard(deps Deps, p Post) *Card {
	return &Card{
		deps:      deps,
		notifier:  toast.OrDiscard(deps.Notifier),
		state:     CardState{Post: p, IsFollowing: p.User.IsFollowing},
		listeners: make(map[int]func(CardState)),
	}
}

// State returns a snapshot of the card.
func (card *Card) State() CardState {
	card.mu.Lock()
	defer card.mu.Unlock()
	return card.snapshot()
}

// Post returns the card's current copy of the post.
func (card *Card) Post() Post {
	return card.State().Post
}

// ID returns the post ID.
func (card *Card) ID() int64 {
	card.mu.Lock()
	defer card.mu.Unlock()
	return card.state.Post.ID
}

// CanFollow reports whether the follow control is shown: signed in and not
// the author.
func (card *Card) CanFollow() bool {
	user := card.deps.Session.Current()
	if user == nil {
		return false
	}
	return user.ID != card.Post().User.ID
}

// # Like

/*
ToggleLike flips the like optimistically and reconciles with the server.

Description: The flag and the count (floored at 0) change before the call.
On failure both are restored to their snapshot; on success the server's
likesCount and isLiked overwrite them.

Returns:
  - error: UNAUTHENTICATED, ErrInFlight, or the gateway failure
*/
func (card *Card) ToggleLike(ctx context.Context) error {
	if _, err := card.requireUser(ctx); err != nil {
		return err
	}

	// 1. Snapshot and apply optimistically
	card.mu.Lock()
	if card.state.Liking {
		card.mu.Unlock()
		return ErrInFlight
	}
	previousLiked, previousCount := card.state.Post.IsLiked, card.state.Post.LikesCount
	postID := card.state.Post.ID

	card.state.Post.IsLiked = !previousLiked
	if previousLiked {
		card.state.Post.LikesCount = max(0, previousCount-1)
	} else {
		card.state.Post.LikesCount = previousCount + 1
	}
	card.state.Liking = true
	card.mu.Unlock()
	card.publish()

	// 2. Call
	result, err := card.deps.Client.Like(ctx, postID)

	// 3. Reconcile
	card.mu.Lock()
	if card.closed {
		card.mu.Unlock()
		return err
	}
	card.state.Liking = false
	if err != nil {
		card.state.Post.IsLiked = previousLiked
		card.state.Post.LikesCount = previousCount
	} else {
		if result.IsLiked != nil {
			card.state.Post.IsLiked = *result.IsLiked
		}
		if result.LikesCount != nil {
			card.state.Post.LikesCount = max(0, *result.LikesCount)
		}
	}
	card.mu.Unlock()
	card.publish()

	if err != nil {
		card.notify(ctx, toast.Error("Error", "Failed to update like."))
		return err
	}
	return nil
}

// # Follow

/*
ToggleFollow asks the server to flip the follow on the post's author.

Description: Nothing changes before the call. The local flag is then set
strictly from the server's boolean, so a stale flag is always corrected.

Returns:
  - error: UNAUTHENTICATED, ErrOwnPost, ErrInFlight, or the gateway failure
*/
func (card *Card) ToggleFollow(ctx context.Context) error {
	user, err := card.requireUser(ctx)
	if err != nil {
		return err
	}

	card.mu.Lock()
	author := card.state.Post.User
	if author.ID == user.ID {
		card.mu.Unlock()
		return ErrOwnPost
	}
	if card.state.Following {
		card.mu.Unlock()
		return ErrInFlight
	}
	card.state.Following = true
	card.mu.Unlock()
	card.publish()

	result, err := card.deps.Client.Follow(ctx, author.ID)

	card.mu.Lock()
	if card.closed {
		card.mu.Unlock()
		return err
	}
	card.state.Following = false
	if err == nil && result.Following != nil {
		card.state.IsFollowing = *result.Following
		card.state.Post.User.IsFollowing = *result.Following
	}
	card.mu.Unlock()
	card.publish()

	if err != nil {
		card.notify(ctx, toast.Error("Error", "Could not update follow status."))
		return err
	}
	return nil
}

// SyncFollowState re-reads the follow flag from the author's profile. It is
// silent: a failed lookup keeps the embedded flag.
func (card *Card) SyncFollowState(ctx context.Context) error {
	user := card.deps.Session.Current()
	if user == nil {
		return nil
	}

	author := card.Post().User
	if author.ID == user.ID || author.Username == "" {
		return nil
	}

	following, err := card.deps.Client.FollowState(ctx, author.Username)
	if err != nil {
		return err
	}

	card.mu.Lock()
	if card.closed {
		card.mu.Unlock()
		return nil
	}
	// A toggle in flight will bring a fresher answer.
	if !card.state.Following {
		card.state.IsFollowing = following
		card.state.Post.User.IsFollowing = following
	}
	card.mu.Unlock()
	card.publish()
	return nil
}

// # Comments

// OpenComments opens the dialog and fetches the list fresh.
func (card *Card) OpenComments(ctx context.Context) error {
	card.mu.Lock()
	card.state.CommentsOpen = true
	card.mu.Unlock()

	return card.loadComments(ctx)
}

// CloseComments closes the dialog and forgets its list.
func (card *Card) CloseComments() {
	card.mu.Lock()
	card.commentsGeneration++
	card.state.CommentsOpen = false
	card.state.CommentsLoading = false
	card.state.CommentsErr = nil
	card.state.Comments = nil
	card.mu.Unlock()
	card.publish()
}

// SetDraft replaces the comment box content.
func (card *Card) SetDraft(text string) {
	card.mu.Lock()
	card.state.Draft = text
	card.mu.Unlock()
	card.publish()
}

/*
SubmitComment posts the draft (or text, when non-empty) as a comment.

Description: A signed-out session, an empty or whitespace-only body, or a
body over the length limit is rejected locally with a toast, without any
call. On success the draft is cleared, the visible counter grows by one and
the list is fetched again.

Returns:
  - error: UNAUTHENTICATED, VALIDATION_ERROR, ErrInFlight, or the gateway failure
*/
func (card *Card) SubmitComment(ctx context.Context, text string) error {
	if _, err := card.requireUser(ctx); err != nil {
		return err
	}

	card.mu.Lock()
	if text == "" {
		text = card.state.Draft
	}
	card.mu.Unlock()

	body := strings.TrimSpace(text)
	if body == "" {
		card.notify(ctx, toast.Error("Empty comment", "Please write a comment."))
		return validate.Field(FieldComment, "This field is required")
	}
	if err := (&validate.Validator{}).MaxLen(FieldComment, body, constants.CommentMaxLength).Err(); err != nil {
		card.notify(ctx, toast.Error("Comment too long", "Comments are limited to 500 characters."))
		return err
	}

	card.mu.Lock()
	if card.state.Commenting {
		card.mu.Unlock()
		return ErrInFlight
	}
	card.state.Commenting = true
	postID := card.state.Post.ID
	card.mu.Unlock()
	card.publish()

	if err := card.deps.Client.Comment(ctx, postID, body); err != nil {
		card.mu.Lock()
		if card.closed {
			card.mu.Unlock()
			return err
		}
		card.state.Commenting = false
		card.mu.Unlock()
		card.publish()

		card.notify(ctx, toast.Error("Error", "Could not post comment."))
		return err
	}

	card.mu.Lock()
	if card.closed {
		card.mu.Unlock()
		return nil
	}
	card.state.Draft = ""
	card.state.Post.CommentsCount++
	card.mu.Unlock()

	// The list is re-read rather than appended so order and authorship stay
	// server-authoritative. A failed refresh is shown in the dialog.
	_ = card.loadComments(ctx)

	card.mu.Lock()
	if card.closed {
		card.mu.Unlock()
		return nil
	}
	card.state.Commenting = false
	card.mu.Unlock()
	card.publish()
	return nil
}

func (card *Card) loadComments(ctx context.Context) error {
	card.mu.Lock()
	card.commentsGeneration++
	generation := card.commentsGeneration
	card.state.CommentsLoading = true
	card.state.CommentsErr = nil
	postID := card.state.Post.ID
	card.mu.Unlock()
	card.publish()

	comments, err := card.deps.Client.Comments(ctx, postID)

	card.mu.Lock()
	if card.closed || generation != card.commentsGeneration {
		card.mu.Unlock()
		return nil
	}
	card.state.CommentsLoading = false
	if err != nil {
		card.state.CommentsErr = err
	} else {
		card.state.Comments = comments
	}
	card.mu.Unlock()
	card.publish()

	return err
}

// # Report

/*
Report flags the post once per card.

Description: After one success further attempts return ErrAlreadyReported
without a call. The flag is a convenience only; the server rejects
duplicates on its own.

Returns:
  - error: UNAUTHENTICATED, ErrAlreadyReported, ErrInFlight, or the gateway failure
*/
func (card *Card) Report(ctx context.Context, reason string) error {
	if _, err := card.requireUser(ctx); err != nil {
		return err
	}

	card.mu.Lock()
	if card.state.HasReported {
		card.mu.Unlock()
		return ErrAlreadyReported
	}
	if card.state.Reporting {
		card.mu.Unlock()
		return ErrInFlight
	}
	card.state.Reporting = true
	postID := card.state.Post.ID
	card.mu.Unlock()
	card.publish()

	err := card.deps.Client.Report(ctx, postID, strings.TrimSpace(reason))

	card.mu.Lock()
	if card.closed {
		card.mu.Unlock()
		return err
	}
	card.state.Reporting = false
	if err == nil {
		card.state.HasReported = true
	}
	card.mu.Unlock()
	card.publish()

	if err != nil {
		card.notify(ctx, toast.Error("Error", "Could not report the post, or it was already reported."))
		return err
	}

	card.notify(ctx, toast.Info("Reported", "The post was reported to the moderators."))
	return nil
}

// # Share

// Share returns the public link of the post and confirms it with a toast.
func (card *Card) Share(ctx context.Context) string {
	link := ShareURL(card.deps.PublicURL, card.Post())
	card.notify(ctx, toast.Info("Link copied!", "The post URL was copied to the clipboard."))
	return link
}

// # Observation

// OnChange registers fn to run after every state change and returns its cancel func.
func (card *Card) OnChange(fn func(CardState)) func() {
	card.listenerMu.Lock()
	defer card.listenerMu.Unlock()

	card.listenerID++
	id := card.listenerID
	card.listeners[id] = fn

	return func() {
		card.listenerMu.Lock()
		defer card.listenerMu.Unlock()
		delete(card.listeners, id)
	}
}

func (card *Card) publish() {
	card.mu.Lock()
	if card.closed {
		card.mu.Unlock()
		return
	}
	snapshot := card.snapshot()
	card.mu.Unlock()

	card.listenerMu.Lock()
	listeners := make([]func(CardState), 0, len(card.listeners))
	for _, fn := range card.listeners {
		listeners = append(listeners, fn)
	}
	card.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

// notify raises t unless the card was closed.
func (card *Card) notify(ctx context.Context, t toast.Toast) {
	if card.Closed() {
		return
	}
	card.notifier.Notify(ctx, t)
}

// # Lifecycle

// Close unmounts the card: listeners are dropped and calls still in flight
// resolve without touching state.
func (card *Card) Close() {
	card.mu.Lock()
	card.closed = true
	card.mu.Unlock()

	card.listenerMu.Lock()
	card.listeners = make(map[int]func(CardState))
	card.listenerMu.Unlock()
}

// Closed reports whether [Card.Close] was called.
func (card *Card) Closed() bool {
	card.mu.Lock()
	defer card.mu.Unlock()
	return card.closed
}

// CloseAll closes every card of a page.
func CloseAll(cards []*Card) {
	for _, card := range cards {
		card.Close()
	}
}

// snapshot copies the state; callers hold mu.
func (card *Card) snapshot() CardState {
	copied := card.state
	copied.Comments = append([]Comment(nil), card.state.Comments...)
	return copied
}

func (card *Card) requireUser(ctx context.Context) (*auth.User, error) {
	user := card.deps.Session.Current()
	if user == nil {
		card.notify(ctx, toast.Error("Login required", "Please sign in."))
		return nil, apperr.Unauthenticated()
	}
	return user, nil
}
