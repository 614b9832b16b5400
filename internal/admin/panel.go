// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package admin

import (
	"context"
	"errors"
	"sync"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/fetch"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/internal/users/auth"
	"github.com/taibuivan/dizesi/pkg/pagination"
	"github.com/taibuivan/dizesi/pkg/slice"
)

// ErrNotAdmin is returned for every panel operation without an admin session.
var ErrNotAdmin = apperr.Forbidden("You do not have permission to access this page.")

// MessageReportsFailed is the inline error of the reports tab.
const MessageReportsFailed = "Failed to fetch reports."

// Board is the users tab and the pending queue, loaded together.
type Board struct {
	Users   []auth.User
	Pending []PendingPost
}

// Panel is the controller of the admin page.
type Panel struct {
	client   *Client
	session  post.Session
	notifier toast.Notifier

	board   *fetch.Resource[Board]
	reports *fetch.Resource[[]Report]

	mu          sync.Mutex
	pendingPage int
	reportsPage int
}

// NewPanel constructs the admin panel.
func NewPanel(client *Client, session post.Session, notifier toast.Notifier) *Panel {
	panel := &Panel{
		client:      client,
		session:     session,
		notifier:    toast.OrDiscard(notifier),
		pendingPage: pagination.DefaultPage,
		reportsPage: pagination.DefaultPage,
	}
	panel.board = fetch.New(panel.fetchBoard)
	panel.reports = fetch.New(client.Reports)
	return panel
}

// fetchBoard loads users then pending posts, one after the other.
func (panel *Panel) fetchBoard(ctx context.Context) (Board, error) {
	users, err := panel.client.Users(ctx)
	if err != nil {
		return Board{}, err
	}
	pending, err := panel.client.Pending(ctx)
	if err != nil {
		return Board{}, err
	}
	return Board{Users: users, Pending: pending}, nil
}

// # Access

/*
Gate checks the session before any admin call.

Returns:
  - error: ErrNotAdmin (after an "Unauthorized" toast) for non-admins
*/
func (panel *Panel) Gate(ctx context.Context) error {
	if panel.session.Current().Admin() {
		return nil
	}
	panel.notifier.Notify(ctx, toast.Error("Unauthorized", "You do not have permission to access this page."))
	return ErrNotAdmin
}

// # Loading

/*
Load fills the three tabs.

Description: The board (users then pending posts) and the reports are
fetched concurrently and fail independently. A board failure toasts; a
reports failure only sets the tab's error.

Parameters:
  - ctx: context.Context

Returns:
  - error: ErrNotAdmin, or the joined load failures
*/
func (panel *Panel) Load(ctx context.Context) error {
	if err := panel.Gate(ctx); err != nil {
		return err
	}

	var boardErr, reportsErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, boardErr = panel.board.Load(ctx)
	}()
	go func() {
		defer wg.Done()
		_, reportsErr = panel.reports.Load(ctx)
	}()
	wg.Wait()

	boardErr = ignoreSuperseded(boardErr)
	reportsErr = ignoreSuperseded(reportsErr)

	if boardErr != nil {
		panel.notifier.Notify(ctx, toast.Error("Error", "Failed to fetch data."))
	}
	panel.clampPages()
	return errors.Join(boardErr, reportsErr)
}

func ignoreSuperseded(err error) error {
	if errors.Is(err, fetch.ErrSuperseded) {
		return nil
	}
	return err
}

// Users returns the users tab.
func (panel *Panel) Users() []auth.User {
	return panel.board.Data().Users
}

// BoardState exposes the shared loading flag of users and pending posts.
func (panel *Panel) BoardState() fetch.State[Board] {
	return panel.board.State()
}

// ReportsState exposes the loading and error flags of the reports tab.
func (panel *Panel) ReportsState() fetch.State[[]Report] {
	return panel.reports.State()
}

// ReportsMessage is the inline error of the reports tab, or "".
func (panel *Panel) ReportsMessage() string {
	if panel.reports.State().Err != nil {
		return MessageReportsFailed
	}
	return ""
}

// Close unmounts the panel.
func (panel *Panel) Close() {
	panel.board.Close()
	panel.reports.Close()
}

// # Pagination

// PendingPage returns the visible slice of the pending queue.
func (panel *Panel) PendingPage() ([]PendingPost, pagination.Meta) {
	panel.mu.Lock()
	page := panel.pendingPage
	panel.mu.Unlock()
	return pagination.Slice(panel.board.Data().Pending, page, constants.AdminPageSize)
}

// ReportsPage returns the visible slice of the reports.
func (panel *Panel) ReportsPage() ([]Report, pagination.Meta) {
	panel.mu.Lock()
	page := panel.reportsPage
	panel.mu.Unlock()
	return pagination.Slice(panel.reports.Data(), page, constants.AdminPageSize)
}

// SetPendingPage moves the pending table to page (clamped).
func (panel *Panel) SetPendingPage(page int) {
	total := pagination.PageCount(len(panel.board.Data().Pending), constants.AdminPageSize)
	panel.mu.Lock()
	panel.pendingPage = pagination.Clamp(page, total)
	panel.mu.Unlock()
}

// SetReportsPage moves the reports table to page (clamped).
func (panel *Panel) SetReportsPage(page int) {
	total := pagination.PageCount(len(panel.reports.Data()), constants.AdminPageSize)
	panel.mu.Lock()
	panel.reportsPage = pagination.Clamp(page, total)
	panel.mu.Unlock()
}

func (panel *Panel) clampPages() {
	panel.mu.Lock()
	pending, reports := panel.pendingPage, panel.reportsPage
	panel.mu.Unlock()

	panel.SetPendingPage(pending)
	panel.SetReportsPage(reports)
}

// # Moderation

// Approve publishes a pending post and drops it from the queue.
func (panel *Panel) Approve(ctx context.Context, postID int64) error {
	return panel.moderate(ctx, postID, panel.client.Approve, "Post approved", "Failed to approve post")
}

// Reject deletes a pending post and drops it from the queue.
func (panel *Panel) Reject(ctx context.Context, postID int64) error {
	return panel.moderate(ctx, postID, panel.client.Reject, "Post rejected and deleted", "Failed to reject post")
}

func (panel *Panel) moderate(ctx context.Context, postID int64, call func(context.Context, int64) error, success, failure string) error {
	if err := panel.Gate(ctx); err != nil {
		return err
	}

	if err := call(ctx, postID); err != nil {
		panel.notifier.Notify(ctx, toast.Error("Error", failure))
		return err
	}

	panel.notifier.Notify(ctx, toast.Info(success, ""))
	panel.board.Mutate(func(board Board) Board {
		board.Pending = slice.Filter(board.Pending, func(p PendingPost) bool { return p.ID != postID })
		return board
	})
	panel.clampPages()
	return nil
}

/*
DeleteReportedPost removes a reported post and every report that targets it.

Parameters:
  - ctx: context.Context
  - postID: int64

Returns:
  - error: ErrNotAdmin or gateway failures
*/
func (panel *Panel) DeleteReportedPost(ctx context.Context, postID int64) error {
	if err := panel.Gate(ctx); err != nil {
		return err
	}

	if err := panel.client.DeletePost(ctx, postID); err != nil {
		panel.notifier.Notify(ctx, toast.Error("Error", "Failed to delete post"))
		return err
	}

	panel.notifier.Notify(ctx, toast.Info("Post deleted", ""))
	panel.reports.Mutate(func(reports []Report) []Report {
		return slice.Filter(reports, func(r Report) bool { return r.TargetID() != postID })
	})
	panel.clampPages()
	return nil
}

// DismissReport hides one report locally. The server keeps it.
func (panel *Panel) DismissReport(ctx context.Context, reportID int64) error {
	if err := panel.Gate(ctx); err != nil {
		return err
	}

	panel.reports.Mutate(func(reports []Report) []Report {
		return slice.Filter(reports, func(r Report) bool { return r.ID != reportID })
	})
	panel.clampPages()
	return nil
}
