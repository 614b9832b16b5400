// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package admin implements the moderation panel: the user list, the queue of
posts awaiting approval, and the reports filed against published posts.

# Architecture

  - Entities: PendingPost, Report (with the reported post and the reporter).
  - Transport: Client wraps the `/admin` endpoints.
  - Domain: Panel gates on the admin role, loads the three tabs, pages the
    moderation tables locally and edits them in place after each action.
*/
package admin

import (
	"context"
	"fmt"
	"net/http"

	"github.com/taibuivan/dizesi/internal/platform/gateway"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/internal/users/auth"
	"github.com/taibuivan/dizesi/pkg/pointer"
)

// # Domain Entities

// PendingPost is a post waiting for moderation.
type PendingPost struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Image     string        `json:"image,omitempty"`
	UserID    int64         `json:"userId"`
	CreatedAt string        `json:"created_at"`
	User      *post.UserRef `json:"user,omitempty"`
}

// Author returns the username of the post's author, or "" when unknown.
func (pending PendingPost) Author() string {
	if pending.User == nil {
		return ""
	}
	return pending.User.Username
}

// ReportedPost is the post a report points at.
type ReportedPost struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	Status   string `json:"status"`
}

// Reporter is the user who filed a report.
type Reporter struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Report is one moderation report.
type Report struct {
	ID        int64         `json:"id"`
	PostID    int64         `json:"post_id"`
	UserID    int64         `json:"user_id"`
	Reason    string        `json:"reason"`
	CreatedAt string        `json:"created_at"`
	Post      *ReportedPost `json:"post,omitempty"`
	User      *Reporter     `json:"user,omitempty"`
}

// ReasonText is the reason shown in the table.
func (report Report) ReasonText() string {
	if report.Reason == "" {
		return "No reason provided"
	}
	return report.Reason
}

// TargetID returns the id of the reported post, or 0 when the post is gone.
func (report Report) TargetID() int64 {
	if report.Post == nil {
		return 0
	}
	return report.Post.ID
}

// # Client

// API is the gateway surface used by the panel.
type API interface {
	Request(ctx context.Context, path string, options gateway.Options, out any) error
}

// Client wraps the admin endpoints.
type Client struct {
	api API
}

// NewClient constructs an admin [Client].
func NewClient(api API) *Client {
	return &Client{api: api}
}

// Users lists every account.
func (client *Client) Users(context context.Context) ([]auth.User, error) {
	var response struct {
		Users *[]auth.User `json:"users"`
	}
	if err := client.api.Request(context, "/admin/users", gateway.Options{}, &response); err != nil {
		return nil, fmt.Errorf("admin_users_failed: %w", err)
	}
	return pointer.Val(response.Users), nil
}

// Pending lists the posts awaiting approval.
func (client *Client) Pending(context context.Context) ([]PendingPost, error) {
	var response struct {
		Posts *[]PendingPost `json:"posts"`
	}
	if err := client.api.Request(context, "/admin/pending-posts", gateway.Options{}, &response); err != nil {
		return nil, fmt.Errorf("admin_pending_failed: %w", err)
	}
	return pointer.Val(response.Posts), nil
}

// Reports lists the open reports.
func (client *Client) Reports(context context.Context) ([]Report, error) {
	var response struct {
		Reports *[]Report `json:"reports"`
	}
	if err := client.api.Request(context, "/admin/reports", gateway.Options{}, &response); err != nil {
		return nil, fmt.Errorf("admin_reports_failed: %w", err)
	}
	return pointer.Val(response.Reports), nil
}

// Approve publishes a pending post.
func (client *Client) Approve(context context.Context, postID int64) error {
	return client.api.Request(context, fmt.Sprintf("/admin/posts/%d/approve", postID), gateway.Options{Method: http.MethodPatch}, nil)
}

// Reject deletes a pending post.
func (client *Client) Reject(context context.Context, postID int64) error {
	return client.api.Request(context, fmt.Sprintf("/admin/posts/%d/reject", postID), gateway.Options{Method: http.MethodDelete}, nil)
}

// DeletePost removes a published post.
func (client *Client) DeletePost(context context.Context, postID int64) error {
	return client.api.Request(context, fmt.Sprintf("/admin/posts/%d", postID), gateway.Options{Method: http.MethodDelete}, nil)
}
