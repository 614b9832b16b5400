// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fakeapi

import (
	"net/http"

	requestutil "github.com/taibuivan/dizesi/internal/platform/request"
	"github.com/taibuivan/dizesi/internal/platform/respond"
)

// # Moderation Listings

// GET /api/admin/users.
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{"users": handler.store.Users()})
}

// GET /api/admin/pending-posts.
func (handler *Handler) listPending(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{"posts": handler.store.Pending()})
}

// GET /api/admin/reports.
func (handler *Handler) listReports(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]any{"reports": handler.store.Reports()})
}

// # Moderation Actions

/*
PATCH /api/admin/posts/{id}/approve.

Response:
  - 200: {"message": string}
  - 404: Post not found
  - 409: ErrNotPending
*/
func (handler *Handler) approve(writer http.ResponseWriter, request *http.Request) {
	handler.moderate(writer, request, handler.store.Approve, "Post approved")
}

/*
DELETE /api/admin/posts/{id}/reject.

Response:
  - 200: {"message": string}
  - 404: Post not found
  - 409: ErrNotPending
*/
func (handler *Handler) reject(writer http.ResponseWriter, request *http.Request) {
	handler.moderate(writer, request, handler.store.Reject, "Post rejected and deleted")
}

/*
DELETE /api/admin/posts/{id}.

Description: Removes any post, typically one that was reported, along with
its comments, likes and reports.

Response:
  - 200: {"message": string}
  - 404: Post not found
*/
func (handler *Handler) forceDelete(writer http.ResponseWriter, request *http.Request) {
	handler.moderate(writer, request, handler.store.ForceDelete, "Post deleted")
}

// moderate applies action to the post named by the {id} path parameter.
func (handler *Handler) moderate(writer http.ResponseWriter, request *http.Request, action func(int64) error, message string) {
	postID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := action(postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, message)
}
