// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fakeapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	requestutil "github.com/taibuivan/dizesi/internal/platform/request"
	"github.com/taibuivan/dizesi/internal/platform/respond"
	"github.com/taibuivan/dizesi/internal/platform/validate"
	"github.com/taibuivan/dizesi/internal/social/post"
	"github.com/taibuivan/dizesi/pkg/uuid"
)

// # Feed

/*
GET /api/posts.

Request:
  - query: feed ("general" or "following")

Response:
  - 200: {"posts": []post.Post}
  - 401: Authentication required for the following feed
*/
func (handler *Handler) feed(writer http.ResponseWriter, request *http.Request) {
	following := request.URL.Query().Get("feed") == string(post.FeedFollowing)

	viewerID := requestutil.OptionalUserID(request)
	if following && viewerID == 0 {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	respond.OK(writer, map[string]any{"posts": handler.store.Feed(viewerID, following)})
}

// # Authoring

/*
POST /api/posts.

Description: Submits a post for moderation. The body is multipart with
"title", "content" and an optional "image" file.

Response:
  - 201: post.Post (status "pending")
  - 400: Validation: Missing fields or oversized image
  - 401: Authentication required
*/
func (handler *Handler) createPost(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title := strings.TrimSpace(request.FormValue("title"))
	content := strings.TrimSpace(request.FormValue("content"))

	validator := &validate.Validator{}
	validator.Required("title", title).Required("content", content)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.storeFormFile(request, "image", constants.PostImageMaxBytes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.store.CreatePost(userID, title, content, image)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
DELETE /api/posts/{id}.

Response:
  - 204: No Content
  - 403: ErrNotAuthor
  - 404: Post not found
*/
func (handler *Handler) deletePost(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.store.DeletePost(userID, postID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Interactions

/*
POST /api/posts/like.

Request:
  - body: {"postId": int}

Response:
  - 200: {"likesCount": int, "isLiked": bool}
  - 404: Post not found
*/
func (handler *Handler) like(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		PostID int64 `json:"postId"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.PostID <= 0 {
		respond.Error(writer, request, requestutil.ErrInvalidID)
		return
	}

	count, liked, err := handler.store.ToggleLike(userID, input.PostID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post.LikeResult{LikesCount: &count, IsLiked: &liked})
}

/*
POST /api/posts/follow.

Request:
  - body: {"userId": int}

Response:
  - 200: {"following": bool}
  - 400: ErrSelfFollow
  - 404: User not found
*/
func (handler *Handler) follow(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		UserID int64 `json:"userId"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.UserID <= 0 {
		respond.Error(writer, request, requestutil.ErrInvalidID)
		return
	}

	following, err := handler.store.ToggleFollow(userID, input.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post.FollowResult{Following: &following})
}

// # Comments

/*
GET /api/posts/{id}/comments.

Response:
  - 200: {"comments": []post.Comment}
  - 404: Post not found
*/
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	postID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.store.Comments(postID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"comments": comments})
}

/*
POST /api/posts/{id}/comments.

Request:
  - body: {"content": string}

Response:
  - 201: post.Comment
  - 400: Validation: Empty or longer than the comment limit
*/
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Content string `json:"content"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	content := strings.TrimSpace(input.Content)
	validator := &validate.Validator{}
	validator.Required("content", content).MaxLen("content", content, constants.CommentMaxLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.store.AddComment(userID, postID, content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
POST /api/posts/{id}/report.

Request:
  - body: {"reason": string} (optional)

Response:
  - 201: {"message": string}
  - 409: ErrAlreadyReported
*/
func (handler *Handler) report(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	postID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	if request.ContentLength != 0 {
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	if err := handler.store.Report(userID, postID, strings.TrimSpace(input.Reason)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusCreated, map[string]string{"message": "Report submitted"})
}

// # Uploads

// storeFormFile saves the named multipart file, if present, and returns its
// public path. An absent file yields "".
func (handler *Handler) storeFormFile(request *http.Request, field string, limit int64) (string, error) {
	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", apperr.ValidationError("Invalid file upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return "", apperr.Internal(err)
	}
	if int64(len(data)) > limit {
		return "", validate.Field(field, "File is too large")
	}

	name := uuid.FileName(header.Filename)
	return handler.store.SaveUpload(name, data), nil
}

/*
GET /uploads/{name}.

Response:
  - 200: The stored bytes
  - 404: Upload not found
*/
func (handler *Handler) serveUpload(writer http.ResponseWriter, request *http.Request) {
	data, ok := handler.store.Upload(requestutil.Param(request, "name"))
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Upload"))
		return
	}

	writer.Header().Set(constants.HeaderContentType, http.DetectContentType(data))
	_, _ = writer.Write(data)
}
