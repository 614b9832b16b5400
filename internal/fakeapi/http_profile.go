// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fakeapi

import (
	"net/http"
	"strings"

	"github.com/taibuivan/dizesi/internal/platform/constants"
	requestutil "github.com/taibuivan/dizesi/internal/platform/request"
	"github.com/taibuivan/dizesi/internal/platform/respond"
	"github.com/taibuivan/dizesi/internal/platform/validate"
	"github.com/taibuivan/dizesi/internal/users/profile"
	"github.com/taibuivan/dizesi/pkg/convert"
	"github.com/taibuivan/dizesi/pkg/pointer"
)

// # Profiles

/*
GET /api/profile/{username}.

Description: Returns the profile and published posts of a user. Follow
state is computed for the caller when a token is present.

Response:
  - 200: {"user": profile.Person, "posts": []post.Post}
  - 404: User not found
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	person, posts, err := handler.store.Profile(requestutil.OptionalUserID(request), requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"user": person, "posts": posts})
}

/*
PATCH /api/profile.

Description: Partially updates the caller's profile. The multipart body may
carry "bio", "instagram_url", the image files "profile_picture" and
"cover_image", and the flags "remove_profile_picture" and "remove_cover_image".
Absent fields are left unchanged.

Response:
  - 200: {"user": profile.Person}
  - 400: Validation: Bio too long or oversized image
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := requestutil.ParseMultipart(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// 1. Text fields
	var update ProfileUpdate
	if bio, ok := formValue(request, profile.FieldBio); ok {
		update.Bio = pointer.To(strings.TrimSpace(bio))
	}
	if link, ok := formValue(request, profile.FieldInstagram); ok {
		update.InstagramURL = pointer.To(strings.TrimSpace(link))
	}

	validator := &validate.Validator{}
	validator.MaxLen(profile.FieldBio, pointer.Val(update.Bio), profile.BioMaxLength)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// 2. Image slots
	for _, kind := range []profile.ImageKind{profile.ImageAvatar, profile.ImageCover} {
		path, err := handler.storeFormFile(request, string(kind), constants.PostImageMaxBytes)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		if remove, _ := formValue(request, "remove_"+string(kind)); convert.ToBool(remove) {
			path = ""
		} else if path == "" {
			continue
		}

		if kind == profile.ImageAvatar {
			update.ProfilePicture = pointer.To(path)
		} else {
			update.CoverImage = pointer.To(path)
		}
	}

	// 3. Persist
	person, err := handler.store.UpdateProfile(userID, update)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"user": person})
}

// formValue reports a multipart text field and whether it was sent at all.
func formValue(request *http.Request, name string) (string, bool) {
	if request.MultipartForm == nil {
		return "", false
	}
	values, ok := request.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// # Notifications

/*
GET /api/notifications.

Description: Lists the caller's notifications, newest first.

Response:
  - 200: {"notifications": []notification.Notification}
*/
func (handler *Handler) notifications(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{"notifications": handler.store.Notifications(userID)})
}

/*
POST /api/notifications/read.

Response:
  - 200: {"updated": int}
*/
func (handler *Handler) markNotificationsRead(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]int{"updated": handler.store.MarkNotificationsRead(userID)})
}

// # Search

/*
GET /api/search.

Request:
  - query: q, type (only "posts" is served; users are always included)

Response:
  - 200: {"users": []post.UserRef, "posts": []post.Post}
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	users, posts := handler.store.Search(requestutil.OptionalUserID(request), request.URL.Query().Get("q"))
	respond.OK(writer, map[string]any{"users": users, "posts": posts})
}
