// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post implements the post card: one post plus its like, follow,
comment, report and share controls.

# Architecture

  - Entities ([Post], [UserRef], [Comment]): client-side projections of
    server records. Each card owns its own copy; two cards showing the same
    post may disagree until the page reloads.
  - [Client]: named wrappers around the gateway, one per endpoint.
  - [Card]: the controller. Every mutation follows one policy: the control is
    busy while its call is in flight, state is snapshotted before any
    optimistic change, a failure restores the snapshot and reports a toast,
    and a success applies what the server returned.
*/
package post

import (
	"encoding/json"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/pkg/pointer"
)

// # Domain Entities

// UserRef is the author (or actor) embedded in posts and comments.
type UserRef struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	IsFollowing    bool   `json:"isFollowing,omitempty"`
}

// UnmarshalJSON accepts the snake_case spelling used by the profile endpoint.
func (ref *UserRef) UnmarshalJSON(data []byte) error {
	type plain UserRef
	aux := struct {
		*plain
		FullNameSnake       *string `json:"full_name"`
		ProfilePictureSnake *string `json:"profile_picture"`
		IsFollowingSnake    *bool   `json:"is_following"`
	}{plain: (*plain)(ref)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if ref.FullName == "" {
		ref.FullName = pointer.Val(aux.FullNameSnake)
	}
	if ref.ProfilePicture == "" {
		ref.ProfilePicture = pointer.Val(aux.ProfilePictureSnake)
	}
	if !ref.IsFollowing {
		ref.IsFollowing = pointer.Val(aux.IsFollowingSnake)
	}

	return nil
}

// DisplayName returns the full name, falling back to the username.
func (ref UserRef) DisplayName() string {
	if ref.FullName != "" {
		return ref.FullName
	}
	if ref.Username != "" {
		return ref.Username
	}
	return "Unknown user"
}

// Post is one published (or pending) article.
type Post struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	ImageURL      string  `json:"image_url,omitempty"`
	User          UserRef `json:"user"`
	LikesCount    int     `json:"likesCount"`
	CommentsCount int     `json:"commentsCount"`
	IsLiked       bool    `json:"isLiked"`
	Status        string  `json:"status,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
}

// UnmarshalJSON accepts both spellings of the fields that differ between
// the feed, profile and search endpoints.
func (post *Post) UnmarshalJSON(data []byte) error {
	type plain Post
	aux := struct {
		*plain
		Image              *string `json:"image"`
		ImageURLCamel      *string `json:"imageUrl"`
		LikesCountSnake    *int    `json:"likes_count"`
		CommentsCountSnake *int    `json:"comments_count"`
		IsLikedSnake       *bool   `json:"is_liked"`
		CreatedAtCamel     *string `json:"createdAt"`
	}{plain: (*plain)(post)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if post.ImageURL == "" {
		post.ImageURL = pointer.First(aux.ImageURLCamel, aux.Image)
	}
	if post.LikesCount == 0 {
		post.LikesCount = pointer.Val(aux.LikesCountSnake)
	}
	if post.CommentsCount == 0 {
		post.CommentsCount = pointer.Val(aux.CommentsCountSnake)
	}
	if !post.IsLiked {
		post.IsLiked = pointer.Val(aux.IsLikedSnake)
	}
	if post.CreatedAt == "" {
		post.CreatedAt = pointer.Val(aux.CreatedAtCamel)
	}

	return nil
}

// Preview returns the first [constants.PreviewLength] characters of the
// content and whether it was truncated.
func (post Post) Preview() (string, bool) {
	if utf8.RuneCountInString(post.Content) <= constants.PreviewLength {
		return post.Content, false
	}
	runes := []rune(post.Content)
	return string(runes[:constants.PreviewLength]), true
}

// Created parses the creation timestamp, returning the zero time when the
// server sent none or an unknown layout.
func (post Post) Created() time.Time {
	return parseTime(post.CreatedAt)
}

// Comment is one reply under a post.
type Comment struct {
	ID        int64   `json:"id"`
	User      UserRef `json:"user"`
	Content   string  `json:"content"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// # Mutation Results

// LikeResult is the server's answer to a like toggle. Both fields are
// authoritative when present; a missing field keeps the optimistic value.
type LikeResult struct {
	LikesCount *int  `json:"likesCount"`
	IsLiked    *bool `json:"isLiked"`
}

// FollowResult is the server's answer to a follow toggle.
type FollowResult struct {
	Following *bool `json:"following"`
}

// # Helpers

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02 15:04:05",
}

func parseTime(value string) time.Time {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
