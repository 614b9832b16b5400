// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package profile implements the profile page: a user's public identity, their
posts, and the owner-only editing controls.

# Architecture

  - Entities: Person (the profile record), View (person plus post cards).
  - Transport: Client wraps the profile endpoints; updates are multipart PATCH.
  - Domain: Page owns one View and the edit buffer for bio and Instagram link.
*/
package profile

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
	"github.com/taibuivan/dizesi/internal/social/post"
)

// # Domain Entities

// ImageKind names one of the two profile images.
type ImageKind string

const (
	ImageAvatar ImageKind = "profile_picture"
	ImageCover  ImageKind = "cover_image"
)

// Valid reports whether kind is a known image slot.
func (kind ImageKind) Valid() bool {
	return kind == ImageAvatar || kind == ImageCover
}

// removeField is the form flag that clears the image slot.
func (kind ImageKind) removeField() string {
	return "remove_" + string(kind)
}

// Person is the profile record returned by `GET /profile/{username}`.
type Person struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"full_name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	CoverImage     string `json:"cover_image,omitempty"`
	Bio            string `json:"bio,omitempty"`
	InstagramURL   string `json:"instagram_url,omitempty"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	FollowersCount int    `json:"followersCount"`
	FollowingCount int    `json:"followingCount"`
	IsFollowing    bool   `json:"isFollowing"`
}

// Image returns the stored path of the given slot.
func (person Person) Image(kind ImageKind) string {
	if kind == ImageCover {
		return person.CoverImage
	}
	return person.ProfilePicture
}

// withImage returns a copy of person with the slot replaced.
func (person Person) withImage(kind ImageKind, path string) Person {
	if kind == ImageCover {
		person.CoverImage = path
	} else {
		person.ProfilePicture = path
	}
	return person
}

// UpdateInput is the editable text of a profile.
type UpdateInput struct {
	Bio          string
	InstagramURL string
}

// Field names of the edit form.
const (
	FieldBio       = "bio"
	FieldInstagram = "instagram_url"
)

// BioMaxLength is the input limit of the bio box, in characters.
const BioMaxLength = 200

// # Contracts

// API is the gateway surface used by the profile page.
type API interface {
	post.API
	PatchMultipart(ctx context.Context, path string, form *gateway.Form, out any) error
}

// # Client

// Client wraps the profile endpoints.
type Client struct {
	api API
}

// NewClient constructs a profile [Client].
func NewClient(api API) *Client {
	return &Client{api: api}
}

/*
Get fetches a profile and its posts.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - Person: The profile record
  - []post.Post: The user's published posts
  - error: Gateway failures
*/
func (client *Client) Get(context context.Context, username string) (Person, []post.Post, error) {
	var response struct {
		User  Person      `json:"user"`
		Posts []post.Post `json:"posts"`
	}
	if err := client.api.Request(context, "/profile/"+url.PathEscape(username), gateway.Options{}, &response); err != nil {
		return Person{}, nil, fmt.Errorf("profile_get_failed: %w", err)
	}
	return response.User, response.Posts, nil
}

// Update sends the text fields of the caller's profile.
func (client *Client) Update(context context.Context, input UpdateInput) error {
	form := gateway.NewForm().
		Field(FieldBio, input.Bio).
		Field(FieldInstagram, input.InstagramURL)
	return client.patch(context, form, nil)
}

// UploadImage replaces one image slot and returns the stored path.
func (client *Client) UploadImage(context context.Context, kind ImageKind, filename string, content io.Reader) (string, error) {
	if !kind.Valid() {
		return "", apperr.ValidationError(fmt.Sprintf("Unknown image kind %q", kind))
	}

	var response struct {
		User Person `json:"user"`
	}
	form := gateway.NewForm().File(string(kind), filename, content)
	if err := client.patch(context, form, &response); err != nil {
		return "", err
	}
	return response.User.Image(kind), nil
}

// RemoveImage clears one image slot.
func (client *Client) RemoveImage(context context.Context, kind ImageKind) error {
	if !kind.Valid() {
		return apperr.ValidationError(fmt.Sprintf("Unknown image kind %q", kind))
	}
	return client.patch(context, gateway.NewForm().Field(kind.removeField(), "true"), nil)
}

func (client *Client) patch(context context.Context, form *gateway.Form, out any) error {
	return client.api.PatchMultipart(context, "/profile", form, out)
}

// # Helpers

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

// InstagramHref turns a stored Instagram link into something a browser can open.
// Links without a scheme become protocol-relative.
func InstagramHref(link string) string {
	if schemePattern.MatchString(link) {
		return link
	}
	return "//" + link
}
