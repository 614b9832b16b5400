// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the client-side identity: the session store and the
login, register and logout flows that feed it.

# Architecture

  - [Store]: the single process-wide session (token + user record), backed by a
    durable [Storage] and observed through [Store.Subscribe].
  - [Service]: the authentication use cases, each a thin wrapper around one
    gateway call followed by a store write.

The token is opaque to the client. It is never decoded, refreshed or checked
for expiry: a restored session is trusted until the server rejects it.
*/
package auth

import (
	"encoding/json"

	"github.com/taibuivan/dizesi/internal/platform/sec"
	"github.com/taibuivan/dizesi/pkg/pointer"
)

// # Domain Entities

// User is the cached record of the signed-in account.
type User struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	IsAdmin        bool   `json:"isAdmin,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

// Admin reports whether the account may open the moderation panel.
func (user *User) Admin() bool {
	if user == nil {
		return false
	}
	return user.IsAdmin || sec.ParseRole(user.Role).IsAdmin()
}

// UnmarshalJSON accepts both the camelCase and the snake_case spelling the
// API uses on different endpoints.
func (user *User) UnmarshalJSON(data []byte) error {
	type plain User
	aux := struct {
		*plain
		FullNameSnake       *string `json:"full_name"`
		ProfilePictureSnake *string `json:"profile_picture"`
		IsAdminSnake        *bool   `json:"is_admin"`
	}{plain: (*plain)(user)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if user.FullName == "" {
		user.FullName = pointer.Val(aux.FullNameSnake)
	}
	if user.ProfilePicture == "" {
		user.ProfilePicture = pointer.Val(aux.ProfilePictureSnake)
	}
	if !user.IsAdmin {
		user.IsAdmin = pointer.Val(aux.IsAdminSnake)
	}

	return nil
}

// Session is the authenticated identity plus its bearer token.
type Session struct {
	Token string
	User  User
}

// # Field Identifiers

// Form field names used in validation errors.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldFullName        = "fullName"
)
