// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fakeapi

import (
	"net/http"
	"strings"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	requestutil "github.com/taibuivan/dizesi/internal/platform/request"
	"github.com/taibuivan/dizesi/internal/platform/respond"
	"github.com/taibuivan/dizesi/internal/platform/sec"
	"github.com/taibuivan/dizesi/internal/platform/validate"
	"github.com/taibuivan/dizesi/internal/users/auth"
)

// authResponse is the body of a successful login or registration.
type authResponse struct {
	Token string    `json:"token"`
	User  auth.User `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
POST /api/auth/login.

Description: Exchanges credentials for a bearer token.

Request:
  - body: loginRequest

Response:
  - 200: authResponse
  - 400: ErrInvalidJSON/Validation
  - 401: ErrInvalidCredentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("username", input.Username).Required("password", input.Password)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.store.Authenticate(input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.issue(writer, request, http.StatusOK, user)
}

type registerRequest struct {
	FullName    string `json:"fullName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
}

/*
POST /api/auth/register.

Description: Creates an account and signs it in.

Request:
  - body: registerRequest

Response:
  - 201: authResponse
  - 400: Validation: Missing fields, malformed email, short password
  - 409: ErrUsernameTaken/ErrEmailTaken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("fullName", input.FullName).
		Required("username", input.Username).
		Username("username", input.Username).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, 6).
		MaxBytes("password", input.Password, sec.MaxPasswordBytes)
	if input.Gender != "" {
		validator.OneOf("gender", input.Gender, "male", "female", "other")
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.store.Register(Registration{
		FullName:    strings.TrimSpace(input.FullName),
		Username:    strings.TrimSpace(input.Username),
		Email:       strings.TrimSpace(input.Email),
		Password:    input.Password,
		Gender:      input.Gender,
		DateOfBirth: input.DateOfBirth,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.issue(writer, request, http.StatusCreated, user)
}

/*
GET /api/auth/check-username.

Request:
  - query: username

Response:
  - 200: {"available": bool}
  - 400: Validation: username missing
*/
func (handler *Handler) checkUsername(writer http.ResponseWriter, request *http.Request) {
	username := strings.TrimSpace(request.URL.Query().Get("username"))
	if username == "" {
		respond.Error(writer, request, validate.Field("username", "Username is required"))
		return
	}

	respond.OK(writer, map[string]bool{"available": handler.store.UsernameAvailable(username)})
}

// issue signs a token for user and writes the auth response.
func (handler *Handler) issue(writer http.ResponseWriter, request *http.Request, status int, user auth.User) {
	token, err := handler.tokens.Issue(sec.Identity{UserID: user.ID, Username: user.Username, Role: sec.ParseRole(user.Role)}, handler.tokenTTL)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.JSON(writer, status, authResponse{Token: token, User: user})
}
