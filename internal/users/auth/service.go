// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/gateway"
	"github.com/taibuivan/dizesi/internal/platform/toast"
	"github.com/taibuivan/dizesi/internal/platform/validate"
)

// # Contracts & Types

// API is the slice of the gateway the authentication flows need.
type API interface {
	Request(ctx context.Context, path string, options gateway.Options, out any) error
}

// Service implements the authentication use cases on top of a [Store].
//
// Every flow either completes a store write or leaves the store untouched:
// a rejected login never caches partial credentials.
type Service struct {
	api      API
	store    *Store
	notifier toast.Notifier
}

// NewService constructs a new [Service] with its dependencies.
func NewService(api API, store *Store, notifier toast.Notifier) *Service {
	return &Service{
		api:      api,
		store:    store,
		notifier: toast.OrDiscard(notifier),
	}
}

// Store returns the session store the service writes to.
func (service *Service) Store() *Store {
	return service.store
}

// authResponse is the body of a successful login or registration.
type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

/*
Login exchanges credentials for a token and establishes the session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *User: The signed-in user
  - error: VALIDATION_ERROR before any call, or the gateway failure unchanged
*/
func (service *Service) Login(context context.Context, input LoginInput) (*User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		service.notifier.Notify(context, toast.Error("Login failed", "Username and password are required."))
		return nil, err
	}

	var response authResponse
	err := service.api.Request(context, pathLogin, gateway.Options{
		Method:    http.MethodPost,
		Body:      input,
		Anonymous: true,
	}, &response)
	if err != nil {
		service.notifier.Notify(context, toast.Error("Login failed", "Invalid username or password."))
		return nil, err
	}

	if err := service.establish(context, response); err != nil {
		return nil, err
	}

	service.notifier.Notify(context, toast.Info("Welcome back!", "You have signed in successfully."))
	return service.store.Current(), nil
}

// # Registration Flow

// RegisterInput holds the fields of the registration form.
type RegisterInput struct {
	FullName        string
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Gender          string
	DateOfBirth     string
}

type registerRequest struct {
	FullName    string `json:"fullName"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Gender      string `json:"gender,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
}

/*
Register creates an account and establishes its session.

Description: A password mismatch or a missing required field is rejected
locally; the gateway is not called.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: The new user
  - error: VALIDATION_ERROR or the gateway failure unchanged
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// 1. Password confirmation
	confirm := (&validate.Validator{}).Confirmed(FieldConfirmPassword, input.Password, input.ConfirmPassword)
	if err := confirm.Err(); err != nil {
		service.notifier.Notify(context, toast.Error("Password mismatch", "Passwords do not match."))
		return nil, err
	}

	// 2. Required fields
	validator := &validate.Validator{}
	validator.Required(FieldFullName, input.FullName).
		Required(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		service.notifier.Notify(context, toast.Error("Registration failed", "Please fill in every required field."))
		return nil, err
	}

	gender := input.Gender
	if gender == "" {
		gender = "other"
	}

	// 3. Remote call
	var response authResponse
	err := service.api.Request(context, pathRegister, gateway.Options{
		Method: http.MethodPost,
		Body: registerRequest{
			FullName:    input.FullName,
			Username:    input.Username,
			Email:       input.Email,
			Password:    input.Password,
			Gender:      gender,
			DateOfBirth: input.DateOfBirth,
		},
		Anonymous: true,
	}, &response)
	if err != nil {
		service.notifier.Notify(context, toast.Error("Registration failed", "Please try again with different details."))
		return nil, err
	}

	if err := service.establish(context, response); err != nil {
		return nil, err
	}

	service.notifier.Notify(context, toast.Info("Welcome to Dizesi!", "Your account has been created successfully."))
	return service.store.Current(), nil
}

/*
CheckUsername asks the server whether a username is still free.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - UsernameStatus: available, taken, or idle for an empty name or a failed call
  - error: The gateway failure, if any
*/
func (service *Service) CheckUsername(context context.Context, username string) (UsernameStatus, error) {
	if username == "" {
		return UsernameIdle, nil
	}

	var response struct {
		Available bool `json:"available"`
	}
	err := service.api.Request(context, pathCheckUsername+"?username="+url.QueryEscape(username), gateway.Options{
		Anonymous: true,
	}, &response)
	if err != nil {
		return UsernameIdle, err
	}

	if response.Available {
		return UsernameAvailable, nil
	}
	return UsernameTaken, nil
}

// # Session Lifecycle

// Logout clears the local session. The token is not revoked server-side.
func (service *Service) Logout(context context.Context) error {
	return service.store.Clear(context)
}

// RequireUser returns the signed-in user, or UNAUTHENTICATED without any call.
func (service *Service) RequireUser() (*User, error) {
	return service.store.RequireUser()
}

// RequireUser returns the signed-in user, or UNAUTHENTICATED.
func (store *Store) RequireUser() (*User, error) {
	user := store.Current()
	if user == nil {
		return nil, apperr.Unauthenticated()
	}
	return user, nil
}

func (service *Service) establish(context context.Context, response authResponse) error {
	if response.Token == "" {
		return apperr.Internal(fmt.Errorf("auth: response carried no token"))
	}
	return service.store.Establish(context, response.Token, response.User)
}
