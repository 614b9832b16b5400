// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/validate"
	"github.com/taibuivan/dizesi/pkg/slice"
)

// signup is the registration form as the fake API checks it.
type signup struct {
	fullName, username, email, password, confirm, gender string
}

// failedFields runs the registration rules and lists the rejected fields in order.
func (form signup) failedFields() []string {
	v := &validate.Validator{}
	v.Required("fullName", form.fullName).
		Required("username", form.username).
		Username("username", form.username).
		Email("email", form.email).
		Required("password", form.password).
		MinLen("password", form.password, 6).
		MaxBytes("password", form.password, 72).
		Confirmed("confirmPassword", form.password, form.confirm)
	if form.gender != "" {
		v.OneOf("gender", form.gender, "male", "female", "other")
	}

	ae := apperr.As(v.Err())
	if ae == nil {
		return nil
	}
	return slice.Map(ae.Details, func(detail apperr.FieldError) string { return detail.Field })
}

func TestValidator_Registration(t *testing.T) {
	valid := signup{"Ayla Kaya", "ayla.k", "ayla@dizesi.app", "gizli123", "gizli123", "female"}
	longPassword := strings.Repeat("ş", 40)

	tests := []struct {
		name   string
		edit   func(form *signup)
		failed []string
	}{
		{"complete", func(*signup) {}, nil},
		{"gender_optional", func(form *signup) { form.gender = "" }, nil},
		{"blank_name_and_handle", func(form *signup) { form.fullName, form.username = "  ", "" }, []string{"fullName", "username"}},
		{"handle_with_space", func(form *signup) { form.username = "ayla kaya" }, []string{"username"}},
		{"email_without_domain", func(form *signup) { form.email = "ayla@" }, []string{"email"}},
		{"short_password", func(form *signup) { form.password, form.confirm = "abc", "abc" }, []string{"password"}},
		{"password_over_bcrypt_limit", func(form *signup) { form.password, form.confirm = longPassword, longPassword }, []string{"password"}},
		{"confirmation_mismatch", func(form *signup) { form.confirm = "gizli124" }, []string{"confirmPassword"}},
		{"unknown_gender", func(form *signup) { form.gender = "robot" }, []string{"gender"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.edit(&form)
			assert.Equal(t, tt.failed, form.failedFields())
		})
	}
}

/*
TestValidator_CommentBox rejects a blank comment and one past the character limit.
*/
func TestValidator_CommentBox(t *testing.T) {
	atLimit := strings.Repeat("ü", constants.CommentMaxLength)

	v := &validate.Validator{}
	require.NoError(t, v.Required("comment", atLimit).MaxLen("comment", atLimit, constants.CommentMaxLength).Err())

	v = &validate.Validator{}
	err := v.Required("comment", " \n\t ").MaxLen("comment", atLimit+"ü", constants.CommentMaxLength).Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)
	require.Len(t, ae.Details, 2)
	assert.Equal(t, "This field is required", ae.Details[0].Message)
	assert.Equal(t, "Maximum 500 characters", ae.Details[1].Message)
}

func TestValidator_EmailIsBareAddress(t *testing.T) {
	tests := map[string]bool{
		"okur@dizesi.app":            true,
		"okur.yazar@mail.dizesi.app": true,
		"Okur <okur@dizesi.app>":     false,
		"okur@":                      false,
		"okur at dizesi.app":         false,
		"":                           false,
	}

	for email, isValid := range tests {
		t.Run(email, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", email)
			assert.Equal(t, !isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_MaxLen_CountsRunes checks that limits are measured in characters, not bytes.
*/
func TestValidator_MaxLen_CountsRunes(t *testing.T) {
	v := &validate.Validator{}
	v.MaxLen("content", "çğıöşü", 6)
	assert.False(t, v.HasErrors())

	v.MaxLen("content", "çğıöşüç", 6)
	assert.True(t, v.HasErrors())
}

/*
TestValidator_Confirmed reports a mismatch under the confirmation field.
*/
func TestValidator_Confirmed(t *testing.T) {
	v := &validate.Validator{}
	v.Confirmed("confirmPassword", "secret", "secret")
	assert.False(t, v.HasErrors())

	v.Confirmed("confirmPassword", "secret", "secreT")
	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	assert.Equal(t, "confirmPassword", ae.Details[0].Field)
	assert.Equal(t, "Passwords do not match", ae.Details[0].Message)
}

/*
TestValidator_Username covers the handle alphabet and its length bound.
*/
func TestValidator_Username(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"plain", "ayla", true},
		{"turkish_letters", "şükrü_42", true},
		{"dotted", "ece.k", true},
		{"empty_left_to_required", "", true},
		{"space", "ayla k", false},
		{"symbol", "ayla!", false},
		{"too_long", strings.Repeat("a", validate.UsernameMaxLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Username("username", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_MaxBytes measures encoded length, unlike MaxLen.
*/
func TestValidator_MaxBytes(t *testing.T) {
	v := &validate.Validator{}
	v.MaxBytes("password", "çç", 4)
	assert.False(t, v.HasErrors())

	v.MaxBytes("password", "ççç", 4)
	assert.True(t, v.HasErrors())
}

func TestField(t *testing.T) {
	ae := validate.Field("image", "File is too large")
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	require.Len(t, ae.Details, 1)
	assert.Equal(t, "image", ae.Details[0].Field)
}
