// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "os"

// # Session File

const (
	// SessionFileMode keeps the token readable by its owner only.
	SessionFileMode os.FileMode = 0o600

	// SessionDirMode is applied when the session directory has to be created.
	SessionDirMode os.FileMode = 0o700
)

// # API Paths

const (
	pathLogin         = "/auth/login"
	pathRegister      = "/auth/register"
	pathCheckUsername = "/auth/check-username"
)

// # Username Availability

// UsernameStatus is the state of the registration form's availability hint.
type UsernameStatus string

const (
	UsernameIdle      UsernameStatus = "idle"
	UsernameChecking  UsernameStatus = "checking"
	UsernameAvailable UsernameStatus = "available"
	UsernameTaken     UsernameStatus = "taken"
)
