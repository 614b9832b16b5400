// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # Roles

// UserRole is the authorization level carried by an account and its token.
type UserRole string

const (
	// RoleUser is every registered writer.
	RoleUser UserRole = "user"

	// RoleAdmin may open the moderation panel.
	RoleAdmin UserRole = "admin"
)

// ParseRole normalizes a wire value. Unknown values yield "", which ranks
// below every role.
func ParseRole(value string) UserRole {
	switch role := UserRole(strings.ToLower(strings.TrimSpace(value))); role {
	case RoleUser, RoleAdmin:
		return role
	default:
		return ""
	}
}

// IsAdmin reports whether the role can moderate.
func (role UserRole) IsAdmin() bool {
	return role == RoleAdmin
}

// AtLeast reports whether role grants everything target does.
func (role UserRole) AtLeast(target UserRole) bool {
	return role.rank() >= target.rank()
}

func (role UserRole) rank() int {
	switch role {
	case RoleAdmin:
		return 2
	case RoleUser:
		return 1
	default:
		return 0
	}
}
