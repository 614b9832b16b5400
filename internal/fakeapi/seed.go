// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fakeapi

import (
	"fmt"

	"github.com/taibuivan/dizesi/internal/platform/config"
	"github.com/taibuivan/dizesi/internal/platform/sec"
)

// Seed creates the moderator account described by cfg.
func Seed(store *Store, cfg *config.FakeAPIConfig) error {
	_, err := store.Register(Registration{
		FullName: "Dizesi Moderator",
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     sec.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("fakeapi: seed admin: %w", err)
	}
	return nil
}
