// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used for correlation and
storage names.

Every gateway call and every fake API request carries one as X-Request-ID,
and uploaded images are stored under one. Version 7 values sort by creation
time, so log lines and upload listings read in order.
*/
package uuid

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// New returns a UUIDv7 string. It panics only if the system entropy source
// fails.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FileName returns a fresh stored name keeping the lowercased extension of
// original ("Kapak.PNG" becomes "<uuid>.png").
func FileName(original string) string {
	return New() + strings.ToLower(filepath.Ext(original))
}
