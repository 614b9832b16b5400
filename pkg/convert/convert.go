// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses loosely typed text (URL segments, multipart flags,
CLI arguments) where a malformed value and a missing one mean the same thing.

Callers that must tell the two apart should use [strconv] directly.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt64 parses a base-10 integer. Empty or malformed input yields 0.
func ToInt64(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// ToBool parses "true", "1", "t" and their false counterparts. Anything else
// yields false.
func ToBool(s string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	return err == nil && v
}
