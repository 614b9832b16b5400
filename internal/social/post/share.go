// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"strconv"
	"strings"

	"github.com/taibuivan/dizesi/pkg/slug"
)

// ShareURL builds "<publicURL>/post/<id>-<slug>" (or "/post/<id>" for a
// title with no usable characters).
func ShareURL(publicURL string, p Post) string {
	link := strings.TrimRight(publicURL, "/") + "/post/" + strconv.FormatInt(p.ID, 10)
	if s := slug.From(p.Title); s != "" {
		link += "-" + s
	}
	return link
}

// ImageURL resolves a server-relative image path against the asset origin.
func ImageURL(assetBaseURL, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(assetBaseURL, "/") + path
}
