// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package fakeapi

import (
	"net/http"

	"github.com/taibuivan/dizesi/internal/platform/respond"
)

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(store *Store) (liveness, readiness http.HandlerFunc) {
	liveness = func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, map[string]string{"status": "ok"})
	}

	// The store is in memory, so readiness only reports what it holds.
	readiness = func(writer http.ResponseWriter, request *http.Request) {
		respond.OK(writer, map[string]any{
			"status": "ready",
			"store":  store.Stats(),
		})
	}

	return liveness, readiness
}
