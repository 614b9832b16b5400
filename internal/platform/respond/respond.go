// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by the fake API handlers.
//
// # Architecture
//
// Success bodies are written bare, exactly as the client decodes them
// (`{"posts": [...]}`, `{"token": ..., "user": ...}`): the Dizesi API has no
// data envelope. Errors share one JSON shape so a failing handler never
// leaks internals.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/dizesi/internal/platform/apperr"
	"github.com/taibuivan/dizesi/internal/platform/constants"
	"github.com/taibuivan/dizesi/internal/platform/ctxutil"
)

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes payload with the given status. A payload that cannot be
// encoded becomes a bare 500 instead of a truncated body.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(writer, `{"error":"An unexpected error occurred","code":"INTERNAL_ERROR"}`, http.StatusInternalServerError)
		return
	}

	writer.Header().Set(constants.HeaderContentType, "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(append(body, '\n'))
}

// OK writes a 200 response.
func OK(writer http.ResponseWriter, payload any) {
	JSON(writer, http.StatusOK, payload)
}

// Created writes a 201 response.
func Created(writer http.ResponseWriter, payload any) {
	JSON(writer, http.StatusCreated, payload)
}

// Message writes {"message": ...}, the body of moderation and report actions.
func Message(writer http.ResponseWriter, message string) {
	OK(writer, map[string]string{"message": message})
}

// NoContent writes a 204 response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error writes the error envelope for err.

Description: An error that is not an [*apperr.AppError] becomes
INTERNAL_ERROR and its text never reaches the client. Every 5xx is logged
with its cause through the request-scoped logger, which already carries the
request ID.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	status := appError.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		ctxutil.Logger(request.Context(), slog.Default()).ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, status, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
