// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"

	"codeberg.org/dogapi/dogapi/server/request_context"
)

// ErrorResponse writes the JSON error envelope for the status code and error
// stored in the request context.
//
// Only NotFoundError details are shown to clients; other errors are reported
// generically so internal paths never leak.
func ErrorResponse(w http.ResponseWriter, r *http.Request) {
	ctx := request_context.FromRequest(r)

	w.Header().Set("Cache-Control", "no-store")

	message := http.StatusText(ctx.StatusCode)

	var notFound *NotFoundError

	switch {
	case errors.As(ctx.RequestError, &notFound):
		message = notFound.Detail
	case ctx.StatusCode == http.StatusInternalServerError:
		message = "Internal server error"
	}

	WriteError(w, ctx.StatusCode, message)
}
