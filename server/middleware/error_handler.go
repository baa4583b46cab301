// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"

	"github.com/rs/zerolog/log"

	"codeberg.org/dogapi/dogapi/core/audit"
	"codeberg.org/dogapi/dogapi/server/request_context"
	"codeberg.org/dogapi/dogapi/server/routes"
)

// CatchError wraps HTTP handlers that return an error, providing centralized error handling,
// response buffering, and request logging.
//
// It operates as follows:
//  1. It times the request for logging purposes.
//  2. It runs the handler with its output buffered in an httptest.ResponseRecorder.
//  3. Any error returned by the handler is stored in the request context.
//
// After the handler runs, it decides on the final response:
//   - A routes.NotFoundError becomes a 404 JSON error carrying its detail.
//   - Any other error without an HTTP error status code (i.e., status < 400) is
//     treated as an unhandled internal error and becomes a generic 500.
//   - In all other cases the buffered response is written to the client.
//
// Finally, it logs the completed request via the audit package unless the
// request context asks to skip logging.
func CatchError(handler FallibleHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := request_context.FromRequest(r)
		ctx.Route = r.Pattern

		span := audit.Span{
			Destination: audit.ToUser,
			RequestID:   ctx.RequestID,
			Method:      r.Method,
			URL:         r.URL.String(),
		}

		_ = span.Begin(r.Context())
		defer span.End()

		recorder := httptest.NewRecorder()

		err := handler(recorder, r)

		ctx.RequestError = err

		var notFound *routes.NotFoundError

		switch {
		case errors.As(err, &notFound):
			ctx.StatusCode = http.StatusNotFound

			routes.ErrorResponse(w, r)

		case err != nil && recorder.Code < http.StatusBadRequest:
			ctx.StatusCode = http.StatusInternalServerError

			log.Error().
				Err(err).
				Str("request_id", ctx.RequestID).
				Str("url", r.URL.String()).
				Msg("Unhandled error in route handler")

			routes.ErrorResponse(w, r)

		default:
			// A successful response or a handled error. We trust the recorder's output.
			if recorder.Code == 0 {
				recorder.Code = http.StatusOK
			}

			ctx.StatusCode = recorder.Code
			span.Size = recorder.Body.Len()

			maps.Copy(w.Header(), recorder.Header())
			w.WriteHeader(recorder.Code)

			if _, err := recorder.Body.WriteTo(w); err != nil {
				log.Err(err).Msg("Failed to write response body")
			}
		}

		span.StatusCode = ctx.StatusCode
		span.Error = ctx.RequestError

		if !ctx.SkipLogging {
			span.End()
			span.Log()
		}
	}
}
