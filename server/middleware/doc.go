// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the cross-cutting HTTP layers of the API: error
handling, CORS, response headers, compression and request metrics.

Middlewares are chained by router.Router in the order they are registered.
*/
package middleware
