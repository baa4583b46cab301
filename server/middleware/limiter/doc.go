// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits API requests per client network.

Clients are grouped by IP network (a /24 for IPv4 and a /48 for IPv6 by
default) and every network shares one token bucket.
*/
package limiter
