// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog/log"
)

var errMissingClientIP = errors.New("missing client IP")

// clientAddr extracts the client's IP address from an HTTP request with proxy awareness.
//
// Proxy headers (X-Real-IP, X-Forwarded-For) are only trusted when the connection
// comes from a private or loopback address.
func clientAddr(r *http.Request) (netip.Addr, error) {
	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = host
	}

	remote, err := netip.ParseAddr(remoteIP)
	if err != nil {
		return netip.Addr{}, errMissingClientIP
	}

	remote = remote.Unmap()

	if !remote.IsPrivate() && !remote.IsLoopback() {
		return remote, nil
	}

	// X-Real-IP takes precedence as it's typically the originating client IP
	// when set by a trusted proxy.
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if addr, err := netip.ParseAddr(realIP); err == nil {
			return addr.Unmap(), nil
		}
	}

	// Otherwise the last hop in X-Forwarded-For is the client as seen by our proxy.
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		parts := strings.Split(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return addr.Unmap(), nil
		}

		log.Debug().
			Str("x_forwarded_for", xff).
			Msg("Ignoring unparsable X-Forwarded-For header")
	}

	return remote, nil
}

// addrInList reports whether addr equals, or lies within, any entry of list.
// Entries are single addresses or CIDR prefixes.
func addrInList(addr netip.Addr, list []string) bool {
	for _, entry := range list {
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			if prefix.Contains(addr) {
				return true
			}

			continue
		}

		if other, err := netip.ParseAddr(entry); err == nil && other.Unmap() == addr {
			return true
		}
	}

	return false
}

// networkOf masks addr down to the configured network prefix.
func networkOf(addr netip.Addr, ipv4Prefix, ipv6Prefix int) netip.Prefix {
	bits := ipv6Prefix
	if addr.Is4() {
		bits = ipv4Prefix
	}

	prefix, err := addr.Prefix(bits)
	if err != nil {
		// out of range prefix lengths fall back to the single address
		return netip.PrefixFrom(addr, addr.BitLen())
	}

	return prefix
}
