// Copyright 2025, the dog-api contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net/http"
	"net/netip"
	"testing"
)

func TestClientAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		request    *http.Request
		expectedIP string
		wantErr    bool
	}{
		{
			name: "X-Real-IP only",
			request: &http.Request{
				RemoteAddr: "127.0.0.1:12345", // Use localhost to make it trusted
				Header: http.Header{
					"X-Real-Ip": []string{"2.2.2.2"},
				},
			},
			expectedIP: "2.2.2.2",
		},
		{
			name: "X-Forwarded-For only",
			request: &http.Request{
				RemoteAddr: "192.168.1.1:12345", // Use private IP to make it trusted
				Header: http.Header{
					"X-Forwarded-For": []string{"3.3.3.3, 4.4.4.4"},
				},
			},
			expectedIP: "4.4.4.4",
		},
		{
			name: "Untrusted source ignores proxy headers",
			request: &http.Request{
				RemoteAddr: "5.5.5.5:12345",
				Header: http.Header{
					"X-Real-Ip": []string{"2.2.2.2"},
				},
			},
			expectedIP: "5.5.5.5",
		},
		{
			name: "RemoteAddr fallback",
			request: &http.Request{
				RemoteAddr: "1.1.1.1:12345",
			},
			expectedIP: "1.1.1.1",
		},
		{
			name: "Unix socket peer",
			request: &http.Request{
				RemoteAddr: "@",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			addr, err := clientAddr(tt.request)
			if (err != nil) != tt.wantErr {
				t.Fatalf("clientAddr() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && addr.String() != tt.expectedIP {
				t.Errorf("clientAddr() = %v, want %v", addr, tt.expectedIP)
			}
		})
	}
}

func TestAddrInList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		ip       string
		list     []string
		expected bool
	}{
		{
			name:     "IP matches exact entry",
			ip:       "192.168.1.1",
			list:     []string{"192.168.1.1"},
			expected: true,
		},
		{
			name:     "IP matches CIDR",
			ip:       "192.168.1.1",
			list:     []string{"192.168.1.0/24"},
			expected: true,
		},
		{
			name:     "IP doesn't match",
			ip:       "192.168.1.1",
			list:     []string{"10.0.0.0/8", "not an ip"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := addrInList(netip.MustParseAddr(tt.ip), tt.list)
			if result != tt.expected {
				t.Errorf("addrInList(%v, %v) = %v, want %v", tt.ip, tt.list, result, tt.expected)
			}
		})
	}
}

func TestNetworkOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		ip         string
		ipv4Prefix int
		ipv6Prefix int
		expected   string
	}{
		{
			name:       "IPv4 with /24",
			ip:         "192.168.1.1",
			ipv4Prefix: 24,
			ipv6Prefix: 48,
			expected:   "192.168.1.0/24",
		},
		{
			name:       "IPv6 with /48",
			ip:         "2001:db8:1:2::1",
			ipv4Prefix: 24,
			ipv6Prefix: 48,
			expected:   "2001:db8:1::/48",
		},
		{
			name:       "Out of range prefix",
			ip:         "10.1.2.3",
			ipv4Prefix: 64,
			ipv6Prefix: 48,
			expected:   "10.1.2.3/32",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			network := networkOf(netip.MustParseAddr(tt.ip), tt.ipv4Prefix, tt.ipv6Prefix)
			if network.String() != tt.expected {
				t.Errorf("networkOf(%v, %v, %v) = %v, want %v",
					tt.ip, tt.ipv4Prefix, tt.ipv6Prefix, network.String(), tt.expected)
			}
		})
	}
}
