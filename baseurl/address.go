// Package baseurl normalizes configured server base URLs and resolves
// declared request paths against them.
//
// A base URL may be written in any of the usual sloppy forms ("/api/",
// "/api", "api/", "api", "/", "") and always normalizes to the same
// canonical address. Host names are case-insensitive, path prefixes are
// case-sensitive.
package baseurl

import (
	"fmt"
	"net/url"
	"strings"
)

// Address is the canonical form of a configured server base URL.
// It is built once at client construction and never mutated.
type Address struct {
	Scheme string
	// Host is the lower-cased host name without port.
	Host string
	// Port is the explicit port, or the scheme default when omitted.
	Port string
	// Segments is the canonical path prefix: no empty segments,
	// case preserved. An empty slice is the root prefix.
	Segments []string
}

// Normalize parses a raw base URL string into its canonical Address.
// It fails when the string has no parsable scheme or host.
func Normalize(raw string) (Address, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Address{}, fmt.Errorf("malformed base URL %q: %w", raw, err)
	}
	if u.Scheme == "" {
		return Address{}, fmt.Errorf("base URL %q has no scheme", raw)
	}
	if u.Hostname() == "" {
		return Address{}, fmt.Errorf("base URL %q has no host", raw)
	}

	return Address{
		Scheme:   strings.ToLower(u.Scheme),
		Host:     strings.ToLower(u.Hostname()),
		Port:     portOrDefault(u),
		Segments: SplitSegments(u.Path),
	}, nil
}

// SplitSegments splits a URL path into its non-empty segments.
// Leading, trailing and duplicate slashes all collapse away, so
// "/api/", "/api", "api/" and "api" yield the same result.
func SplitSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// String renders the canonical form of the address. Normalizing the
// result yields an equal Address.
func (a Address) String() string {
	s := a.Scheme + "://" + a.Host + ":" + a.Port
	if len(a.Segments) > 0 {
		s += "/" + strings.Join(a.Segments, "/")
	}
	return s
}

// Equal reports whether two addresses identify the same server base.
// Scheme, host and port compare case-insensitively (both are stored
// lower-cased), path segments compare exactly.
func (a Address) Equal(other Address) bool {
	if a.Scheme != other.Scheme || a.Host != other.Host || a.Port != other.Port {
		return false
	}
	if len(a.Segments) != len(other.Segments) {
		return false
	}
	for i, seg := range a.Segments {
		if seg != other.Segments[i] {
			return false
		}
	}
	return true
}

// portOrDefault returns the explicit port of u, falling back to the
// well-known default for the scheme.
func portOrDefault(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}
	return ""
}

// List is the ordered set of configured server bases. Declaration order
// is failover order.
type List []Address

// NewList normalizes every raw URL into a List. The list must be
// non-empty and every entry must normalize cleanly.
func NewList(raws []string) (List, error) {
	if len(raws) == 0 {
		return nil, fmt.Errorf("at least one base URL is required")
	}
	list := make(List, 0, len(raws))
	for _, raw := range raws {
		addr, err := Normalize(raw)
		if err != nil {
			return nil, err
		}
		list = append(list, addr)
	}
	return list, nil
}
