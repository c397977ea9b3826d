package baseurl

import (
	"net/url"
	"strings"
)

// PathKind discriminates the two forms a declared request path can take.
type PathKind int

const (
	// Relative paths are appended under the targeted base's path prefix
	// and participate in failover across the configured servers.
	Relative PathKind = iota
	// Absolute paths are full URLs pinned to a single destination. They
	// must match one of the configured bases and are never failed over.
	Absolute
)

// DeclaredPath is a request path as produced by the service dispatch
// layer, classified exactly once so downstream code never re-parses
// ambiguous strings.
type DeclaredPath struct {
	kind  PathKind
	value string
}

// ParseDeclaredPath classifies a raw declared path. A path is absolute
// when it parses as a URL with both scheme and host; anything else,
// including the empty string and paths with or without a leading slash,
// is relative.
func ParseDeclaredPath(raw string) DeclaredPath {
	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		return DeclaredPath{kind: Absolute, value: raw}
	}
	return DeclaredPath{kind: Relative, value: strings.TrimLeft(raw, "/")}
}

// Kind returns the classification of the path.
func (d DeclaredPath) Kind() PathKind { return d.kind }

// IsAbsolute reports whether the path is a full destination-pinned URL.
func (d DeclaredPath) IsAbsolute() bool { return d.kind == Absolute }

// Value returns the full URL for absolute paths, or the relative
// segment (leading slashes stripped, possibly empty) for relative ones.
func (d DeclaredPath) Value() string { return d.value }

// ResolveRelative produces the full request URL for a relative declared
// path against this base. The join yields exactly one slash between
// adjacent segments: a base prefix ["api"] resolves "" to "/api/" and
// "relative" to "/api/relative"; the root prefix resolves them to "/"
// and "/relative".
func (a Address) ResolveRelative(segment string) string {
	p := "/" + strings.Join(a.Segments, "/")
	if len(a.Segments) > 0 {
		p += "/"
	}
	return a.Scheme + "://" + a.Host + ":" + a.Port + p + segment
}

// Recognizes reports whether the absolute request URL raw targets one
// of the bases in the list: scheme, lower-cased host and port must
// match exactly, and the base's path prefix must be a case-sensitive
// segment-wise prefix of the request path.
func (l List) Recognizes(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return false
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := portOrDefault(u)
	segments := SplitSegments(u.Path)

	for _, base := range l {
		if base.Scheme != scheme || base.Host != host || base.Port != port {
			continue
		}
		if isSegmentPrefix(base.Segments, segments) {
			return true
		}
	}
	return false
}

// isSegmentPrefix reports whether prefix is a segment-wise prefix of
// path, comparing segments case-sensitively.
func isSegmentPrefix(prefix, path []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i, seg := range prefix {
		if path[i] != seg {
			return false
		}
	}
	return true
}
