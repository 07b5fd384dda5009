package core

import (
	"fmt"
	"strings"
)

// Identifier is an opaque package identifier, typically a repository
// path such as "github.com/foo/bar". Two packages are the same package
// iff their identifiers are equal as strings.
type Identifier string

// String returns the identifier verbatim.
func (id Identifier) String() string { return string(id) }

// ParsedIdentifier is the result of parsing one of the three accepted
// package-reference forms (spec.md §6): it carries both the canonical
// identifier used to key the workspace and the remote URL a VCS client
// should be told to fetch.
type ParsedIdentifier struct {
	Identifier Identifier
	URL        string
}

// ParseIdentifier accepts:
//
//	user@host:path[.git]   -> identifier host/path, url as given
//	https://host/path[.git] -> identifier host/path, url as given
//	host/path                -> identifier as given, url https://host/path
func ParseIdentifier(s string) (ParsedIdentifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ParsedIdentifier{}, fmt.Errorf("empty package identifier")
	}
	switch {
	case strings.Contains(s, "://"):
		host, path, err := splitHostPath(strings.SplitN(s, "://", 2)[1])
		if err != nil {
			return ParsedIdentifier{}, fmt.Errorf("parsing %q: %w", s, err)
		}
		return ParsedIdentifier{Identifier: Identifier(host + "/" + trimGit(path)), URL: s}, nil
	case strings.Contains(s, "@") && strings.Contains(s, ":"):
		at := strings.Index(s, "@")
		rest := s[at+1:]
		colon := strings.Index(rest, ":")
		if colon < 0 {
			return ParsedIdentifier{}, fmt.Errorf("parsing %q: missing ':' after host", s)
		}
		host := rest[:colon]
		path := rest[colon+1:]
		return ParsedIdentifier{Identifier: Identifier(host + "/" + trimGit(path)), URL: s}, nil
	default:
		host, path, err := splitHostPath(s)
		if err != nil {
			return ParsedIdentifier{}, fmt.Errorf("parsing %q: %w", s, err)
		}
		id := host + "/" + path
		return ParsedIdentifier{Identifier: Identifier(id), URL: "https://" + id}, nil
	}
}

func splitHostPath(s string) (host, path string, err error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("expected host/path, got %q", s)
	}
	return parts[0], parts[1], nil
}

func trimGit(path string) string {
	return strings.TrimSuffix(path, ".git")
}
