// Package urlutil normalizes link targets so that equivalent URLs compare equal.
package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Normalize returns a canonical form of rawURL used to detect duplicate links.
// Normalization includes:
// - Lowercasing the scheme and host
// - Dropping the default port for http (80) and https (443)
// - Stripping fragments (#section)
// - Using "/" for an empty path and stripping other trailing slashes
// - Preserving query parameters
//
// Returns an error if the input is empty or lacks a scheme and host.
func Normalize(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("cannot normalize empty URL")
	}

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("normalize URL %q: %w", rawURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("URL must have both scheme and host")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)

	port := parsed.Port()
	if (parsed.Scheme == "http" && port == "80") || (parsed.Scheme == "https" && port == "443") {
		parsed.Host = parsed.Hostname()
	}

	parsed.Fragment = ""
	parsed.RawFragment = ""

	switch {
	case parsed.Path == "":
		parsed.Path = "/"
	case parsed.Path != "/" && strings.HasSuffix(parsed.Path, "/"):
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}
	parsed.RawPath = ""

	return parsed.String(), nil
}

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
