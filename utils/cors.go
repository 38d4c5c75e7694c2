package utils

import (
	"net/url"
	"strings"
)

// OriginChecker decides whether an Origin header value should be trusted.
// The allow list is a comma-separated set of origins from configuration;
// "*" trusts every origin. Localhost is always trusted so a local frontend
// can talk to a deployed API during development.
type OriginChecker struct {
	allowAll bool
	allowed  map[string]bool
}

// NewOriginChecker builds a checker from the configured allow list.
func NewOriginChecker(allowList string) *OriginChecker {
	c := &OriginChecker{allowed: make(map[string]bool)}
	for _, origin := range strings.Split(allowList, ",") {
		origin = strings.TrimSpace(strings.TrimSuffix(origin, "/"))
		if origin == "" {
			continue
		}
		if origin == "*" {
			c.allowAll = true
			continue
		}
		c.allowed[strings.ToLower(origin)] = true
	}
	return c
}

// IsAllowed reports whether the given Origin header value is trusted.
func (c *OriginChecker) IsAllowed(origin string) bool {
	if origin == "" {
		return false
	}
	if c.allowAll {
		return true
	}
	if c.allowed[strings.ToLower(strings.TrimSuffix(origin, "/"))] {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	return parsed.Hostname() == "localhost" || parsed.Hostname() == "127.0.0.1"
}
