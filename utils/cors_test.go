package utils

import "testing"

func TestOriginChecker_AllowList(t *testing.T) {
	c := NewOriginChecker("https://everafter.app, https://www.everafter.app/")

	if !c.IsAllowed("https://everafter.app") {
		t.Error("expected listed origin to be allowed")
	}
	if !c.IsAllowed("HTTPS://EVERAFTER.APP") {
		t.Error("expected origin match to be case-insensitive")
	}
	if !c.IsAllowed("https://www.everafter.app") {
		t.Error("expected trailing slash in config to be ignored")
	}
	if c.IsAllowed("https://evil.example.com") {
		t.Error("expected unlisted origin to be rejected")
	}
	if c.IsAllowed("") {
		t.Error("expected empty origin to be rejected")
	}
}

func TestOriginChecker_Wildcard(t *testing.T) {
	c := NewOriginChecker("*")

	if !c.IsAllowed("https://anything.example.com") {
		t.Error("expected wildcard to allow everything")
	}
}

func TestOriginChecker_LocalhostAlwaysTrusted(t *testing.T) {
	c := NewOriginChecker("https://everafter.app")

	if !c.IsAllowed("http://localhost:3000") {
		t.Error("expected localhost to be trusted")
	}
	if !c.IsAllowed("http://127.0.0.1:5173") {
		t.Error("expected 127.0.0.1 to be trusted")
	}
	if c.IsAllowed("http://localhost.evil.example.com") {
		t.Error("expected localhost-lookalike to be rejected")
	}
}
