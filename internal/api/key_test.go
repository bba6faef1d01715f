package api

import "testing"

func TestResolveKey(t *testing.T) {
	tests := []struct {
		path     string
		prefix   string
		expected string
		ok       bool
	}{
		{path: "/foo", prefix: "/", expected: "foo", ok: true},
		{path: "/", prefix: "/", expected: "", ok: true},
		{path: "/kv/foo", prefix: "/kv/", expected: "foo", ok: true},
		{path: "/kv/", prefix: "/kv/", expected: "", ok: true},
		{path: "/kv/a/b/", prefix: "/kv/", expected: "a/b/", ok: true},
		{path: "/kv/%2F%20", prefix: "/kv/", expected: "%2F%20", ok: true},
		{path: "/kvfoo", prefix: "/kv", expected: "foo", ok: true},
		{path: "/foo", prefix: "/kv/", expected: "/foo", ok: false},
	}

	for _, tt := range tests {
		key, ok := ResolveKey(tt.path, tt.prefix)
		if ok != tt.ok || (ok && key != tt.expected) {
			t.Errorf("ResolveKey(%q, %q) = (%q, %v), expected (%q, %v)", tt.path, tt.prefix, key, ok, tt.expected, tt.ok)
		}
	}
}
