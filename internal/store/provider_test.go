package store

import (
	"strings"
	"testing"

	"github.com/heysubinoy/kvlookup/pkg/kv"
)

// ProviderFactory creates a Provider pre-populated with data for testing
type ProviderFactory func(t *testing.T, data map[string]string) kv.Provider

// RunProviderTests runs a common test suite against any Provider implementation
func RunProviderTests(t *testing.T, name string, factory ProviderFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("GetExisting", func(t *testing.T) {
			testGetExisting(t, factory)
		})
		t.Run("GetNonExistent", func(t *testing.T) {
			testGetNonExistent(t, factory)
		})
		t.Run("GetEmptyKeyMissing", func(t *testing.T) {
			testGetEmptyKeyMissing(t, factory)
		})
		t.Run("GetEmptyValue", func(t *testing.T) {
			testGetEmptyValue(t, factory)
		})
		t.Run("KeysAreExact", func(t *testing.T) {
			testKeysAreExact(t, factory)
		})
		t.Run("MultipleKeys", func(t *testing.T) {
			testMultipleKeys(t, factory)
		})
		t.Run("LargeValue", func(t *testing.T) {
			testLargeValue(t, factory)
		})
		t.Run("ProbeEmpty", func(t *testing.T) {
			testProbeEmpty(t, factory)
		})
		t.Run("ProbePopulated", func(t *testing.T) {
			testProbePopulated(t, factory)
		})
	})
}

func mustGet(t *testing.T, p kv.Provider, key string) (string, bool) {
	t.Helper()
	value, found, err := p.Get(key)
	if err != nil {
		t.Fatalf("expected no error reading key %q, got %v", key, err)
	}
	return value, found
}

func testGetExisting(t *testing.T, factory ProviderFactory) {
	p := factory(t, map[string]string{"foo": "bar"})

	value, found := mustGet(t, p, "foo")
	if !found {
		t.Fatal("expected key to be found")
	}
	if value != "bar" {
		t.Errorf("expected value %q, got %q", "bar", value)
	}
}

func testGetNonExistent(t *testing.T, factory ProviderFactory) {
	p := factory(t, map[string]string{"foo": "bar"})

	value, found := mustGet(t, p, "missing")
	if found {
		t.Error("expected key to not be found")
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func testGetEmptyKeyMissing(t *testing.T, factory ProviderFactory) {
	p := factory(t, map[string]string{"foo": "bar"})

	if _, found := mustGet(t, p, ""); found {
		t.Error("expected empty key to not be found")
	}
}

func testGetEmptyValue(t *testing.T, factory ProviderFactory) {
	p := factory(t, map[string]string{"empty": ""})

	value, found := mustGet(t, p, "empty")
	if !found {
		t.Fatal("expected key to be found")
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func testKeysAreExact(t *testing.T, factory ProviderFactory) {
	p := factory(t, map[string]string{
		"a/b":   "slash",
		"a%20b": "escaped",
		"Foo":   "upper",
	})

	tests := []struct {
		key   string
		value string
		found bool
	}{
		{key: "a/b", value: "slash", found: true},
		{key: "a%20b", value: "escaped", found: true},
		{key: "a b", found: false},
		{key: "Foo", value: "upper", found: true},
		{key: "foo", found: false},
		{key: "Foo ", found: false},
	}

	for _, tt := range tests {
		value, found := mustGet(t, p, tt.key)
		if found != tt.found || value != tt.value {
			t.Errorf("Get(%q) = (%q, %v), expected (%q, %v)", tt.key, value, found, tt.value, tt.found)
		}
	}
}

func testMultipleKeys(t *testing.T, factory ProviderFactory) {
	data := map[string]string{
		"key1": "value1",
		"key2": "value2",
		"key3": "value3",
	}
	p := factory(t, data)

	for key, expected := range data {
		value, found := mustGet(t, p, key)
		if !found {
			t.Errorf("expected key %s to be found", key)
		}
		if value != expected {
			t.Errorf("expected value %q for key %s, got %q", expected, key, value)
		}
	}
}

func testLargeValue(t *testing.T, factory ProviderFactory) {
	large := strings.Repeat("0123456789abcdef", 64*1024) // 1MB
	p := factory(t, map[string]string{"largekey": large})

	value, found := mustGet(t, p, "largekey")
	if !found {
		t.Fatal("expected key to be found")
	}
	if value != large {
		t.Error("large value not read back correctly")
	}
}

func testProbeEmpty(t *testing.T, factory ProviderFactory) {
	p := factory(t, map[string]string{})

	if err := p.Probe(); err != nil {
		t.Errorf("expected probe of empty store to succeed, got %v", err)
	}
}

func testProbePopulated(t *testing.T, factory ProviderFactory) {
	p := factory(t, map[string]string{"foo": "bar"})

	if err := p.Probe(); err != nil {
		t.Errorf("expected probe to succeed, got %v", err)
	}
}
