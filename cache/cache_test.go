package cache

import (
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	for _, backend := range []string{"", "none", " NONE "} {
		c, err := Open(Options{Backend: backend})
		if err != nil || c != nil {
			t.Errorf("backend %q: got %v, %v; want nil, nil", backend, c, err)
		}
	}

	c, err := Open(Options{Backend: "memory", TTL: 60})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := c.(*InMemoryCache); !ok {
		t.Errorf("memory: got %T", c)
	}
	if err := Close(c); err != nil {
		t.Errorf("Close on memory cache: %v", err)
	}

	c, err = Open(Options{Backend: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "c.db")})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, ok := c.(*SQLiteCache); !ok {
		t.Errorf("sqlite: got %T", c)
	}
	if err := Close(c); err != nil {
		t.Errorf("Close on sqlite cache: %v", err)
	}

	if _, err := Open(Options{Backend: "redis"}); err == nil {
		t.Error("redis without a URL should fail")
	}
	if _, err := Open(Options{Backend: "memcached"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
