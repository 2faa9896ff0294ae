package config

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Fatalf("default driver: %q", cfg.StoreDriver)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("default port: %d", cfg.HTTPPort)
	}
	if cfg.CaptionAPIURL == "" {
		t.Fatal("caption API URL should default")
	}
}

func TestPostgresRequiresDSN(t *testing.T) {
	t.Setenv("CONTENTOPS_STORE_DRIVER", "postgres")
	if _, err := New(); err == nil || !strings.Contains(err.Error(), "POSTGRES_DSN") {
		t.Fatalf("want DSN error, got %v", err)
	}

	t.Setenv("CONTENTOPS_POSTGRES_DSN", "postgres://localhost/contentops")
	cfg, err := New()
	if err != nil {
		t.Fatalf("New with DSN: %v", err)
	}
	if cfg.StoreDriver != "postgres" {
		t.Fatalf("driver: %q", cfg.StoreDriver)
	}
}

func TestRejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONTENTOPS_STORE_DRIVER", "etcd")
	if _, err := New(); err == nil {
		t.Fatal("unknown driver should be rejected")
	}
}

func TestRejectsBadPort(t *testing.T) {
	t.Setenv("CONTENTOPS_HTTP_PORT", "70000")
	if _, err := New(); err == nil {
		t.Fatal("out-of-range port should be rejected")
	}
}
