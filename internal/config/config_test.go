package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("JOBSEEK_CONFIG_DIR", t.TempDir())
	t.Setenv("JOBSEEK_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.LoginTimeout() != 10*time.Second || cfg.SignupTimeout() != 30*time.Second {
		t.Fatalf("unexpected timeouts: login=%s signup=%s", cfg.LoginTimeout(), cfg.SignupTimeout())
	}
	if cfg.ProbeTimeout() != 5*time.Second || cfg.ReachabilityTimeout() != 3*time.Second {
		t.Fatalf("unexpected probe timeouts: %+v", cfg)
	}
}

func TestLoadJSON5WithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBSEEK_CONFIG_DIR", dir)
	t.Setenv("JOBSEEK_STORE", "")
	t.Setenv("JOBSEEK_BASE_URL", "http://10.0.2.2:8080")

	data := `{
		// comments and trailing commas are allowed
		base_url: "http://example.internal",
		store: "sqlite",
		login_timeout_seconds: 4,
	}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "http://10.0.2.2:8080" {
		t.Fatalf("BaseURL = %q, env must win", cfg.BaseURL)
	}
	if cfg.Store != "sqlite" {
		t.Fatalf("Store = %q, want sqlite", cfg.Store)
	}
	if cfg.LoginTimeout() != 4*time.Second {
		t.Fatalf("LoginTimeout = %s", cfg.LoginTimeout())
	}

	path, err := cfg.ResolvedStorePath()
	if err != nil {
		t.Fatalf("ResolvedStorePath() error = %v", err)
	}
	if path != filepath.Join(dir, SessionDBName) {
		t.Fatalf("store path = %q", path)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	t.Setenv("JOBSEEK_CONFIG_DIR", filepath.Join(t.TempDir(), "nested"))

	created, err := Init()
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 files created, got %v", created)
	}

	created, err = Init()
	if err != nil {
		t.Fatalf("second Init() error = %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("expected nothing created, got %v", created)
	}

	if _, err := Load(); err != nil {
		t.Fatalf("Load() after Init error = %v", err)
	}
}

func TestLoadProxies(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JOBSEEK_CONFIG_DIR", dir)
	t.Setenv("JOBSEEK_PROXIES", "")

	content := "# comment\nhttp://p1:8080\n\n  http://p2:8080  \n"
	if err := os.WriteFile(filepath.Join(dir, ProxiesFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write proxies: %v", err)
	}

	got, err := LoadProxies("")
	if err != nil {
		t.Fatalf("LoadProxies() error = %v", err)
	}
	want := []string{"http://p1:8080", "http://p2:8080"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("LoadProxies() = %v, want %v", got, want)
	}

	got, _ = LoadProxies(" http://flag:1 , ,http://flag:2")
	if !reflect.DeepEqual(got, []string{"http://flag:1", "http://flag:2"}) {
		t.Fatalf("flag proxies = %v", got)
	}
}
