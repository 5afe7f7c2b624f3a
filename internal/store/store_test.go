package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "auth_token"); err != nil || ok {
		t.Fatalf("Get() on empty store = ok:%v err:%v", ok, err)
	}
	if err := s.Set(ctx, "auth_token", "abc"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "user_email", "ana@example.com"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "auth_token", "def"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, ok, err := s.Get(ctx, "auth_token")
	if err != nil || !ok || got != "def" {
		t.Fatalf("Get() = %q, %v, %v; want def", got, ok, err)
	}

	if err := s.Delete(ctx, "auth_token", "missing"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "auth_token"); ok {
		t.Fatalf("expected auth_token to be deleted")
	}
	if got, ok, _ := s.Get(ctx, "user_email"); !ok || got != "ana@example.com" {
		t.Fatalf("unrelated key lost: %q %v", got, ok)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	exerciseStore(t, NewFile(path))

	reopened := NewFile(path)
	got, ok, err := reopened.Get(context.Background(), "user_email")
	if err != nil || !ok || got != "ana@example.com" {
		t.Fatalf("value did not survive reopen: %q %v %v", got, ok, err)
	}
}

func TestFileStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, ok, err := NewFile(path).Get(context.Background(), "auth_token"); err != nil || ok {
		t.Fatalf("Get() = ok:%v err:%v", ok, err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, _, err := NewFile(path).Get(context.Background(), "auth_token"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	exerciseStore(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() reopen error = %v", err)
	}
	defer reopened.Close()
	got, ok, err := reopened.Get(context.Background(), "user_email")
	if err != nil || !ok || got != "ana@example.com" {
		t.Fatalf("value did not survive reopen: %q %v %v", got, ok, err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, _, err := Open("redis", "x"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
