package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestSaveLoad_RoundTrip verifies saving and loading preserves the address.
func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yaml")
	in := Prefs{Address: "AA:BB:CC:DD:EE:FF"}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out != in {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

// TestLoad_MissingFile verifies missing files return empty preferences.
func TestLoad_MissingFile(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p.Address != "" {
		t.Fatalf("expected empty address, got %q", p.Address)
	}
}

// TestLoad_InvalidYAML verifies malformed files are reported.
func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(path, []byte("address: [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for invalid yaml")
	}
}

// TestStore_SetAddressPersists verifies SetAddress updates memory and disk.
func TestStore_SetAddressPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.SetAddress("  11:22:33:44:55:66 "); err != nil {
		t.Fatalf("SetAddress failed: %v", err)
	}
	if got := s.Get().Address; got != "11:22:33:44:55:66" {
		t.Fatalf("unexpected address %q", got)
	}
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := reopened.Get().Address; got != "11:22:33:44:55:66" {
		t.Fatalf("unexpected persisted address %q", got)
	}
}

// TestStore_ReloadIgnoresOwnWrites verifies only external edits count as changes.
func TestStore_ReloadIgnoresOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.SetAddress("AA:BB:CC:DD:EE:FF"); err != nil {
		t.Fatalf("SetAddress failed: %v", err)
	}
	if _, changed, err := s.reload(); err != nil || changed {
		t.Fatalf("expected no change after own write, changed=%v err=%v", changed, err)
	}
	if err := Save(path, Prefs{Address: "11:22:33:44:55:66"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	p, changed, err := s.reload()
	if err != nil || !changed || p.Address != "11:22:33:44:55:66" {
		t.Fatalf("expected external change, got %+v changed=%v err=%v", p, changed, err)
	}
}

// TestStore_WatchReportsExternalEdit verifies the watcher delivers edited addresses.
func TestStore_WatchReportsExternalEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.yaml")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan Prefs, 1)
	go func() {
		_ = s.Watch(ctx, func(p Prefs) {
			select {
			case got <- p:
			default:
			}
		})
	}()

	time.Sleep(50 * time.Millisecond)
	if err := Save(path, Prefs{Address: "AA:BB:CC:DD:EE:FF"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	select {
	case p := <-got:
		if p.Address != "AA:BB:CC:DD:EE:FF" {
			t.Fatalf("unexpected address %q", p.Address)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for watcher")
	}
}

// TestOpen_RequiresPath verifies an empty path is rejected.
func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

// TestOpen_CleansPath verifies the store reports the normalized file path it watches.
func TestOpen_CleansPath(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir + "/sub/../prefs.yaml")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if want := filepath.Join(dir, "prefs.yaml"); s.Path() != want {
		t.Fatalf("expected path %s, got %s", want, s.Path())
	}
}
