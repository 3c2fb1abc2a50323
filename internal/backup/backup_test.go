package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStore(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "habita.json")
	if err := os.WriteFile(path, []byte(`{"version":1}`), 0600); err != nil {
		t.Fatalf("failed to write store: %v", err)
	}
	return path
}

func TestCreateSnapshotsStore(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(writeStore(t, dir))

	path, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(path) != m.Dir() {
		t.Errorf("snapshot written outside backup dir: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	if string(data) != `{"version":1}` {
		t.Errorf("snapshot content mismatch: %s", data)
	}
}

func TestCreateMissingStore(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := m.Create(); err == nil {
		t.Fatal("expected error for missing store")
	}
}

func TestListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(writeStore(t, dir))
	if _, err := m.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, name := range []string{"notes.txt", "habita-garbage.json"} {
		if err := os.WriteFile(filepath.Join(m.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if !strings.HasPrefix(filepath.Base(backups[0].Path), "habita-") {
		t.Errorf("unexpected backup name: %s", backups[0].Path)
	}
}

func TestRotationKeepsMaxBackups(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(writeStore(t, dir))

	for i := 0; i < MaxBackups+3; i++ {
		if _, err := m.Create(); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	backups, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", MaxBackups, len(backups))
	}
}

func TestRestoreReplacesStore(t *testing.T) {
	dir := t.TempDir()
	store := writeStore(t, dir)
	m := NewManager(store)

	snapshot, err := m.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := os.WriteFile(store, []byte(`{"version":1,"changed":true}`), 0600); err != nil {
		t.Fatalf("failed to mutate store: %v", err)
	}
	if err := m.Restore(snapshot); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	data, err := os.ReadFile(store)
	if err != nil {
		t.Fatalf("failed to read store: %v", err)
	}
	if string(data) != `{"version":1}` {
		t.Errorf("store not restored: %s", data)
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	m := NewManager(writeStore(t, t.TempDir()))
	if err := m.Restore(filepath.Join(m.Dir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing backup")
	}
}
