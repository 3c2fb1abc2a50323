// Package backup snapshots the storage file before risky operations and
// on demand. Snapshots live next to the store in a backups/ directory and
// rotate after MaxBackups.
package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/habita/habita/internal/constants"
)

const (
	MaxBackups = 14
	DirName    = "backups"

	timestampFormat = "20060102-150405"
)

// Info describes a single snapshot on disk.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager snapshots one storage file.
type Manager struct {
	storePath string
	dir       string
}

func NewManager(storePath string) *Manager {
	return &Manager{
		storePath: storePath,
		dir:       filepath.Join(filepath.Dir(storePath), DirName),
	}
}

func (m *Manager) Dir() string { return m.dir }

// Create writes a new snapshot and rotates old ones. Returns the snapshot
// path.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.storePath); os.IsNotExist(err) {
		return "", fmt.Errorf("storage file does not exist: %s", m.storePath)
	}

	name := fmt.Sprintf("%s-%s%s", constants.AppName, time.Now().Format(timestampFormat), filepath.Ext(m.storePath))
	dest := filepath.Join(m.dir, name)
	for i := 1; exists(dest); i++ {
		dest = filepath.Join(m.dir, fmt.Sprintf("%s-%s-%d%s",
			constants.AppName, time.Now().Format(timestampFormat), i, filepath.Ext(m.storePath)))
	}

	if err := m.snapshot(dest); err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		return dest, fmt.Errorf("backup created but rotation failed: %w", err)
	}
	return dest, nil
}

// snapshot copies the store to dest. SQLite databases go through VACUUM
// INTO so a live database yields a consistent copy; anything else is a
// plain file copy.
func (m *Manager) snapshot(dest string) error {
	if filepath.Ext(m.storePath) == ".json" {
		return copyFile(m.storePath, dest)
	}

	db, err := sql.Open("sqlite", m.storePath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("database appears to be corrupted: %w", err)
	}
	if _, err := db.Exec("VACUUM INTO ?", dest); err != nil {
		return copyFile(m.storePath, dest)
	}
	return nil
}

// List returns the snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	if _, err := os.Stat(m.dir); os.IsNotExist(err) {
		return nil, nil
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), constants.AppName+"-") {
			continue
		}
		ts, ok := parseTimestamp(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.dir, entry.Name()),
			Timestamp: ts,
			Size:      fi.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// Restore replaces the store with the given snapshot, snapshotting the
// current store first so a bad restore is recoverable.
func (m *Manager) Restore(backupPath string) error {
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}
	if _, err := os.Stat(m.storePath); err == nil {
		if _, err := m.Create(); err != nil {
			return fmt.Errorf("failed to snapshot current store before restore: %w", err)
		}
	}
	return copyFile(backupPath, m.storePath)
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

func parseTimestamp(name string) (time.Time, bool) {
	s := strings.TrimPrefix(name, constants.AppName+"-")
	s = strings.TrimSuffix(s, filepath.Ext(s))
	// Drop a uniqueness counter suffix if present.
	if idx := strings.LastIndex(s, "-"); idx > 0 && len(s)-idx-1 < 4 {
		s = s[:idx]
	}
	ts, err := time.Parse(timestampFormat, s)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Sync()
}
