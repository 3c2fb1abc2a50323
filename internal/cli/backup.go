package cli

import (
	"fmt"
	"strings"

	"github.com/habita/habita/internal/backup"
)

// backupManager refuses Postgres configs, where snapshots are the
// server's job.
func backupManager(ctx *Context) (*backup.Manager, error) {
	path := ctx.Store.GetConfigPath()
	if strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://") {
		return nil, fmt.Errorf("backups are only supported for file-based storage")
	}
	return backup.NewManager(path), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	m, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := m.Create()
	if err != nil {
		return err
	}
	fmt.Printf("Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	m, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}
	for _, b := range backups {
		fmt.Printf("%s  %7d bytes  %s\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Size, b.Path)
	}
	return nil
}

type BackupRestoreCmd struct {
	Path string `arg:"" help:"Backup file to restore."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	m, err := backupManager(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Store.Close(); err != nil {
		return err
	}
	if err := m.Restore(c.Path); err != nil {
		return err
	}
	fmt.Printf("Restored storage from %s\n", c.Path)
	return nil
}
