package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/habita/habita/internal/keyring"
)

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the OS keyring."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	if !strings.HasPrefix(c.ConnectionString, "postgres://") &&
		!strings.HasPrefix(c.ConnectionString, "postgresql://") &&
		!strings.Contains(c.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}
	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return err
	}
	fmt.Println("Connection string stored in OS keyring.")
	fmt.Println("Run habita with --config postgres:// to use it.")
	return nil
}

type KeyringClearCmd struct{}

func (c *KeyringClearCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string stored in keyring")
		}
		return err
	}
	fmt.Println("Connection string removed from OS keyring.")
	return nil
}
