package main

import (
	"fmt"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Manage database migrations (up, down, status, create)"
}

// Run shells out to the goose CLI pinned in tools.go. The service applies
// pending migrations itself on startup; this covers down, status and create.
func (c *MigrateCommand) Run(args []string) error {
	gooseArgs, err := gooseArgs(args, dbConnString(""))
	if err != nil {
		return err
	}
	return runCommandVerbose("go", gooseArgs...)
}

func gooseArgs(args []string, connString string) ([]string, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("subcommand required: up, down, status, create")
	}
	base := []string{"run", "github.com/pressly/goose/v3/cmd/goose", "-dir", "migrations"}

	if args[0] == "create" {
		if len(args) < 2 {
			return nil, fmt.Errorf("migration name required for create")
		}
		migrationType := "sql"
		if len(args) > 2 {
			migrationType = args[2]
		}
		return append(base, "create", args[1], migrationType), nil
	}

	out := append(base, "postgres", connString, args[0])
	return append(out, args[1:]...), nil
}
