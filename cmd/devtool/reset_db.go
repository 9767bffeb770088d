package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ResetDBCommand struct{}

func (c *ResetDBCommand) Name() string {
	return "reset-db"
}

func (c *ResetDBCommand) Description() string {
	return "Drop and recreate the database (asks for confirmation unless -y)"
}

func (c *ResetDBCommand) Run(args []string) error {
	dbName := getEnv("DB_NAME", "redeembot")
	PrintHeader(fmt.Sprintf("Resetting database %s", dbName))

	if getEnv("ENVIRONMENT", "dev") == "prod" {
		return fmt.Errorf("refusing to reset a prod database")
	}
	if !(len(args) > 0 && args[0] == "-y") {
		fmt.Printf("This deletes every redemption and inventory row in %s. Type '%s' to continue: ", dbName, confirmYes)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(answer) != confirmYes {
			PrintInfo("Aborted")
			return nil
		}
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbConnString("postgres"))
	if err != nil {
		return fmt.Errorf("connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	PrintInfo("Terminating existing connections...")
	if _, err := conn.Exec(ctx, `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()`, dbName); err != nil {
		PrintWarning("Failed to terminate connections: %v", err)
	}

	ident := pgx.Identifier{dbName}.Sanitize()
	if _, err := conn.Exec(ctx, "DROP DATABASE IF EXISTS "+ident); err != nil {
		return fmt.Errorf("drop database: %w", err)
	}
	PrintSuccess("Dropped %s", dbName)

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+ident); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	PrintSuccess("Created %s", dbName)
	PrintInfo("Next step: run 'devtool migrate up' or start the service to apply migrations")
	return nil
}
