package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ListSortedAndHelpAligned(t *testing.T) {
	r := newDefaultRegistry()

	var names []string
	for _, cmd := range r.List() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"health-check", "migrate", "reset-db", "wait-for-db", "watch-events"}, names)

	_, ok := r.Get("deploy")
	assert.False(t, ok)

	var buf bytes.Buffer
	r.PrintHelp(&buf)
	assert.Contains(t, buf.String(), "  migrate       Manage database migrations")
}

func TestCheckHostile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "status", false},
		{"url with ampersand", "postgres://u:p@h/db?sslmode=disable&x=1", false},
		{"newline", "up\nrm", true},
		{"null byte", "up\x00", true},
		{"pipe", "up | sh", true},
		{"substitution", "$(id)", true},
		{"redirect", "up > out", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkHostile(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGooseArgs(t *testing.T) {
	const conn = "postgres://u:p@localhost:5432/redeembot"

	_, err := gooseArgs(nil, conn)
	assert.Error(t, err)

	_, err = gooseArgs([]string{"create"}, conn)
	assert.Error(t, err)

	args, err := gooseArgs([]string{"create", "add_index"}, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "add_index", "sql"}, args[len(args)-3:])
	assert.NotContains(t, args, conn, "create needs no connection")

	args, err = gooseArgs([]string{"down-to", "3"}, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"postgres", conn, "down-to", "3"}, args[len(args)-4:])
}

func TestDBConnString(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "redeem")

	assert.Equal(t, "postgres://svc:pw@db:6543/redeem?sslmode=disable", dbConnString(""))
	assert.Equal(t, "postgres://svc:pw@db:6543/postgres?sslmode=disable", dbConnString("postgres"))

	t.Setenv("DB_URL", "postgres://override/x")
	assert.Equal(t, "postgres://override/x", dbConnString(""))
	assert.Contains(t, dbConnString("postgres"), "/postgres?", "an explicit database ignores DB_URL")
}

func TestPrintFrames(t *testing.T) {
	stream := strings.Join([]string{
		"id: 1", "event: connected", "data: {}", "",
		"id: 2", "event: keepalive", "data: {}", "",
		"id: 3", "event: redemption.completed", `data: {"request_id":"r-1"}`, "",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, printFrames(strings.NewReader(stream), &out))
	assert.Equal(t, "connected {}\nredemption.completed {\"request_id\":\"r-1\"}\n", out.String())
}

func TestWaitForDB_GivesUp(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := waitForDB(ctx, "postgres://nobody:x@127.0.0.1:1/none?sslmode=disable&connect_timeout=1", 2, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}
