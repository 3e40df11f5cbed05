package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/grocerystore/internal/models"
)

func TestOpen_SQLiteMigrates(t *testing.T) {
	ctx := context.Background()
	gdb, err := Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))
	for _, m := range models.All() {
		assert.True(t, gdb.Migrator().HasTable(m))
	}
	assert.True(t, gdb.Migrator().HasTable("user_roles"))
	require.NoError(t, Ping(ctx, gdb))
}

func TestOpen_Rejects(t *testing.T) {
	_, err := Open(context.Background(), "sqlite", "")
	assert.Error(t, err)

	_, err = Open(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}
