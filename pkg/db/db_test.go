package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homedash/pkg/config"
	"homedash/pkg/model"
	"homedash/pkg/store"
)

func memoryConfig(t *testing.T) config.Database {
	return config.Database{Driver: "memory", Path: strings.ReplaceAll(t.Name(), "/", "_")}
}

func TestOpenMemoryMigratesIdempotently(t *testing.T) {
	gdb, err := Open(memoryConfig(t), false)
	require.NoError(t, err)
	defer Close(gdb)

	require.NoError(t, Migrate(gdb))
	require.NoError(t, Migrate(gdb))
	assert.True(t, gdb.Migrator().HasTable(&model.User{}))
	assert.True(t, gdb.Migrator().HasTable(&model.ServiceLink{}))
}

func TestOpenSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dashboard.db")
	gdb, err := Open(config.Database{Driver: "sqlite", Path: path}, true)
	require.NoError(t, err)
	require.NoError(t, Close(gdb))

	// reopening an existing schema is fine
	gdb, err = Open(config.Database{Driver: "sqlite", Path: path}, false)
	require.NoError(t, err)
	require.NoError(t, Close(gdb))
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.Database{Driver: "oracle"}, false)
	assert.ErrorContains(t, err, "unsupported database driver")

	_, err = Open(config.Database{Driver: "postgres"}, false)
	assert.ErrorContains(t, err, "DATABASE_DSN")
}

func TestSeedAdminOnlyOnce(t *testing.T) {
	gdb, err := Open(memoryConfig(t), false)
	require.NoError(t, err)
	defer Close(gdb)
	st := store.NewGormStore(gdb)
	ctx := context.Background()
	admin := config.Admin{UserName: "admin", Password: "admin123"}

	created, err := SeedAdmin(ctx, st, admin)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SeedAdmin(ctx, st, admin)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := st.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	u, err := st.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "Admin", u.FirstName)
	assert.True(t, u.Active)
}
