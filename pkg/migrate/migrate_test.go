package migrate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialect(t *testing.T) {
	t.Parallel()

	got, err := Dialect("")
	require.NoError(t, err)
	require.Equal(t, "postgres", got)

	got, err = Dialect(" SQLite ")
	require.NoError(t, err)
	require.Equal(t, "sqlite3", got)

	_, err = Dialect("mysql")
	require.Error(t, err)
}

func TestRunAppliesEmbeddedSnapshotsMigration(t *testing.T) {
	ctx := context.Background()
	gdb, err := gorm.Open(sqlite.Open("file:migrate_run?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Run(ctx, sqlDB, "sqlite", "up"))
	require.True(t, gdb.Migrator().HasTable("snapshots"))

	version, err := CurrentVersion(ctx, sqlDB, "sqlite")
	require.NoError(t, err)
	require.Equal(t, int64(20260301120000), version)

	require.NoError(t, Run(ctx, sqlDB, "sqlite", "down"))
	require.False(t, gdb.Migrator().HasTable("snapshots"))

	require.NoError(t, MigrateToVersion(ctx, sqlDB, "sqlite", "20260301120000"))
	require.True(t, gdb.Migrator().HasTable("snapshots"))
}

func TestRunRequiresDB(t *testing.T) {
	t.Parallel()
	require.Error(t, Run(context.Background(), nil, "sqlite", "up"))
}

func TestEmbeddedMigrationsValidate(t *testing.T) {
	t.Parallel()
	require.NoError(t, ValidateDir("migrations"))
	require.NoError(t, ValidateEmbedded())
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	path, err := CreateSQLMigration(dir, "Add Snapshot Owner!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260302093000_add_snapshot_owner.sql"), path)

	_, err = CreateSQLMigration(dir, "add snapshot owner", now)
	require.ErrorContains(t, err, "already exists")

	_, err = CreateSQLMigration(dir, "!!!", now)
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "-- +goose Up")
	require.Contains(t, string(data), "-- +goose Down")
	require.NoError(t, ValidateDir(dir))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}

func TestValidateFSChecksAnnotations(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing up":       "-- +goose Down\n",
		"down before up":   "-- +goose Down\n-- +goose Up\n",
		"unbalanced block": "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n",
	}
	for name, body := range cases {
		fsys := fstest.MapFS{"20260101000000_bad.sql": &fstest.MapFile{Data: []byte(body)}}
		require.Error(t, ValidateFS(fsys), name)
	}

	ok := fstest.MapFS{
		"20260101000000_ok.sql": &fstest.MapFile{Data: []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")},
		"README.md":             &fstest.MapFile{Data: []byte("ignored")},
	}
	require.NoError(t, ValidateFS(ok))

	dup := fstest.MapFS{
		"20260101000000_a.sql": &fstest.MapFile{Data: []byte("-- +goose Up\n-- +goose Down\n")},
		"20260101000000_b.sql": &fstest.MapFile{Data: []byte("-- +goose Up\n-- +goose Down\n")},
	}
	require.ErrorContains(t, ValidateFS(dup), "duplicate")
}
