package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type note struct {
	Name string `gorm:"primaryKey"`
	Body string
}

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&note{}))
	return conn
}

func TestBaseDBUsesCallerContext(t *testing.T) {
	t.Parallel()

	base := NewBase(newTestDB(t, "repo_ctx"))
	ctx := context.Background()

	require.NoError(t, base.DB(ctx).Create(&note{Name: "cart", Body: "{}"}).Error)

	var got note
	require.NoError(t, base.DB(ctx).Take(&got, "name = ?", "cart").Error)
	assert.Equal(t, "{}", got.Body)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err := base.DB(cancelled).Take(&got, "name = ?", "cart").Error
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaseKeyedHelpers(t *testing.T) {
	t.Parallel()

	base := NewBase(newTestDB(t, "repo_keyed"))
	ctx := context.Background()

	var got note
	found, err := base.TakeBy(ctx, &got, "name", "user")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, base.Upsert(ctx, &note{Name: "user", Body: "v1"}, "name", "body"))
	require.NoError(t, base.Upsert(ctx, &note{Name: "user", Body: "v2"}, "name", "body"))

	found, err = base.TakeBy(ctx, &got, "name", "user")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v2", got.Body)

	var count int64
	require.NoError(t, base.DB(ctx).Model(&note{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, base.DeleteBy(ctx, &note{}, "name", "user"))
	require.NoError(t, base.DeleteBy(ctx, &note{}, "name", "user"))
	found, err = base.TakeBy(ctx, &note{}, "name", "user")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBaseDBWithoutContextReturnsConnection(t *testing.T) {
	t.Parallel()

	conn := newTestDB(t, "repo_raw")
	base := NewBase(conn)

	assert.Same(t, conn, base.DB(nil))
}
