package database

import (
	"context"
	"testing"
	"time"

	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistentModels_ReferencedTablesFirst(t *testing.T) {
	ms := PersistentModels()
	require.Len(t, ms, 3)
	_, isUser := ms[0].(*models.User)
	_, isPost := ms[2].(*models.Post)
	assert.True(t, isUser)
	assert.True(t, isPost)
}

func TestMigrateAndStatus(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	ctx := context.Background()

	before, err := SchemaStatus(ctx, db)
	require.NoError(t, err)
	for _, s := range before {
		assert.False(t, s.Exists, s.Table)
	}

	require.NoError(t, Migrate(ctx, db))

	after, err := SchemaStatus(ctx, db)
	require.NoError(t, err)
	tables := make([]string, 0, len(after))
	for _, s := range after {
		assert.True(t, s.Exists, s.Table)
		tables = append(tables, s.Table)
	}
	assert.Equal(t, []string{"users", "groups", "posts"}, tables)
}

func TestMigrate_ReferentialActions(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))

	author := models.User{Username: "leo", Password: "x"}
	require.NoError(t, db.Create(&author).Error)
	slug := "tolstoy"
	group := models.Group{Title: "Tolstoy", Slug: &slug}
	require.NoError(t, db.Create(&group).Error)
	post := models.Post{Text: "War and Peace", AuthorID: author.ID, GroupID: &group.ID, PubDate: time.Now()}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, db.Delete(&group).Error)
	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Nil(t, reloaded.GroupID)

	require.NoError(t, db.Delete(&author).Error)
	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)

	dup := models.Group{Title: "Again", Slug: &slug}
	require.NoError(t, db.Create(&dup).Error)
	clash := models.Group{Title: "Clash", Slug: &slug}
	assert.Error(t, db.Create(&clash).Error)
	require.NoError(t, db.Create(&models.Group{Title: "No slug 1"}).Error)
	require.NoError(t, db.Create(&models.Group{Title: "No slug 2"}).Error)
}

func TestOpenSQLite_ForeignKeysEnforced(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(context.Background(), db))

	var enabled int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&enabled).Error)
	assert.Equal(t, 1, enabled)

	err = db.Create(&models.Post{Text: "orphan", AuthorID: 999}).Error
	assert.Error(t, err)
}

func TestQueryLabels(t *testing.T) {
	cases := []struct {
		sql, op, table string
	}{
		{`SELECT * FROM "posts" WHERE author_id = 1`, "select", "posts"},
		{`INSERT INTO "groups" ("title") VALUES ('x')`, "insert", "groups"},
		{"UPDATE `posts` SET `text`='a'", "update", "posts"},
		{"PRAGMA foreign_keys = ON", "pragma", "unknown"},
		{"", "unknown", "unknown"},
	}
	for _, tc := range cases {
		op, table := queryLabels(tc.sql)
		assert.Equal(t, tc.op, op, tc.sql)
		assert.Equal(t, tc.table, table, tc.sql)
	}
}
