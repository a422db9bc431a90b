// Package testutil provides shared database fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"yatube/internal/database"
	"yatube/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain-text password of every user made by User.
const Password = "secret123"

// NewDB returns a migrated private in-memory SQLite database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(context.Background(), db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// User creates an account whose password is Password.
func User(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{Username: username, Password: string(hash)}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Group creates a group; an empty slug leaves it NULL.
func Group(t *testing.T, db *gorm.DB, title, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: title, Description: "Описание " + title}
	if slug != "" {
		g.Slug = &slug
	}
	require.NoError(t, db.Create(g).Error)
	return g
}

// Post creates a post published at the given time.
func Post(t *testing.T, db *gorm.DB, author *models.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID, PubDate: at.UTC()}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Reload reads a post straight from the database, bypassing any cache.
func Reload(t *testing.T, db *gorm.DB, id uint) *models.Post {
	t.Helper()
	var p models.Post
	require.NoError(t, db.Preload("Group").First(&p, id).Error)
	return &p
}
