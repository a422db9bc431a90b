package repository

import (
	"context"
	"regexp"
	"testing"

	"yatube/internal/models"
	"yatube/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_CreateDuplicateSlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGroupRepository(db)

	slug := "Test_slug"
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "groups"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Group{Title: "Test", Slug: &slug})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Equal(t, []string{"Group with this slug already exists."}, appErr.Fields["slug"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGroupRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "groups" WHERE slug = $1`)).
		WithArgs("Test_slug", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug", "description"}).
			AddRow(1, "Тестовая группа", "Test_slug", "Описание"))

	group, err := repo.GetBySlug(context.Background(), "Test_slug")
	require.NoError(t, err)
	assert.Equal(t, "Тестовая группа", group.Title)
	assert.Equal(t, "Test_slug", group.SlugValue())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_SQLite(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	slug := "Test_slug"
	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Beta", Slug: &slug}))
	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Alpha"}))
	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Gamma"}))

	err := repo.Create(ctx, &models.Group{Title: "Clash", Slug: &slug})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Alpha", groups[0].Title)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	_, err = repo.GetBySlug(ctx, "")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	_, err = repo.GetByID(ctx, 12345)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestUserRepository_SQLite(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{Username: "leo", Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	err := repo.Create(ctx, &models.User{Username: "leo", Password: "hash"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "username")

	found, err := repo.GetByUsername(ctx, "leo")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = repo.GetByUsername(ctx, "nobody")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	_, err = repo.GetByID(ctx, 999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestConstraintErrorDetection(t *testing.T) {
	assert.True(t, isUniqueConstraintError(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueConstraintError(assert.AnError))
	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isForeignKeyError(nil))
}
