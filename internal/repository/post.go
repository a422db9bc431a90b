// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"yatube/internal/cache"
	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// feedOrder is the default listing order, newest first.
const feedOrder = "pub_date DESC, id DESC"

// PostFilter narrows a listing to one author and/or one group. Zero fields
// match everything.
type PostFilter struct {
	AuthorID uint
	GroupID  uint
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	UpdateContent(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewFieldErrors(map[string][]string{
				"group": {"Select a valid group. That choice is not one of the available choices."},
			})
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post

	err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
		err := r.db.WithContext(ctx).
			Preload("Author").
			Preload("Group").
			First(&post, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) scoped(ctx context.Context, filter PostFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Post{})
	if filter.AuthorID != 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if filter.GroupID != 0 {
		q = q.Where("group_id = ?", filter.GroupID)
	}
	return q
}

func (r *postRepository) List(ctx context.Context, filter PostFilter, limit, offset int) ([]models.Post, error) {
	var posts []models.Post
	err := r.scoped(ctx, filter).
		Preload("Author").
		Preload("Group").
		Order(feedOrder).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, filter PostFilter) (int64, error) {
	var count int64
	if err := r.scoped(ctx, filter).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// UpdateContent writes only text and group_id. Author and pub_date are
// create-only columns and never part of an UPDATE.
func (r *postRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{ID: post.ID}).
		Select("text", "group_id").
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
		}).Error
	if err != nil {
		if isForeignKeyError(err) {
			return models.NewFieldErrors(map[string][]string{
				"group": {"Select a valid group. That choice is not one of the available choices."},
			})
		}
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}
