package seed

import (
	"context"
	"fmt"

	"yatube/internal/cache"
	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Counts is how many of each entity a run creates.
type Counts struct {
	Users  int
	Groups int
	Posts  int
}

// Summary reports what a run created.
type Summary struct {
	Users  []*models.User
	Groups []*models.Group
	Posts  int
}

// Seeder fills a database with a coherent set of demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

func NewSeeder(db *gorm.DB, opts SeedOptions) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts)}
}

// Factory exposes the underlying factory for ad-hoc entities.
func (s *Seeder) Factory() *Factory {
	return s.factory
}

// Run creates users, then groups, then posts spread over both. Roughly a
// third of the posts have no group.
func (s *Seeder) Run(ctx context.Context, counts Counts) (*Summary, error) {
	if counts.Posts > 0 && counts.Users == 0 {
		return nil, fmt.Errorf("posts need at least one user")
	}

	summary := &Summary{}
	for i := 0; i < counts.Users; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		summary.Users = append(summary.Users, u)
	}

	for i := 0; i < counts.Groups; i++ {
		g, err := s.factory.CreateGroup()
		if err != nil {
			return nil, fmt.Errorf("create group: %w", err)
		}
		summary.Groups = append(summary.Groups, g)
	}

	posts := make([]*models.Post, 0, counts.Posts)
	for i := 0; i < counts.Posts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		author := summary.Users[gofakeit.Number(0, len(summary.Users)-1)]
		var group *models.Group
		if len(summary.Groups) > 0 && gofakeit.Number(0, 2) > 0 {
			group = summary.Groups[gofakeit.Number(0, len(summary.Groups)-1)]
		}
		posts = append(posts, s.factory.BuildPost(author, group))
	}
	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	summary.Posts = len(posts)

	middleware.Logger.InfoContext(ctx, "seeding complete",
		"users", len(summary.Users),
		"groups", len(summary.Groups),
		"posts", summary.Posts,
	)
	return summary, nil
}

// ClearAll removes every post, group and user. Posts go first so that no
// foreign key is left dangling.
func (s *Seeder) ClearAll(ctx context.Context) error {
	if s.factory.opts.DryRun {
		middleware.Logger.InfoContext(ctx, "[dry-run] ClearAll")
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.Post{}, &models.Group{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return cache.InvalidateContent(ctx)
}
