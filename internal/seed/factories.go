// Package seed creates demo data for development databases and tests.
package seed

import (
	"fmt"
	"strings"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// SeedOptions tunes how much work the factory does.
type SeedOptions struct {
	// DryRun builds entities with synthetic IDs and writes nothing.
	DryRun bool
	// SkipBcrypt stores a cheap hash, for fast local seeding.
	SkipBcrypt bool
	// MaxDays bounds how far back pub_date is spread.
	MaxDays int
	// Seed makes the generated data reproducible; 0 picks a random seed.
	Seed int64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID    uint
	usernames map[string]bool
	now       func() time.Time
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	gofakeit.Seed(opts.Seed)
	return &Factory{db: db, opts: opts, nextID: 1000, usernames: map[string]bool{}, now: time.Now}
}

func (f *Factory) assignID() uint {
	f.nextID++
	return f.nextID
}

// username returns a login name not yet handed out by this factory.
func (f *Factory) username() string {
	for {
		name := fmt.Sprintf("%s%d", slugify(gofakeit.FirstName()), gofakeit.Number(100, 9999))
		if !f.usernames[name] {
			f.usernames[name] = true
			return name
		}
	}
}

func (f *Factory) passwordHash() (string, error) {
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CreateUser constructs and persists a sample account.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:  f.username(),
		Email:     gofakeit.Email(),
		Password:  hash,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		user.ID = f.assignID()
		middleware.Logger.Info("[dry-run] CreateUser", "username", user.Username)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// slugify keeps the characters a group slug allows.
func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CreateGroup constructs and persists a sample group with a unique slug.
func (f *Factory) CreateGroup(overrides ...func(*models.Group)) (*models.Group, error) {
	title := capitalize(gofakeit.HipsterWord() + " " + gofakeit.Noun())
	base := strings.Trim(slugify(title), "-")
	if len(base) > 40 {
		base = strings.TrimRight(base[:40], "-")
	}
	slug := fmt.Sprintf("%s-%d", base, gofakeit.Number(1000, 9999))
	group := &models.Group{
		Title:       title,
		Slug:        &slug,
		Description: gofakeit.Sentence(12),
	}

	for _, override := range overrides {
		override(group)
	}

	if f.opts.DryRun {
		group.ID = f.assignID()
		middleware.Logger.Info("[dry-run] CreateGroup", "slug", group.SlugValue())
		return group, nil
	}

	if err := f.db.Create(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// BuildPost constructs a post by author, optionally in group, with a pub_date
// spread over the last MaxDays. It is not persisted.
func (f *Factory) BuildPost(author *models.User, group *models.Group, overrides ...func(*models.Post)) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	now := f.now()
	post := &models.Post{
		Text:     gofakeit.Paragraph(1, 3, 12, "\n\n"),
		AuthorID: author.ID,
		PubDate:  gofakeit.DateRange(now.AddDate(0, 0, -maxDays), now).UTC(),
	}
	if group != nil {
		post.GroupID = &group.ID
	}

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			p.ID = f.assignID()
		}
		middleware.Logger.Info("[dry-run] CreatePostsBatch", "count", len(posts))
		return nil
	}
	return f.db.Omit("Author", "Group").CreateInBatches(posts, 100).Error
}
