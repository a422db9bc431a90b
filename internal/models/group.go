package models

// Group is a topical category a post may belong to.
type Group struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Title       string  `gorm:"size:200;not null" json:"title"`
	Slug        *string `gorm:"size:50;uniqueIndex" json:"slug"`
	Description string  `gorm:"type:text;not null;default:''" json:"description"`
}

func (g Group) String() string {
	return g.Title
}

// SlugValue returns the slug or "" when the group has none.
func (g Group) SlugValue() string {
	if g.Slug == nil {
		return ""
	}
	return *g.Slug
}
