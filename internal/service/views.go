package service

import (
	"yatube/internal/models"
	"yatube/internal/pagination"
)

// PostPage is one page of a post listing.
type PostPage struct {
	Posts []models.Post
	Page  pagination.Page
}

// FeedPage is the global feed.
type FeedPage struct {
	PostPage
}

// GroupFeed is a group's posts plus the group itself.
type GroupFeed struct {
	PostPage
	Group models.Group
}

// ProfileFeed is an author's posts plus the author and their post count.
type ProfileFeed struct {
	PostPage
	Author    models.User
	PostCount int64
}

// PostDetail is a single post for display.
type PostDetail struct {
	Post            models.Post
	AuthorPostCount int64
	CanEdit         bool
}

// PostForm is the data needed to render the create or edit form.
type PostForm struct {
	PostID uint
	Input  PostInput
	Groups []models.Group
	Errors map[string][]string
}

func (f PostForm) IsEdit() bool {
	return f.PostID != 0
}

// FieldErrors returns the messages for one field.
func (f PostForm) FieldErrors(field string) []string {
	return f.Errors[field]
}

// NonFieldErrors returns messages that belong to the whole form.
func (f PostForm) NonFieldErrors() []string {
	return f.Errors[models.NonFieldKey]
}

// Selected reports whether the group option should be pre-selected.
func (f PostForm) Selected(groupID uint) bool {
	id, ok := parseGroupChoice(f.Input.Group)
	return ok && id != nil && *id == groupID
}
