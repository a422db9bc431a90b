package models

import (
	"time"
	"unicode/utf8"
)

// Post is a user-authored text record with an optional group.
//
// AuthorID and PubDate are create-only columns: GORM never includes them
// in UPDATE statements, so an edit cannot move a post to another author or
// restamp it.
type Post struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"type:text;not null" json:"text"`
	PubDate  time.Time `gorm:"column:pub_date;not null;index;<-:create" json:"pub_date"`
	AuthorID uint      `gorm:"not null;index;<-:create" json:"author_id"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	GroupID  *uint     `gorm:"index" json:"group_id"`
	Group    *Group    `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
}

// String returns the first 15 characters of the text.
func (p Post) String() string {
	return Truncate(p.Text, 15)
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
