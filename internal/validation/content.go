package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxGroupTitleLength = 200
	MaxGroupSlugLength  = 50
)

var groupSlugRegex = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// ValidatePostText requires non-blank text.
func ValidatePostText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("post text is required")
	}
	return nil
}

// ValidateGroupTitle requires a non-blank title of at most 200 characters.
func ValidateGroupTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > MaxGroupTitleLength {
		return fmt.Errorf("title must not exceed %d characters", MaxGroupTitleLength)
	}
	return nil
}

// ValidateGroupSlug checks slug format. Callers treat an empty slug as "no slug".
func ValidateGroupSlug(slug string) error {
	if len(slug) > MaxGroupSlugLength {
		return fmt.Errorf("slug must not exceed %d characters", MaxGroupSlugLength)
	}
	if !groupSlugRegex.MatchString(slug) {
		return fmt.Errorf("slug can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}
