package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "secure123", false},
		{"Exactly Min Length", "abcdefg1", false},
		{"Exactly Max Length", strings.Repeat("b", 127) + "1", false},
		{"Too Short", "abc12", true},
		{"Too Long", strings.Repeat("b", 128) + "1", true},
		{"No Digit", "onlyletters", true},
		{"No Letter", "1234567890", true},
		{"Cyrillic Letters", "пароль123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Too Short", "tu", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Starts Dash", "-user", true},
		{"Ends Underscore", "user_", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateEmail("leo@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@x.com"))
}

func TestValidatePostText(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidatePostText("Это тестовый тест"))
	assert.Error(t, ValidatePostText(""))
	assert.Error(t, ValidatePostText("  \n\t "))
}

func TestValidateGroup(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateGroupTitle("Лев Толстой"))
	assert.Error(t, ValidateGroupTitle(" "))
	assert.NoError(t, ValidateGroupTitle(strings.Repeat("я", 200)))
	assert.Error(t, ValidateGroupTitle(strings.Repeat("я", 201)))

	assert.NoError(t, ValidateGroupSlug("Test_slug"))
	assert.NoError(t, ValidateGroupSlug("leo-tolstoy"))
	assert.Error(t, ValidateGroupSlug("with space"))
	assert.Error(t, ValidateGroupSlug("слаг"))
	assert.Error(t, ValidateGroupSlug(strings.Repeat("a", 51)))
}
