package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{"empty", "", nil, []string{"<p>"}},
		{"emphasis", "Это **тестовый** тест", []string{"<strong>тестовый</strong>"}, nil},
		{"strikethrough", "~~old~~", []string{"<del>old</del>"}, nil},
		{"hard wraps", "one\ntwo", []string{"<br"}, nil},
		{"raw html escaped", "<script>alert(1)</script>", nil, []string{"<script>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(Markdown(tt.input))
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestDate(t *testing.T) {
	assert.Equal(t, "1 мая 2024", Date(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 декабря 1999", Date(time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, Date(time.Time{}))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "/group/Test_slug/?page=3", PageURL("/group/Test_slug/", 3))
	assert.Equal(t, "/", PageURL("/?page=2", 1))
	assert.True(t, strings.HasPrefix(PageURL("/?q=x", 2), "/?"))
	assert.Contains(t, PageURL("/?q=x", 2), "page=2")
}
