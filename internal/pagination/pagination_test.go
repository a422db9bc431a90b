package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"2.5", 1},
		{"3", 3},
		{" 4 ", 4},
		{"0", 0},
		{"-2", -2},
		{"99999999999999999999", math.MaxInt},
		{"-99999999999999999999", 1},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.raw))
		})
	}
}

func TestFromQuery_Clamping(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		total      int64
		wantNumber int
		wantPages  int
	}{
		{"default page", "", 25, 1, 3},
		{"middle page", "2", 25, 2, 3},
		{"last page", "3", 25, 3, 3},
		{"past the end", "99", 25, 3, 3},
		{"zero", "0", 25, 1, 3},
		{"negative", "-5", 25, 1, 3},
		{"garbage", "last", 25, 1, 3},
		{"too large for int", "99999999999999999999", 25, 3, 3},
		{"too small for int", "-99999999999999999999", 25, 1, 3},
		{"empty listing", "4", 0, 1, 1},
		{"exact multiple", "2", 20, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromQuery(tt.raw, 10, tt.total)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantPages, p.TotalPages)
		})
	}
}

func TestPage_Navigation(t *testing.T) {
	first := New(1, 10, 25)
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasNext())
	assert.Equal(t, 2, first.NextNumber())
	assert.Equal(t, 0, first.PreviousNumber())
	assert.Equal(t, 0, first.Offset())
	assert.Equal(t, int64(1), first.StartIndex())
	assert.Equal(t, int64(10), first.EndIndex())

	last := New(3, 10, 25)
	assert.True(t, last.HasPrevious())
	assert.False(t, last.HasNext())
	assert.Equal(t, 0, last.NextNumber())
	assert.Equal(t, 2, last.PreviousNumber())
	assert.Equal(t, 20, last.Offset())
	assert.Equal(t, int64(21), last.StartIndex())
	assert.Equal(t, int64(25), last.EndIndex())
	assert.Equal(t, []int{1, 2, 3}, last.Numbers())

	empty := New(1, 10, 0)
	assert.False(t, empty.HasOtherPages())
	assert.Equal(t, int64(0), empty.StartIndex())
	assert.Equal(t, int64(0), empty.EndIndex())
}

func TestNew_DefaultSize(t *testing.T) {
	p := New(1, 0, 15)
	assert.Equal(t, DefaultPageSize, p.Size)
	assert.Equal(t, 2, p.TotalPages)
}

func TestSlice(t *testing.T) {
	items := make([]int, 13)
	for i := range items {
		items[i] = i
	}

	got, page := Slice(items, "2", 10)
	assert.Equal(t, []int{10, 11, 12}, got)
	assert.Equal(t, 2, page.Number)

	got, page = Slice(items, "7", 10)
	assert.Equal(t, []int{10, 11, 12}, got)
	assert.Equal(t, 2, page.Number)

	got, page = Slice([]int{}, "x", 10)
	assert.Empty(t, got)
	assert.Equal(t, 1, page.Number)
}
