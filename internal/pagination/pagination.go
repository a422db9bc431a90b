// Package pagination slices ordered listings into fixed-size pages.
//
// Requested page numbers come straight from the query string. Anything that
// is not a positive integer selects the first page and anything past the end
// selects the last page, so a listing always renders.
package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is used when a non-positive size is supplied.
const DefaultPageSize = 10

// Page is the metadata for one page of a listing.
type Page struct {
	Number     int   `json:"page"`
	Size       int   `json:"page_size"`
	TotalCount int64 `json:"count"`
	TotalPages int   `json:"total_pages"`
}

// ParseNumber turns raw request input into a page number candidate.
// Non-integer input yields 1. Integers too large for int yield math.MaxInt
// so that New clamps them to the last page.
func ParseNumber(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return math.MaxInt
		}
		return 1
	}
	return n
}

// New clamps the requested page number against total records. An empty
// listing has exactly one page.
func New(requested int, size int, total int64) Page {
	if size < 1 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}

	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > pages {
		number = pages
	}

	return Page{Number: number, Size: size, TotalCount: total, TotalPages: pages}
}

// FromQuery is New over raw request input.
func FromQuery(raw string, size int, total int64) Page {
	return New(ParseNumber(raw), size, total)
}

// Offset is the index of the first record on the page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit is the maximum number of records on the page.
func (p Page) Limit() int {
	return p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

func (p Page) HasOtherPages() bool {
	return p.TotalPages > 1
}

// NextNumber returns the following page number, or 0 on the last page.
func (p Page) NextNumber() int {
	if !p.HasNext() {
		return 0
	}
	return p.Number + 1
}

// PreviousNumber returns the preceding page number, or 0 on the first page.
func (p Page) PreviousNumber() int {
	if !p.HasPrevious() {
		return 0
	}
	return p.Number - 1
}

// StartIndex is the 1-based position of the first record on the page,
// or 0 for an empty listing.
func (p Page) StartIndex() int64 {
	if p.TotalCount == 0 {
		return 0
	}
	return int64(p.Offset()) + 1
}

// EndIndex is the 1-based position of the last record on the page.
func (p Page) EndIndex() int64 {
	end := int64(p.Offset() + p.Size)
	if end > p.TotalCount {
		end = p.TotalCount
	}
	return end
}

// Numbers lists every page number, for rendering a paginator.
func (p Page) Numbers() []int {
	nums := make([]int, p.TotalPages)
	for i := range nums {
		nums[i] = i + 1
	}
	return nums
}

// Slice returns the records of an in-memory ordered sequence that fall on
// the requested page, together with the page metadata.
func Slice[T any](items []T, raw string, size int) ([]T, Page) {
	page := FromQuery(raw, size, int64(len(items)))
	start := page.Offset()
	if start > len(items) {
		start = len(items)
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page
}
