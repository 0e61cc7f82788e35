package domain

import "math"

// SortType names an ordering a task listing can be requested in.
type SortType string

const (
	// SortAuto orders by newest first (id descending).
	SortAuto SortType = "auto"
	// SortTitle orders alphabetically by title.
	SortTitle SortType = "title"
)

// SortOption pairs a sort type with its display label.
type SortOption struct {
	Key   SortType `json:"key"`
	Label string   `json:"label"`
}

// SortOptions lists the supported sort types in display order.
func SortOptions() []SortOption {
	return []SortOption{
		{Key: SortAuto, Label: "Auto"},
		{Key: SortTitle, Label: "Title"},
	}
}

// ParseSortType converts raw input into a SortType. Empty input yields
// SortAuto; unknown input yields SortAuto and ErrUnsupportedSortType.
func ParseSortType(raw string) (SortType, error) {
	switch SortType(raw) {
	case "", SortAuto:
		return SortAuto, nil
	case SortTitle:
		return SortTitle, nil
	default:
		return SortAuto, ErrUnsupportedSortType
	}
}

// PageRequest describes a 1-based window over a sorted result.
type PageRequest struct {
	Number int
	Size   int
	Sort   SortType
}

// Offset returns the number of rows preceding the requested page.
// It saturates at math.MaxInt instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Number < 1 || p.Size <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

// Page is an immutable window over a filtered, sorted result set.
type Page[T any] struct {
	Items  []T      `json:"items"`
	Number int      `json:"number"`
	Size   int      `json:"size"`
	Total  int64    `json:"total"`
	Sort   SortType `json:"sort"`
}

// NewPage builds a page for items returned by req, with total matching rows.
func NewPage[T any](items []T, req PageRequest, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:  items,
		Number: req.Number,
		Size:   req.Size,
		Total:  total,
		Sort:   req.Sort,
	}
}

// TotalPages returns the number of pages needed for Total items.
func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

// HasPrevious reports whether a page precedes this one.
func (p *Page[T]) HasPrevious() bool {
	return p.Number > 1
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Number < p.TotalPages()
}
