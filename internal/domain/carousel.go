package domain

import (
	"strings"
	"time"
)

// CarouselItem is a home-page banner. It has its own id space, allocated
// with the same discipline as products but never overlapping them.
type CarouselItem struct {
	ID       int64
	ImageRef string
	Title    string
	Caption  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CarouselParams carries the caller-supplied fields for a carousel item.
type CarouselParams struct {
	ImageRef string
	Title    string
	Caption  string
}

// Validate enforces the required fields.
func (p CarouselParams) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return Invalid("carousel.validate", "title is required")
	}
	if strings.TrimSpace(p.Caption) == "" {
		return Invalid("carousel.validate", "caption is required")
	}
	return nil
}
