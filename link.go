package newsdigest

import (
	"context"
	"time"
)

// Link is an article URL saved under a category together with its last
// summary.
type Link struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	ContentHash string    `json:"contentHash"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate returns an error if the link contains invalid fields.
func (l *Link) Validate() error {
	if l.URL == "" {
		return Errorf(EINVALID, "link URL required")
	}
	if l.Category == "" {
		return Errorf(EINVALID, "link category required")
	}
	return nil
}

// Failed reports whether the stored summary is a placeholder.
func (l *Link) Failed() bool {
	return IsPlaceholder(SummaryResult{Title: l.Title, Summary: l.Summary})
}

// LinkService represents a service for managing saved links.
type LinkService interface {
	// CreateLink saves a new link.
	CreateLink(ctx context.Context, link *Link) error

	// FindLinkByID retrieves a link by ID.
	// Returns ENOTFOUND if the link does not exist.
	FindLinkByID(ctx context.Context, id string) (*Link, error)

	// FindLinks retrieves links matching the filter.
	FindLinks(ctx context.Context, filter LinkFilter) ([]*Link, error)

	// UpdateLink updates an existing link.
	// Returns ENOTFOUND if the link does not exist.
	UpdateLink(ctx context.Context, id string, upd LinkUpdate) (*Link, error)

	// DeleteLink permanently removes a link.
	// Returns ENOTFOUND if the link does not exist.
	DeleteLink(ctx context.Context, id string) error
}

// LinkFilter represents a filter for FindLinks.
type LinkFilter struct {
	ID       *string `json:"id"`
	Category *string `json:"category"`
	URL      *string `json:"url"`

	// FailedOnly restricts results to links holding a placeholder summary.
	FailedOnly bool `json:"failedOnly"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// LinkUpdate represents fields that can be updated on a link.
type LinkUpdate struct {
	Title       *string `json:"title"`
	Summary     *string `json:"summary"`
	ContentHash *string `json:"contentHash"`
}
