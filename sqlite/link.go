package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hktitof/newsdigest"
)

// Compile-time interface verification.
var _ newsdigest.LinkService = (*LinkService)(nil)

const linkColumns = "id, category, url, title, summary, content_hash, created_at, updated_at"

// LinkService implements newsdigest.LinkService using SQLite.
type LinkService struct {
	db *DB
}

// NewLinkService creates a new LinkService.
func NewLinkService(db *DB) *LinkService {
	return &LinkService{db: db}
}

// CreateLink saves a new link. Saving the same URL twice under one
// category returns EINVALID.
func (s *LinkService) CreateLink(ctx context.Context, link *newsdigest.Link) error {
	if err := link.Validate(); err != nil {
		return err
	}

	link.ID = uuid.New().String()
	now := time.Now().UTC()
	link.CreatedAt = now
	link.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO links (id, category, url, title, summary, content_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, link.ID, link.Category, link.URL, link.Title, link.Summary, link.ContentHash,
		link.CreatedAt.Format(time.RFC3339), link.UpdatedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return newsdigest.Errorf(newsdigest.EINVALID, "link already saved in category %q", link.Category)
	}
	return err
}

// FindLinkByID retrieves a link by ID.
func (s *LinkService) FindLinkByID(ctx context.Context, id string) (*newsdigest.Link, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+linkColumns+" FROM links WHERE id = ?", id)
	link, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, newsdigest.Errorf(newsdigest.ENOTFOUND, "link not found")
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// FindLinks retrieves links matching the filter in insertion order.
func (s *LinkService) FindLinks(ctx context.Context, filter newsdigest.LinkFilter) ([]*newsdigest.Link, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + linkColumns + " FROM links WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.FailedOnly {
		appendFailedClause(&query, &args)
	}

	query.WriteString(" ORDER BY rowid")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*newsdigest.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// UpdateLink updates an existing link.
func (s *LinkService) UpdateLink(ctx context.Context, id string, upd newsdigest.LinkUpdate) (*newsdigest.Link, error) {
	link, err := s.FindLinkByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		link.Title = *upd.Title
	}
	if upd.Summary != nil {
		link.Summary = *upd.Summary
	}
	if upd.ContentHash != nil {
		link.ContentHash = *upd.ContentHash
	}

	link.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE links
		SET title = ?, summary = ?, content_hash = ?, updated_at = ?
		WHERE id = ?
	`, link.Title, link.Summary, link.ContentHash, link.UpdatedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	return link, nil
}

// DeleteLink permanently removes a link.
func (s *LinkService) DeleteLink(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM links WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return newsdigest.Errorf(newsdigest.ENOTFOUND, "link not found")
	}

	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
