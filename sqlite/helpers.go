package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/hktitof/newsdigest"
)

type scanner interface {
	Scan(dest ...any) error
}

// scanLink reads one row selected with linkColumns.
func scanLink(row scanner) (*newsdigest.Link, error) {
	var link newsdigest.Link
	var createdAt, updatedAt string

	if err := row.Scan(&link.ID, &link.Category, &link.URL, &link.Title, &link.Summary,
		&link.ContentHash, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if link.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if link.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &link, nil
}

// parseTimestamp parses a stored RFC3339 column value.
func parseTimestamp(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", column, value, err)
	}
	return t, nil
}

// appendFailedClause matches the same rows as newsdigest.IsPlaceholder:
// exact placeholder titles, or summaries embedding a placeholder summary.
func appendFailedClause(query *strings.Builder, args *[]any) {
	query.WriteString(" AND (")
	for i, p := range newsdigest.Placeholders {
		if i > 0 {
			query.WriteString(" OR ")
		}
		query.WriteString("trim(title) = ? OR instr(summary, ?) > 0")
		*args = append(*args, p.Title, p.Summary)
	}
	query.WriteString(")")
}

// appendPagination adds LIMIT/OFFSET for positive values. SQLite needs a
// LIMIT before an OFFSET, so a bare offset gets LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
