package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/portal-it/portal/domain"
)

var _ domain.BookmarkRepository = (*Repository)(nil)

// dbBookmark represents a bookmark as stored in the database.
type dbBookmark struct {
	ID          int64          `db:"id"`
	Label       string         `db:"label"`
	URL         string         `db:"url"`
	Section     sql.NullString `db:"section"`
	Description sql.NullString `db:"description"`
	Tags        sql.NullString `db:"tags"` // Comma-joined, NULL when the bookmark has no tag list.
}

// toDomainBookmark converts a dbBookmark to a domain.Bookmark.
func toDomainBookmark(dbBookmark *dbBookmark) *domain.Bookmark {
	return &domain.Bookmark{
		ID:          dbBookmark.ID,
		Label:       dbBookmark.Label,
		URL:         dbBookmark.URL,
		Section:     sectionOrDefault(dbBookmark.Section.String),
		Description: stringPtr(dbBookmark.Description),
		Tags:        decodeTags(dbBookmark.Tags),
	}
}

// encodeTags joins a tag list into its column value. A nil list is stored as NULL.
func encodeTags(tags []string) sql.NullString {
	if tags == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(tags, ","), Valid: true}
}

// decodeTags splits a stored tag string on commas, trimming each piece and
// dropping empty ones. NULL decodes to a nil list, any other value to a non-nil one.
func decodeTags(stored sql.NullString) []string {
	if !stored.Valid {
		return nil
	}

	tags := make([]string, 0)
	for _, piece := range strings.Split(stored.String, ",") {
		if tag := strings.TrimSpace(piece); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func sectionOrDefault(section string) string {
	if section == "" {
		return domain.DefaultSection
	}
	return section
}

// ListBookmarks retrieves all bookmarks ordered by section, then label.
func (repo *Repository) ListBookmarks(ctx context.Context) ([]*domain.Bookmark, error) {
	var dbBookmarks []*dbBookmark
	query := `SELECT id, label, url, section, description, tags FROM bookmarks ORDER BY section, label`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		return conn.SelectContext(ctx, &dbBookmarks, query)
	})
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}

	bookmarks := make([]*domain.Bookmark, len(dbBookmarks))
	for i, dbBookmark := range dbBookmarks {
		bookmarks[i] = toDomainBookmark(dbBookmark)
	}
	return bookmarks, nil
}

// GetBookmarkSections groups the current bookmarks into sections.
func (repo *Repository) GetBookmarkSections(ctx context.Context) ([]*domain.BookmarkSection, error) {
	bookmarks, err := repo.ListBookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting bookmark sections: %w", err)
	}
	return domain.GroupBookmarks(bookmarks), nil
}

// CreateBookmark inserts a new bookmark and returns its ID.
func (repo *Repository) CreateBookmark(ctx context.Context, bookmark *domain.Bookmark) (int64, error) {
	query := `INSERT INTO bookmarks (label, url, section, description, tags) VALUES (?, ?, ?, ?, ?)`

	var id int64
	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		result, err := conn.ExecContext(ctx, query,
			bookmark.Label,
			bookmark.URL,
			sectionOrDefault(bookmark.Section),
			nullString(bookmark.Description),
			encodeTags(bookmark.Tags),
		)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("creating bookmark %q: %w", bookmark.Label, err)
	}
	return id, nil
}

// DeleteBookmark removes a bookmark by ID.
func (repo *Repository) DeleteBookmark(ctx context.Context, id int64) error {
	query := `DELETE FROM bookmarks WHERE id = ?`

	err := repo.guard.acquire(ctx, func(ctx context.Context, conn *sqlx.DB) error {
		_, err := conn.ExecContext(ctx, query, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("deleting bookmark %d: %w", id, err)
	}
	return nil
}
