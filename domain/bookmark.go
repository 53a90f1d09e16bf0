package domain

import "context"

// DefaultSection is the section a bookmark lands in when none is given.
const DefaultSection = "General"

// BookmarkRepository defines the interface for managing dashboard bookmarks.
type BookmarkRepository interface {
	// ListBookmarks returns every bookmark ordered by section, then label.
	ListBookmarks(ctx context.Context) ([]*Bookmark, error)

	// GetBookmarkSections returns the bookmarks grouped by section.
	// The grouping is computed from the current rows on every call.
	GetBookmarkSections(ctx context.Context) ([]*BookmarkSection, error)

	// CreateBookmark stores a new bookmark and returns its identity.
	// The ID of the given bookmark is ignored.
	CreateBookmark(ctx context.Context, bookmark *Bookmark) (int64, error)

	// DeleteBookmark removes a bookmark. Deleting an unknown bookmark is not an error.
	DeleteBookmark(ctx context.Context, id int64) error
}

// Bookmark is a labelled link shown on the dashboard.
type Bookmark struct {
	ID          int64    `json:"id"`
	Label       string   `json:"label"`
	URL         string   `json:"url"`
	Section     string   `json:"section"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"` // Nil when the bookmark has no tag list at all.
}

// BookmarkSection groups the bookmarks sharing a section label.
// It is never stored; ID and Title both hold the label.
type BookmarkSection struct {
	ID    string      `json:"id"`
	Title string      `json:"title"`
	Links []*Bookmark `json:"links"`
}

// GroupBookmarks folds bookmarks into sections in first-seen order.
// Input sorted by section yields alphabetical sections, each keeping the
// input order of its links.
func GroupBookmarks(bookmarks []*Bookmark) []*BookmarkSection {
	sections := make([]*BookmarkSection, 0)
	index := make(map[string]*BookmarkSection)

	for _, bookmark := range bookmarks {
		section, ok := index[bookmark.Section]
		if !ok {
			section = &BookmarkSection{
				ID:    bookmark.Section,
				Title: bookmark.Section,
				Links: make([]*Bookmark, 0),
			}
			index[bookmark.Section] = section
			sections = append(sections, section)
		}
		section.Links = append(section.Links, bookmark)
	}

	return sections
}
