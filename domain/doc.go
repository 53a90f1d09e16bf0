// Package domain defines the records persisted by the portal backend and the
// repository contracts the storage layer implements.
//
// It contains the entity types served to the desktop front end (Task, Bookmark,
// BookmarkSection, Switch), the Backup document exchanged by export and import,
// and the repository interfaces that keep callers independent of the embedded
// SQLite store living in the db package.
package domain
