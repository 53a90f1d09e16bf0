// Package db provides the storage layer for the portal backend.
// It encapsulates every interaction with the embedded SQLite store that holds
// tasks, bookmarks, the switch inventory and the export-only tables (users,
// ports, vlans, manuals, formats).
//
// This package is responsible for:
//   - Creating the store and applying the single initial schema (`db.go`).
//   - Serializing all access to the one connection (`guard.go`).
//   - Mapping rows to domain records through explicit column lists, including the
//     comma-joined encoding of bookmark tags.
//   - Implementing the repository interfaces from the domain package.
//   - Exporting the whole store to a backup document and replacing the bookmarks,
//     tasks and switches tables from one inside a single transaction (`backup_repo.go`).
package db
