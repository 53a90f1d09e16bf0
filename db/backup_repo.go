package db

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/portal-it/portal/domain"
)

var _ domain.BackupRepository = (*Repository)(nil)

// exportTables lists the exported tables in document order with their projections.
var exportTables = []struct {
	name  string
	query string
}{
	{"users", `SELECT id, username, password_hash, role, created_at FROM users`},
	{"switches", `SELECT id, name, ip, location, notes, credentials, created_at FROM switches`},
	{"ports", `SELECT id, switch_id, name, vlan_id, status, description, updated_at FROM ports`},
	{"vlans", `SELECT id, switch_id, vlan_number, name, purpose FROM vlans`},
	{"manuals", `SELECT id, title, path, tags FROM manuals`},
	{"formats", `SELECT id, title, path, tags FROM formats`},
	{"bookmarks", `SELECT id, label, url, section, description, tags FROM bookmarks`},
	{"tasks", `SELECT id, title, completed, created_at FROM tasks`},
}

// Export reads every exported table inside one transaction, so the document is
// a consistent snapshot. Row order within a table is unspecified.
func (repo *Repository) Export(ctx context.Context) (*domain.Backup, error) {
	backup := domain.NewBackup()

	err := repo.guard.acquireTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, table := range exportTables {
			rows, err := exportRows(ctx, tx, table.query)
			if err != nil {
				return fmt.Errorf("exporting %s: %w", table.name, err)
			}
			backup.Set(table.name, rows)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("exporting database: %w", err)
	}
	return backup, nil
}

func exportRows(ctx context.Context, tx *sqlx.Tx, query string) ([]domain.BackupRow, error) {
	rows, err := tx.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	result := make([]domain.BackupRow, 0)
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(domain.BackupRow, len(columns))
		for i, column := range columns {
			row[i] = domain.Field{Column: column, Value: exportValue(values[i])}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}

// exportValue maps a SQLite value to its document representation.
// Text with invalid UTF-8 is repaired with U+FFFD and blobs become base64.
func exportValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case int64, float64:
		return v
	case string:
		return strings.ToValidUTF8(v, "\uFFFD")
	case []byte:
		return base64.StdEncoding.EncodeToString(v)
	case bool:
		return boolToInt(v)
	case time.Time:
		return v.UTC().Format(timestampLayout)
	default:
		return fmt.Sprint(v)
	}
}

// bookmarkImport is a bookmarks row read from a backup, with defaults applied.
type bookmarkImport struct {
	Label       string         // "" when missing
	URL         string         // "" when missing
	Section     string         // domain.DefaultSection when missing
	Description sql.NullString // NULL when missing
	Tags        sql.NullString // NULL when missing
}

func bookmarkFromBackup(row domain.BackupRow) bookmarkImport {
	imported := bookmarkImport{Section: domain.DefaultSection}
	imported.Label, _ = row.String("label")
	imported.URL, _ = row.String("url")
	if section, ok := row.String("section"); ok {
		imported.Section = section
	}
	imported.Description = optionalText(row, "description")
	imported.Tags = tagsFromBackup(row)
	return imported
}

// tagsFromBackup accepts the stored comma-joined string or a list of strings.
func tagsFromBackup(row domain.BackupRow) sql.NullString {
	value, _ := row.Lookup("tags")
	switch v := value.(type) {
	case string:
		return sql.NullString{String: v, Valid: true}
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			if tag, ok := item.(string); ok {
				tags = append(tags, tag)
			}
		}
		return encodeTags(tags)
	default:
		return sql.NullString{}
	}
}

// taskImport is a tasks row read from a backup, with defaults applied.
type taskImport struct {
	Title     string // "" when missing
	Completed int64  // 0 when missing, 1 for any other integer or true
}

func taskFromBackup(row domain.BackupRow) taskImport {
	imported := taskImport{}
	imported.Title, _ = row.String("title")
	if completed, ok := row.Int("completed"); ok && completed != 0 {
		imported.Completed = 1
	} else if completed, ok := row.Bool("completed"); ok {
		imported.Completed = boolToInt(completed)
	}
	return imported
}

// switchImport is a switches row read from a backup, with defaults applied.
type switchImport struct {
	Name     string         // "" when missing
	IP       string         // "" when missing
	Location sql.NullString // NULL when missing
	Notes    sql.NullString // NULL when missing
}

func switchFromBackup(row domain.BackupRow) switchImport {
	imported := switchImport{}
	imported.Name, _ = row.String("name")
	imported.IP, _ = row.String("ip")
	imported.Location = optionalText(row, "location")
	imported.Notes = optionalText(row, "notes")
	return imported
}

func optionalText(row domain.BackupRow, column string) sql.NullString {
	if s, ok := row.String(column); ok {
		return sql.NullString{String: s, Valid: true}
	}
	return sql.NullString{}
}

// Import replaces the bookmarks, tasks and switches tables with the rows in
// the backup. A table is only touched when the backup holds it. Every delete
// and insert runs in one transaction: when any statement fails nothing changes.
// Row identities are assigned anew.
func (repo *Repository) Import(ctx context.Context, backup *domain.Backup) error {
	err := repo.guard.acquireTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		if rows, ok := backup.Table("bookmarks"); ok {
			if err := importBookmarks(ctx, tx, rows); err != nil {
				return err
			}
		}
		if rows, ok := backup.Table("tasks"); ok {
			if err := importTasks(ctx, tx, rows); err != nil {
				return err
			}
		}
		if rows, ok := backup.Table("switches"); ok {
			if err := importSwitches(ctx, tx, rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("importing database: %w", err)
	}
	return nil
}

func importBookmarks(ctx context.Context, tx *sqlx.Tx, rows []domain.BackupRow) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookmarks`); err != nil {
		return fmt.Errorf("clearing bookmarks: %w", err)
	}

	query := `INSERT INTO bookmarks (label, url, section, description, tags) VALUES (?, ?, ?, ?, ?)`
	for i, row := range rows {
		b := bookmarkFromBackup(row)
		if _, err := tx.ExecContext(ctx, query, b.Label, b.URL, b.Section, b.Description, b.Tags); err != nil {
			return fmt.Errorf("inserting bookmark %d (%q): %w", i, b.Label, err)
		}
	}
	return nil
}

func importTasks(ctx context.Context, tx *sqlx.Tx, rows []domain.BackupRow) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	query := `INSERT INTO tasks (title, completed) VALUES (?, ?)`
	for i, row := range rows {
		t := taskFromBackup(row)
		if _, err := tx.ExecContext(ctx, query, t.Title, t.Completed); err != nil {
			return fmt.Errorf("inserting task %d (%q): %w", i, t.Title, err)
		}
	}
	return nil
}

func importSwitches(ctx context.Context, tx *sqlx.Tx, rows []domain.BackupRow) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM switches`); err != nil {
		return fmt.Errorf("clearing switches: %w", err)
	}

	query := `INSERT INTO switches (name, ip, location, notes) VALUES (?, ?, ?, ?)`
	for i, row := range rows {
		s := switchFromBackup(row)
		if _, err := tx.ExecContext(ctx, query, s.Name, s.IP, s.Location, s.Notes); err != nil {
			return fmt.Errorf("inserting switch %d (%q): %w", i, s.Name, err)
		}
	}
	return nil
}
