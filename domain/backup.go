package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBackupNotObject is returned when a backup document is not a JSON object.
var ErrBackupNotObject = errors.New("backup document must be a JSON object")

// BackupRepository defines the whole-database export and import operations.
type BackupRepository interface {
	// Export takes a consistent snapshot of every exported table.
	Export(ctx context.Context) (*Backup, error)

	// Import replaces the bookmarks, tasks and switches tables with the rows
	// found in the backup. Tables missing from the backup are left untouched.
	// Either every table is replaced or nothing changes.
	Import(ctx context.Context, backup *Backup) error
}

// Field is a single column value of a backup row.
type Field struct {
	Column string
	Value  any
}

// BackupRow is one table row as an ordered list of columns.
// Values are nil, int64, float64 or string when exported; rows parsed from a
// file carry whatever JSON held, with numbers as json.Number.
type BackupRow []Field

// Lookup returns the value of a column. When a column appears more than once
// the last occurrence wins.
func (r BackupRow) Lookup(column string) (any, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Column == column {
			return r[i].Value, true
		}
	}
	return nil, false
}

// String returns the column value when it holds a string.
func (r BackupRow) String(column string) (string, bool) {
	value, _ := r.Lookup(column)
	s, ok := value.(string)
	return s, ok
}

// Int returns the column value when it holds an integer.
func (r BackupRow) Int(column string) (int64, bool) {
	value, _ := r.Lookup(column)
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		i, err := v.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}

// Bool returns the column value when it holds a boolean.
func (r BackupRow) Bool(column string) (bool, bool) {
	value, _ := r.Lookup(column)
	b, ok := value.(bool)
	return b, ok
}

// MarshalJSON writes the row as an object, keeping column order.
func (r BackupRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field.Column)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, fmt.Errorf("marshalling column %s: %w", field.Column, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object into the row, keeping column order.
// Anything other than an object leaves the row empty.
func (r *BackupRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		*r = nil
		return nil
	}

	row := BackupRow{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		row = append(row, Field{Column: keyTok.(string), Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*r = row
	return nil
}

// Backup is the document produced by export and consumed by import.
// Top-level keys are table names, values are the table rows.
type Backup struct {
	tables []string
	rows   map[string][]BackupRow
}

// NewBackup returns an empty backup document.
func NewBackup() *Backup {
	return &Backup{rows: make(map[string][]BackupRow)}
}

// ParseBackup decodes a backup document. Keys whose value is not an array are skipped.
func ParseBackup(data []byte) (*Backup, error) {
	backup := NewBackup()
	if err := json.Unmarshal(data, backup); err != nil {
		return nil, err
	}
	return backup, nil
}

// Set stores the rows of a table. Replacing a table keeps its position.
func (b *Backup) Set(table string, rows []BackupRow) {
	if b.rows == nil {
		b.rows = make(map[string][]BackupRow)
	}
	if _, ok := b.rows[table]; !ok {
		b.tables = append(b.tables, table)
	}
	if rows == nil {
		rows = make([]BackupRow, 0)
	}
	b.rows[table] = rows
}

// Table returns the rows of a table and whether the document holds it.
func (b *Backup) Table(table string) ([]BackupRow, bool) {
	rows, ok := b.rows[table]
	return rows, ok
}

// Tables returns the table names in document order.
func (b *Backup) Tables() []string {
	return append([]string(nil), b.tables...)
}

// MarshalJSON writes the document, keeping table order.
func (b *Backup) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, table := range b.tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(table)
		if err != nil {
			return nil, err
		}
		rows, err := json.Marshal(b.rows[table])
		if err != nil {
			return nil, fmt.Errorf("marshalling table %s: %w", table, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(rows)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a document. Keys holding anything but an array are ignored.
func (b *Backup) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrBackupNotObject
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
			continue
		}
		var rows []BackupRow
		if err := json.Unmarshal(raw, &rows); err != nil {
			return fmt.Errorf("decoding table %s: %w", keyTok, err)
		}
		b.Set(keyTok.(string), rows)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
