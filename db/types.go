package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// timestampLayout is the format SQLite's CURRENT_TIMESTAMP produces.
const timestampLayout = "2006-01-02 15:04:05"

// timestampLayouts are the text forms accepted when reading a timestamp column.
// The fractional layouts also match values without fractional seconds.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02",
}

// sqliteTime scans a timestamp column into UTC. Stores written by older
// versions hold the value as text in several layouts, or as a time the driver
// already parsed from a DATETIME column. Unrecognized text scans as the zero time.
type sqliteTime struct {
	time.Time
}

// Scan implements sql.Scanner.
func (t *sqliteTime) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		t.Time = time.Time{}
	case time.Time:
		t.Time = v.UTC()
	case string:
		t.Time = parseTimestamp(v)
	case []byte:
		t.Time = parseTimestamp(string(v))
	case int64:
		t.Time = time.Unix(v, 0).UTC()
	default:
		return fmt.Errorf("scanning timestamp: unsupported type %T", value)
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// nullString converts an optional domain value to its column value.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr converts a nullable column back to an optional domain value.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
