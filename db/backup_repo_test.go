package db

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/portal-it/portal/domain"
)

func parseTestBackup(t *testing.T, document string) *domain.Backup {
	t.Helper()

	backup, err := domain.ParseBackup([]byte(document))
	if err != nil {
		t.Fatalf("parsing backup: %v", err)
	}
	return backup
}

// snapshot captures the three importable tables for before/after comparisons.
type snapshot struct {
	tasks     []*domain.Task
	bookmarks []*domain.Bookmark
	switches  []*domain.Switch
}

func takeSnapshot(t *testing.T, repo *Repository) snapshot {
	t.Helper()
	ctx := context.Background()

	tasks, err := repo.ListTasks(ctx)
	if err != nil {
		t.Fatalf("listing tasks: %v", err)
	}
	bookmarks, err := repo.ListBookmarks(ctx)
	if err != nil {
		t.Fatalf("listing bookmarks: %v", err)
	}
	switches, err := repo.ListSwitches(ctx)
	if err != nil {
		t.Fatalf("listing switches: %v", err)
	}
	return snapshot{tasks: tasks, bookmarks: bookmarks, switches: switches}
}

func TestBackupRepo_Export(t *testing.T) {
	t.Run("should export every table in a fixed order", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		backup, err := repo.Export(context.Background())
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := []string{"users", "switches", "ports", "vlans", "manuals", "formats", "bookmarks", "tasks"}
		if got := backup.Tables(); !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got)
		}

		data, err := json.Marshal(backup)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		wantJSON := `{"users":[],"switches":[],"ports":[],"vlans":[],"manuals":[],"formats":[],"bookmarks":[],"tasks":[]}`
		if string(data) != wantJSON {
			t.Fatalf("\nwanted:\n%s\ngot:\n%s", wantJSON, data)
		}
	})

	t.Run("should project the fixed columns in select order", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		ctx := context.Background()

		testSwitch(t, repo, "core-01")
		repo.CreateTask(ctx, "X")

		backup, err := repo.Export(ctx)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		switches, _ := backup.Table("switches")
		if len(switches) != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", len(switches))
		}
		var columns []string
		for _, field := range switches[0] {
			columns = append(columns, field.Column)
		}
		wantColumns := []string{"id", "name", "ip", "location", "notes", "credentials", "created_at"}
		if !reflect.DeepEqual(wantColumns, columns) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", wantColumns, columns)
		}
		if location, _ := switches[0].Lookup("location"); location != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", location)
		}

		tasks, _ := backup.Table("tasks")
		if completed, ok := tasks[0].Int("completed"); !ok || completed != 0 {
			t.Fatalf("\nwanted:\n0\ngot:\n%d (ok=%v)", completed, ok)
		}
	})

	t.Run("should map storage types to document values", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()

		err := repo.guard.acquire(context.Background(), func(ctx context.Context, conn *sqlx.DB) error {
			_, err := conn.ExecContext(ctx,
				`INSERT INTO users (username, password_hash, role) VALUES (?, ?, ?)`,
				"admin", []byte{0xde, 0xad, 0xbe, 0xef}, "admin")
			if err != nil {
				return err
			}
			_, err = conn.ExecContext(ctx,
				`INSERT INTO manuals (title, path) VALUES (?, ?)`,
				"Stacking guide", "/manuals/a.pdf")
			if err != nil {
				return err
			}
			_, err = conn.ExecContext(ctx,
				`INSERT INTO ports (switch_id, name, vlan_id) VALUES (?, ?, ?)`,
				1, "ge-0/0/1", 1.5)
			return err
		})
		if err != nil {
			t.Fatalf("seeding: %v", err)
		}

		backup, err := repo.Export(context.Background())
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		users, _ := backup.Table("users")
		hash, _ := users[0].Lookup("password_hash")
		if want := base64.StdEncoding.EncodeToString([]byte{0xde, 0xad, 0xbe, 0xef}); hash != want {
			t.Fatalf("\nwanted:\n%q\ngot:\n%v", want, hash)
		}
		if id, _ := users[0].Lookup("id"); id != int64(1) {
			t.Fatalf("\nwanted:\n1\ngot:\n%#v", id)
		}

		manuals, _ := backup.Table("manuals")
		if title, _ := manuals[0].Lookup("title"); title != "Stacking guide" {
			t.Fatalf("\nwanted:\n%q\ngot:\n%q", "Stacking guide", title)
		}
		if tags, _ := manuals[0].Lookup("tags"); tags != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%#v", tags)
		}

		ports, _ := backup.Table("ports")
		if vlan, _ := ports[0].Lookup("vlan_id"); vlan != 1.5 {
			t.Fatalf("\nwanted:\n1.5\ngot:\n%#v", vlan)
		}
	})
}

func TestExportValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"null", nil, nil},
		{"integer", int64(42), int64(42)},
		{"real", 2.5, 2.5},
		{"text", "plain", "plain"},
		{"invalid utf-8 text", "bad \xff byte", "bad \uFFFD byte"},
		{"blob", []byte("hi"), "aGk="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exportValue(tt.value); got != tt.want {
				t.Fatalf("\nwanted:\n%#v\ngot:\n%#v", tt.want, got)
			}
		})
	}
}

func TestBackupRepo_Import(t *testing.T) {
	t.Run("should replace only the tables present in the document", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		ctx := context.Background()

		repo.CreateTask(ctx, "old one")
		repo.CreateTask(ctx, "old two")
		testBookmark(t, repo, "wiki", "Docs", nil)
		testSwitch(t, repo, "core-01")
		before := takeSnapshot(t, repo)

		err := repo.Import(ctx, parseTestBackup(t, `{"tasks":[{"title":"X","completed":1}]}`))
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		after := takeSnapshot(t, repo)
		if len(after.tasks) != 1 || after.tasks[0].Title != "X" || !after.tasks[0].Completed {
			t.Fatalf("\nwanted:\n[X completed]\ngot:\n%+v", after.tasks)
		}
		if !reflect.DeepEqual(before.bookmarks, after.bookmarks) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", before.bookmarks, after.bookmarks)
		}
		if !reflect.DeepEqual(before.switches, after.switches) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", before.switches, after.switches)
		}
	})

	t.Run("should empty a table given an empty array", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		ctx := context.Background()

		testSwitch(t, repo, "core-01")

		if err := repo.Import(ctx, parseTestBackup(t, `{"switches":[]}`)); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, _ := repo.ListSwitches(ctx)
		if len(got) != 0 {
			t.Fatalf("\nwanted:\n0\ngot:\n%d", len(got))
		}
	})

	t.Run("should apply defaults for missing or invalid fields", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		ctx := context.Background()

		document := `{
			"bookmarks": [{"label": 5, "url": "https://x.example", "description": null, "unknown": true}],
			"tasks": [{"completed": "yes"}, "not an object"],
			"switches": [{"ip": "10.0.0.1", "location": 12}]
		}`
		if err := repo.Import(ctx, parseTestBackup(t, document)); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got := takeSnapshot(t, repo)

		if len(got.bookmarks) != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", len(got.bookmarks))
		}
		b := got.bookmarks[0]
		if b.Label != "" || b.URL != "https://x.example" || b.Section != domain.DefaultSection || b.Description != nil || b.Tags != nil {
			t.Fatalf("\nwanted:\ndefaulted bookmark\ngot:\n%+v", b)
		}

		if len(got.tasks) != 2 {
			t.Fatalf("\nwanted:\n2\ngot:\n%d", len(got.tasks))
		}
		for _, task := range got.tasks {
			if task.Title != "" || task.Completed {
				t.Fatalf("\nwanted:\ndefaulted task\ngot:\n%+v", task)
			}
		}

		if len(got.switches) != 1 {
			t.Fatalf("\nwanted:\n1\ngot:\n%d", len(got.switches))
		}
		s := got.switches[0]
		if s.Name != "" || s.IP != "10.0.0.1" || s.Location != nil || s.Notes != nil {
			t.Fatalf("\nwanted:\ndefaulted switch\ngot:\n%+v", s)
		}
	})

	t.Run("should accept tag lists and boolean completion", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		ctx := context.Background()

		document := `{
			"bookmarks": [{"label": "a", "url": "u", "tags": ["net", 3, "infra"]}],
			"tasks": [{"title": "t", "completed": true}, {"title": "u", "completed": 7}]
		}`
		if err := repo.Import(ctx, parseTestBackup(t, document)); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got := takeSnapshot(t, repo)
		if want := []string{"net", "infra"}; !reflect.DeepEqual(want, got.bookmarks[0].Tags) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", want, got.bookmarks[0].Tags)
		}
		for _, task := range got.tasks {
			if !task.Completed {
				t.Fatalf("\nwanted:\ncompleted\ngot:\n%+v", task)
			}
		}
	})

	t.Run("should roll back every table when one insert fails", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		ctx := context.Background()

		repo.CreateTask(ctx, "keep me")
		testBookmark(t, repo, "wiki", "Docs", []string{"docs"})
		testSwitch(t, repo, "core-01")
		before := takeSnapshot(t, repo)

		document := `{
			"bookmarks": [{"label": "new", "url": "https://new.example"}],
			"tasks": [{"title": "new task"}],
			"switches": [{"name": "dup", "ip": "10.0.0.1"}, {"name": "dup", "ip": "10.0.0.2"}]
		}`
		err := repo.Import(ctx, parseTestBackup(t, document))
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}

		after := takeSnapshot(t, repo)
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", before, after)
		}
	})

	t.Run("should restore bookmarks from an export", func(t *testing.T) {
		repo, teardown := setupTestDB(t)
		defer teardown()
		ctx := context.Background()

		repo.CreateBookmark(ctx, &domain.Bookmark{
			Label: "Grafana", URL: "https://grafana.example", Section: "Monitoring",
			Description: ptr("Dashboards"), Tags: []string{"net", "infra"},
		})
		repo.CreateBookmark(ctx, &domain.Bookmark{Label: "Wiki", URL: "https://wiki.example"})
		repo.CreateBookmark(ctx, &domain.Bookmark{Label: "Empty", URL: "https://e.example", Section: "Ops", Tags: []string{}})
		before, _ := repo.ListBookmarks(ctx)

		exported, err := repo.Export(ctx)
		if err != nil {
			t.Fatalf("exporting: %v", err)
		}
		data, err := json.MarshalIndent(exported, "", "  ")
		if err != nil {
			t.Fatalf("marshalling: %v", err)
		}

		for _, b := range before {
			repo.DeleteBookmark(ctx, b.ID)
		}

		if err := repo.Import(ctx, parseTestBackup(t, string(data))); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		after, _ := repo.ListBookmarks(ctx)
		if len(after) != len(before) {
			t.Fatalf("\nwanted:\n%d\ngot:\n%d", len(before), len(after))
		}
		for i := range before {
			before[i].ID, after[i].ID = 0, 0
		}
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", before, after)
		}
	})
}
