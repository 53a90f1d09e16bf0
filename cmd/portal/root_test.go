package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/portal-it/portal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against configDir and returns what it printed.
func run(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config-dir", configDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestTasksCommands(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "tasks", "add", "Replace UPS battery")
	require.NoError(t, err)

	out, err := run(t, dir, "tasks", "list", "--json")
	require.NoError(t, err)
	var tasks []*domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Replace UPS battery", tasks[0].Title)
	assert.False(t, tasks[0].Completed)

	id := tasks[0].ID
	_, err = run(t, dir, "tasks", "toggle", strconv.FormatInt(id, 10))
	require.NoError(t, err)

	out, err = run(t, dir, "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Replace UPS battery")
	assert.Contains(t, out, "DONE")

	_, err = run(t, dir, "tasks", "delete", strconv.FormatInt(id, 10))
	require.NoError(t, err)

	out, err = run(t, dir, "tasks", "list", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	_, err = run(t, dir, "tasks", "delete", "abc")
	assert.ErrorContains(t, err, "invalid id")
}

func TestBookmarksCommands(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "bookmarks", "add", "NMS", "https://nms.example", "--section", "Network", "--tag", "monitoring,snmp")
	require.NoError(t, err)
	_, err = run(t, dir, "bookmarks", "add", "Wiki", "https://wiki.example")
	require.NoError(t, err)

	out, err := run(t, dir, "bookmarks", "sections", "--json")
	require.NoError(t, err)
	var sections []*domain.BookmarkSection
	require.NoError(t, json.Unmarshal([]byte(out), &sections))
	require.Len(t, sections, 2)
	assert.Equal(t, domain.DefaultSection, sections[0].Title)
	assert.Equal(t, "Network", sections[1].Title)
	assert.Equal(t, []string{"monitoring", "snmp"}, sections[1].Links[0].Tags)

	out, err = run(t, dir, "bookmarks", "sections")
	require.NoError(t, err)
	assert.Contains(t, out, "(monitoring, snmp)")
}

func TestSwitchesCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "switches", "save", "core-1", "10.0.0.1", "--location", "Rack A")
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	_, err = run(t, dir, "switches", "save", "core-1", "10.0.0.2", "--id", id)
	require.NoError(t, err)

	out, err = run(t, dir, "switches", "list", "--json")
	require.NoError(t, err)
	var switches []*domain.Switch
	require.NoError(t, json.Unmarshal([]byte(out), &switches))
	require.Len(t, switches, 1)
	assert.Equal(t, "10.0.0.2", switches[0].IP)

	_, err = run(t, dir, "switches", "save", "core-1", "10.0.0.3")
	assert.Error(t, err)
}

func TestBackupCommands(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	backup := filepath.Join(t.TempDir(), "portal-backup.json.br")

	_, err := run(t, source, "tasks", "add", "Rotate SNMP community")
	require.NoError(t, err)
	_, err = run(t, source, "export", backup)
	require.NoError(t, err)

	_, err = run(t, target, "tasks", "add", "Local only")
	require.NoError(t, err)
	_, err = run(t, target, "import", backup)
	require.NoError(t, err)

	out, err := run(t, target, "tasks", "list", "--json")
	require.NoError(t, err)
	var tasks []*domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "Rotate SNMP community", tasks[0].Title)

	_, err = run(t, target, "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestCommandsWithoutStore(t *testing.T) {
	for _, args := range [][]string{
		{"completion", "bash"},
		{"help", "tasks"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			configDir := filepath.Join(t.TempDir(), "untouched")

			out, err := run(t, configDir, args...)
			require.NoError(t, err)
			assert.NotEmpty(t, out)
			assert.NoDirExists(t, configDir)
		})
	}
}
