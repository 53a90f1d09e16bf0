// Package portal is the backend of the IT portal desktop application. It keeps
// tasks, bookmarks and the network switch inventory in an embedded SQLite
// store and exposes them as commands to the front end.
//
// The core functionality includes:
//   - Task list, dashboard bookmarks grouped by section and switch inventory
//   - Whole-database JSON backup and transactional restore
//   - Serialized access to the single store connection
//
// The front end, its command dispatch and its file dialogs are external: they
// call the App methods and render the results.
package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/portal-it/portal/domain"
)

// Repository defines the storage operations consumed by the App.
type Repository interface {
	domain.TaskRepository
	domain.BookmarkRepository
	domain.SwitchRepository
	domain.BackupRepository
	Close() error
}

// App serves the commands of the desktop front end.
// Every command returns a typed result or an error whose message is shown to the user.
type App struct {
	ConfigDir string       // The configuration directory
	Config    *Config      // Loaded configuration, nil when WithConfigDir was not used
	Repo      Repository   // Storage backend
	Dialog    Dialog       // File picker for backup commands
	Logger    *slog.Logger // Structured logger
}

// New creates an App with a default logger and applies the given options.
//
// Parameters:
//   - options: Configuration functions such as WithConfigDir, WithDatabase or WithLogger
//
// Returns:
//   - *App: The configured app
//   - error: First error returned by an option
func New(options ...func(*App) error) (*App, error) {
	app := &App{
		Logger: slog.Default(),
	}
	err := app.WithOptions(options...)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Close releases the store.
func (app *App) Close() error {
	if app.Repo == nil {
		return nil
	}
	return app.Repo.Close()
}

// fail logs a failed command and returns the caller-visible error.
func (app *App) fail(command string, err error) error {
	app.Logger.Error("command failed", "command", command, "error", err)
	return fmt.Errorf("%s: %w", command, err)
}

// ListTasks returns every task, newest first.
func (app *App) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := app.Repo.ListTasks(ctx)
	if err != nil {
		return nil, app.fail("list_tasks", err)
	}
	return tasks, nil
}

// CreateTask adds an open task.
func (app *App) CreateTask(ctx context.Context, title string) error {
	if err := app.Repo.CreateTask(ctx, title); err != nil {
		return app.fail("create_task", err)
	}
	return nil
}

// ToggleTask marks a task completed or open.
func (app *App) ToggleTask(ctx context.Context, id int64, completed bool) error {
	if err := app.Repo.ToggleTask(ctx, id, completed); err != nil {
		return app.fail("toggle_task", err)
	}
	return nil
}

// DeleteTask removes a task.
func (app *App) DeleteTask(ctx context.Context, id int64) error {
	if err := app.Repo.DeleteTask(ctx, id); err != nil {
		return app.fail("delete_task", err)
	}
	return nil
}

// GetBookmarkSections returns the dashboard bookmarks grouped by section.
func (app *App) GetBookmarkSections(ctx context.Context) ([]*domain.BookmarkSection, error) {
	sections, err := app.Repo.GetBookmarkSections(ctx)
	if err != nil {
		return nil, app.fail("get_bookmark_sections", err)
	}
	return sections, nil
}

// CreateBookmark adds a bookmark and returns its ID.
func (app *App) CreateBookmark(ctx context.Context, bookmark *domain.Bookmark) (int64, error) {
	id, err := app.Repo.CreateBookmark(ctx, bookmark)
	if err != nil {
		return 0, app.fail("create_bookmark", err)
	}
	return id, nil
}

// DeleteBookmark removes a bookmark.
func (app *App) DeleteBookmark(ctx context.Context, id int64) error {
	if err := app.Repo.DeleteBookmark(ctx, id); err != nil {
		return app.fail("delete_bookmark", err)
	}
	return nil
}

// ListSwitches returns the switch inventory ordered by name.
func (app *App) ListSwitches(ctx context.Context) ([]*domain.Switch, error) {
	switches, err := app.Repo.ListSwitches(ctx)
	if err != nil {
		return nil, app.fail("list_switches", err)
	}
	return switches, nil
}

// SaveSwitch creates or updates a switch and returns its ID.
func (app *App) SaveSwitch(ctx context.Context, sw *domain.Switch) (int64, error) {
	id, err := app.Repo.SaveSwitch(ctx, sw)
	if err != nil {
		return 0, app.fail("save_switch", err)
	}
	return id, nil
}

// DeleteSwitch removes a switch.
func (app *App) DeleteSwitch(ctx context.Context, id int64) error {
	if err := app.Repo.DeleteSwitch(ctx, id); err != nil {
		return app.fail("delete_switch", err)
	}
	return nil
}

// ExportDatabase asks for a destination and writes a pretty-printed backup of
// the whole store there. Cancelling the dialog is a successful no-op.
// The snapshot is taken under the connection guard; the file is written after
// the guard is released. A destination ending in .br is brotli compressed.
func (app *App) ExportDatabase(ctx context.Context) error {
	if app.Dialog == nil {
		return app.fail("export_database", ErrNoDialog)
	}

	path, ok, err := app.Dialog.SaveFile(ctx, "Save JSON backup")
	if err != nil {
		return app.fail("export_database", fmt.Errorf("choosing backup destination: %w", err))
	}
	if !ok {
		app.Logger.Debug("export cancelled")
		return nil
	}

	opID := newOperationID()
	app.Logger.Info("exporting database", "op", opID, "path", path)

	backup, err := app.Repo.Export(ctx)
	if err != nil {
		return app.fail("export_database", err)
	}

	data, err := json.MarshalIndent(backup, "", app.backupIndent())
	if err != nil {
		return app.fail("export_database", fmt.Errorf("encoding backup: %w", err))
	}

	if err := writeBackupFile(path, data); err != nil {
		return app.fail("export_database", err)
	}

	app.Logger.Info("database exported", "op", opID, "path", path, "bytes", len(data))
	return nil
}

// ImportDatabase asks for a backup file and replaces the bookmarks, tasks and
// switches it contains. Cancelling the dialog is a successful no-op.
func (app *App) ImportDatabase(ctx context.Context) error {
	if app.Dialog == nil {
		return app.fail("import_database", ErrNoDialog)
	}

	path, ok, err := app.Dialog.OpenFile(ctx, "Select a JSON backup")
	if err != nil {
		return app.fail("import_database", fmt.Errorf("choosing backup file: %w", err))
	}
	if !ok {
		app.Logger.Debug("import cancelled")
		return nil
	}

	opID := newOperationID()
	app.Logger.Info("importing database", "op", opID, "path", path)

	data, err := readBackupFile(path)
	if err != nil {
		return app.fail("import_database", err)
	}

	backup, err := domain.ParseBackup(data)
	if err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			err = fmt.Errorf("%s is not a JSON backup (detected %s): %w", path, describeContent(data), err)
		}
		return app.fail("import_database", err)
	}

	if err := app.Repo.Import(ctx, backup); err != nil {
		return app.fail("import_database", err)
	}

	app.Logger.Info("database imported", "op", opID, "path", path, "tables", backup.Tables())
	return nil
}

func (app *App) backupIndent() string {
	if app.Config == nil || app.Config.BackupIndent == "" {
		return "  "
	}
	return app.Config.BackupIndent
}

// newOperationID returns an id correlating the log lines of one backup operation.
func newOperationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
