package portal

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/portal-it/portal/db"
)

// WithOptions applies a series of configuration functions to the app.
// It stops at the first option that fails.
//
// Parameters:
//   - options: Variadic list of configuration functions
//
// Returns:
//   - error: First error encountered from any option function
func (app *App) WithOptions(options ...func(*App) error) error {
	for _, option := range options {
		err := option(app)
		if err != nil {
			return fmt.Errorf("applying option on portal : %w", err)
		}
	}
	return nil
}

// WithConfigDir loads the configuration stored in appConfigDir. The directory
// and a config.yaml holding the defaults are created when missing.
//
// Parameters:
//   - appConfigDir: Path to the configuration directory
//
// Returns:
//   - func(*App) error: Configuration function that loads the config
func WithConfigDir(appConfigDir string) func(*App) error {
	return func(app *App) error {
		cfg, err := LoadConfig(appConfigDir)
		if err != nil {
			return err
		}
		app.ConfigDir = appConfigDir
		app.Config = cfg
		return nil
	}
}

// WithLogger sets the structured logger used for command failures and backup
// operations.
//
// Parameters:
//   - logger: Logger to use, nil falls back to slog.Default()
//
// Returns:
//   - func(*App) error: Configuration function that sets the logger
func WithLogger(logger *slog.Logger) func(*App) error {
	return func(app *App) error {
		if logger == nil {
			logger = slog.Default()
		}
		app.Logger = logger
		return nil
	}
}

// WithDialog sets the file picker used by the backup commands.
//
// Parameters:
//   - dialog: Front-end file picker, or a StaticDialog for headless callers
//
// Returns:
//   - func(*App) error: Configuration function that sets the dialog
func WithDialog(dialog Dialog) func(*App) error {
	return func(app *App) error {
		app.Dialog = dialog
		return nil
	}
}

// WithDatabase opens the store configured by WithConfigDir, creating the file
// and applying the schema when needed. It must run after WithConfigDir.
//
// Returns:
//   - func(*App) error: Configuration function that opens the store; its error aborts start-up
func WithDatabase() func(*App) error {
	return func(app *App) error {
		if app.Config == nil {
			return errors.New("opening database: no configuration loaded")
		}
		repo, err := db.Open(app.Config.DatabasePath())
		if err != nil {
			return fmt.Errorf("opening database %s: %w", app.Config.DatabasePath(), err)
		}
		return WithRepo(repo)(app)
	}
}

// WithRepo sets the repository, closing any repository set before it.
//
// Parameters:
//   - repo: Storage backend implementing every domain repository
//
// Returns:
//   - func(*App) error: Configuration function that sets the repository
func WithRepo(repo Repository) func(*App) error {
	return func(app *App) error {
		if app.Repo != nil {
			if err := app.Repo.Close(); err != nil {
				return err
			}
			app.Repo = nil
		}
		app.Repo = repo
		return nil
	}
}
