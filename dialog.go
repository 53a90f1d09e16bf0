package portal

import (
	"context"
	"errors"
)

// ErrNoDialog is returned by backup commands when the App has no Dialog.
var ErrNoDialog = errors.New("no file dialog configured")

// Dialog is the file picker the front end provides for backup commands.
// Returning ok == false means the user cancelled, which is not an error.
// Dialogs are shown before the store is touched, never while it is locked.
type Dialog interface {
	// SaveFile asks where to write a backup.
	SaveFile(ctx context.Context, title string) (path string, ok bool, err error)
	// OpenFile asks which backup to read.
	OpenFile(ctx context.Context, title string) (path string, ok bool, err error)
}

// StaticDialog answers every prompt with a fixed path. An empty path behaves
// like a cancelled dialog. It serves headless callers such as the CLI.
type StaticDialog struct {
	Path string
}

// SaveFile implements Dialog.
func (d StaticDialog) SaveFile(context.Context, string) (string, bool, error) {
	return d.Path, d.Path != "", nil
}

// OpenFile implements Dialog.
func (d StaticDialog) OpenFile(context.Context, string) (string, bool, error) {
	return d.Path, d.Path != "", nil
}
