package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/portal-it/portal"
	"github.com/spf13/cobra"
)

// cli holds the global flag values and the App opened for the running command.
type cli struct {
	configDir string
	jsonOut   bool
	app       *portal.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "portal",
		Short: "Portal manages the IT portal store",
		Long: `Portal reads and edits the tasks, dashboard bookmarks and switch inventory
kept by the IT portal desktop application, and exports or restores JSON backups.`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.open,
		PersistentPostRunE: c.close,
	}

	rootCmd.PersistentFlags().StringVar(&c.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/portal)")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "output as JSON")

	rootCmd.AddCommand(newTasksCmd(c))
	rootCmd.AddCommand(newBookmarksCmd(c))
	rootCmd.AddCommand(newSwitchesCmd(c))
	rootCmd.AddCommand(newExportCmd(c))
	rootCmd.AddCommand(newImportCmd(c))
	return rootCmd
}

// resolveConfigDir returns --config-dir, falling back to the user config directory.
func (c *cli) resolveConfigDir() (string, error) {
	if c.configDir != "" {
		return c.configDir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(base, "portal"), nil
}

// needsStore reports whether cmd reads or writes the store. cobra's generated
// help and completion commands do not.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// open loads the configuration and opens the store before any subcommand that
// needs it runs.
func (c *cli) open(cmd *cobra.Command, args []string) error {
	if !needsStore(cmd) {
		return nil
	}

	configDir, err := c.resolveConfigDir()
	if err != nil {
		return err
	}

	app, err := portal.New(
		portal.WithConfigDir(configDir),
		portal.WithDatabase(),
	)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: app.Config.Level()}))
	if err := app.WithOptions(portal.WithLogger(logger)); err != nil {
		app.Close()
		return err
	}

	c.app = app
	return nil
}

func (c *cli) close(cmd *cobra.Command, args []string) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}
