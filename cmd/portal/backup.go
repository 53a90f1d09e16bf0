package main

import (
	"github.com/portal-it/portal"
	"github.com/spf13/cobra"
)

func newExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write a JSON backup of the whole store",
		Long: `Export writes every table of the store to a JSON backup.
A file name ending in .br is brotli compressed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.WithOptions(portal.WithDialog(portal.StaticDialog{Path: args[0]})); err != nil {
				return err
			}
			return c.app.ExportDatabase(cmd.Context())
		},
	}
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore bookmarks, tasks and switches from a JSON backup",
		Long: `Import replaces the bookmarks, tasks and switches tables with the rows of a
JSON backup. Tables missing from the backup are left untouched, and a failed
import changes nothing. A file name ending in .br is read brotli compressed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.WithOptions(portal.WithDialog(portal.StaticDialog{Path: args[0]})); err != nil {
				return err
			}
			return c.app.ImportDatabase(cmd.Context())
		},
	}
}
