package main

import (
	"fmt"
	"strings"

	"github.com/portal-it/portal/domain"
	"github.com/spf13/cobra"
)

func newBookmarksCmd(c *cli) *cobra.Command {
	bookmarksCmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "Manage the dashboard bookmarks",
	}

	sectionsCmd := &cobra.Command{
		Use:   "sections",
		Short: "List bookmarks grouped by section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sections, err := c.app.GetBookmarkSections(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), sections)
			}

			out := cmd.OutOrStdout()
			for _, section := range sections {
				fmt.Fprintf(out, "%s\n", section.Title)
				for _, link := range section.Links {
					fmt.Fprintf(out, "  [%d] %s  %s", link.ID, link.Label, link.URL)
					if len(link.Tags) > 0 {
						fmt.Fprintf(out, "  (%s)", strings.Join(link.Tags, ", "))
					}
					fmt.Fprintln(out)
				}
			}
			return nil
		},
	}

	var (
		section     string
		description string
		tags        []string
	)
	addCmd := &cobra.Command{
		Use:   "add <label> <url>",
		Short: "Add a bookmark",
		Example: `  portal bookmarks add Wiki https://wiki.example
  portal bookmarks add NMS https://nms.example --section Network --tag monitoring`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookmark := &domain.Bookmark{
				Label:   args[0],
				URL:     args[1],
				Section: section,
				Tags:    tags,
			}
			if cmd.Flags().Changed("description") {
				bookmark.Description = &description
			}
			id, err := c.app.CreateBookmark(cmd.Context(), bookmark)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	addCmd.Flags().StringVar(&section, "section", domain.DefaultSection, "dashboard section")
	addCmd.Flags().StringVar(&description, "description", "", "bookmark description")
	addCmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.app.DeleteBookmark(cmd.Context(), id)
		},
	}

	bookmarksCmd.AddCommand(sectionsCmd, addCmd, deleteCmd)
	return bookmarksCmd
}
