package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTasksCmd(c *cli) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the task list",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := c.app.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), tasks)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDONE\tTITLE\tCREATED")
			for _, task := range tasks {
				done := " "
				if task.Completed {
					done = "x"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", task.ID, done, task.Title, task.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an open task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.CreateTask(cmd.Context(), args[0])
		},
	}

	var reopen bool
	toggleCmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed, or open again with --reopen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.app.ToggleTask(cmd.Context(), id, !reopen)
		},
	}
	toggleCmd.Flags().BoolVar(&reopen, "reopen", false, "mark the task open instead of completed")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.app.DeleteTask(cmd.Context(), id)
		},
	}

	tasksCmd.AddCommand(listCmd, addCmd, toggleCmd, deleteCmd)
	return tasksCmd
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}
