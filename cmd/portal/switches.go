package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/portal-it/portal/domain"
	"github.com/spf13/cobra"
)

func newSwitchesCmd(c *cli) *cobra.Command {
	switchesCmd := &cobra.Command{
		Use:   "switches",
		Short: "Manage the switch inventory",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List switches by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switches, err := c.app.ListSwitches(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOut {
				return printJSON(cmd.OutOrStdout(), switches)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tIP\tLOCATION")
			for _, sw := range switches {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", *sw.ID, sw.Name, sw.IP, valueOr(sw.Location, "-"))
			}
			return w.Flush()
		},
	}

	var (
		id       int64
		location string
		notes    string
	)
	saveCmd := &cobra.Command{
		Use:   "save <name> <ip>",
		Short: "Create a switch, or update one with --id",
		Example: `  portal switches save core-1 10.0.0.1 --location "Rack A"
  portal switches save core-1 10.0.0.2 --id 3`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sw := &domain.Switch{Name: args[0], IP: args[1]}
			if cmd.Flags().Changed("id") {
				sw.ID = &id
			}
			if cmd.Flags().Changed("location") {
				sw.Location = &location
			}
			if cmd.Flags().Changed("notes") {
				sw.Notes = &notes
			}
			saved, err := c.app.SaveSwitch(cmd.Context(), sw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), saved)
			return nil
		},
	}
	saveCmd.Flags().Int64Var(&id, "id", 0, "update the switch with this id")
	saveCmd.Flags().StringVar(&location, "location", "", "physical location")
	saveCmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a switch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return c.app.DeleteSwitch(cmd.Context(), id)
		},
	}

	switchesCmd.AddCommand(listCmd, saveCmd, deleteCmd)
	return switchesCmd
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
