package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/roster"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage student groups",
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		groups, err := e.svc.Groups(cmd.Context())
		if err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		if len(groups) == 0 {
			fmt.Println("No groups found.")
			return nil
		}

		fmt.Printf("%-36s  %-30s  %s\n", "ID", "Name", "Starts")
		fmt.Println(strings.Repeat("─", 80))
		for _, g := range groups {
			fmt.Printf("%-36s  %-30s  %s\n", g.ID, truncate(g.Name, 30), g.StartDate)
		}
		return nil
	},
}

var groupAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		g := &roster.Group{Name: args[0]}
		g.StartDate, _ = cmd.Flags().GetString("start-date")
		if err := e.svc.AddGroup(cmd.Context(), g); err != nil {
			return describe(err)
		}
		fmt.Printf("Added group %s (%s)\n", g.Name, g.ID)
		return nil
	},
}

func init() {
	groupAddCmd.Flags().String("start-date", "", "First day of the group (YYYY-MM-DD)")
	groupCmd.AddCommand(groupListCmd, groupAddCmd)
}
