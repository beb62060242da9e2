package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/roster"
)

var instructorCmd = &cobra.Command{
	Use:   "instructor",
	Short: "Manage instructors",
}

var instructorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List instructors",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		all, _ := cmd.Flags().GetBool("all")
		list, err := e.svc.Instructors(cmd.Context(), !all)
		if err != nil {
			return fmt.Errorf("list instructors: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No instructors found.")
			return nil
		}

		fmt.Printf("%-36s  %-28s  %-6s  %s\n", "ID", "Name", "Active", "Email")
		fmt.Println(strings.Repeat("─", 100))
		for _, in := range list {
			active := "✓"
			if !in.Active {
				active = "✗"
			}
			fmt.Printf("%-36s  %-28s  %-6s  %s\n", in.ID, truncate(in.FullName(), 28), active, in.Email)
		}
		return nil
	},
}

var instructorAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an instructor",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		in := &roster.Instructor{Active: true}
		in.FirstName, _ = cmd.Flags().GetString("first-name")
		in.LastName, _ = cmd.Flags().GetString("last-name")
		in.Email, _ = cmd.Flags().GetString("email")
		in.Phone, _ = cmd.Flags().GetString("phone")

		if err := e.svc.AddInstructor(cmd.Context(), in); err != nil {
			return describe(err)
		}
		fmt.Printf("Added %s (%s)\n", in.FullName(), in.ID)
		return nil
	},
}

func init() {
	instructorListCmd.Flags().Bool("all", false, "Include inactive instructors")

	instructorAddCmd.Flags().String("first-name", "", "First name")
	instructorAddCmd.Flags().String("last-name", "", "Last name")
	instructorAddCmd.Flags().String("email", "", "Email address")
	instructorAddCmd.Flags().String("phone", "", "Phone number")

	instructorCmd.AddCommand(instructorListCmd, instructorAddCmd)
}
