package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/roster"
	"github.com/abhisek/drivedesk/internal/store"
)

var studentCmd = &cobra.Command{
	Use:   "student",
	Short: "Manage students",
}

var studentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List students",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		var f store.StudentFilter
		f.GroupID, _ = cmd.Flags().GetString("group")
		f.Search, _ = cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")
		f.Status = roster.StudentStatus(status)

		students, err := e.svc.Students(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}
		if len(students) == 0 {
			fmt.Println("No students found.")
			return nil
		}

		fmt.Printf("%-36s  %-28s  %-10s  %6s  %s\n", "ID", "Name", "Status", "Hours", "Email")
		fmt.Println(strings.Repeat("─", 110))
		for _, s := range students {
			fmt.Printf("%-36s  %-28s  %-10s  %6.1f  %s\n", s.ID, truncate(s.FullName(), 28), s.Status, s.CompletedHours, s.Email)
		}
		fmt.Printf("\n%d students\n", len(students))
		return nil
	},
}

var studentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Enrol a student",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		st := &roster.Student{Status: roster.StudentActive}
		st.FirstName, _ = cmd.Flags().GetString("first-name")
		st.LastName, _ = cmd.Flags().GetString("last-name")
		st.Email, _ = cmd.Flags().GetString("email")
		st.Phone, _ = cmd.Flags().GetString("phone")
		st.PermitNumber, _ = cmd.Flags().GetString("permit")
		st.GroupID, _ = cmd.Flags().GetString("group")

		if err := e.svc.AddStudent(cmd.Context(), st); err != nil {
			return describe(err)
		}
		fmt.Printf("Added %s (%s)\n", st.FullName(), st.ID)
		return nil
	},
}

var studentShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a student's curriculum progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.svc.Profile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		sum := p.Summary
		fmt.Printf("%s  (%s)\n", p.Student.FullName(), p.Student.ID)
		fmt.Printf("%s  %d%%  %.1f / %.0f h  %d of %d sessions\n\n",
			sum.CurrentPhase.Label(), sum.PercentComplete,
			sum.CompletedHours, sum.RequiredHours,
			sum.CompletedSessionCount, sum.TotalSessionCount)

		fmt.Printf("%3s  %-2s %-36s  %-10s  %-10s  %-5s  %s\n", "#", "", "Session", "Kind", "Date", "Start", "Instructor")
		fmt.Println(strings.Repeat("─", 100))
		for _, s := range p.Sessions {
			mark := "·"
			if s.Completed {
				mark = "✓"
			}
			ord := fmt.Sprint(s.Ordinal)
			if s.Extra {
				ord = "+"
			}
			fmt.Printf("%3s  %-2s %-36s  %-10s  %-10s  %-5s  %s\n",
				ord, mark, truncate(s.Name, 36), s.Kind.DisplayName(), s.Date, s.StartTime, s.InstructorName)
		}
		return nil
	},
}

var studentRecomputeCmd = &cobra.Command{
	Use:   "recompute-hours <id>",
	Short: "Recalculate completed hours from completed classes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		hours, err := e.svc.RecomputeHours(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Completed hours set to %.1f\n", hours)
		return nil
	},
}

func init() {
	studentListCmd.Flags().String("group", "", "Filter by group ID")
	studentListCmd.Flags().String("status", "", "Filter by status (active, graduated, inactive)")
	studentListCmd.Flags().String("search", "", "Match name, email or permit number")

	studentAddCmd.Flags().String("first-name", "", "First name")
	studentAddCmd.Flags().String("last-name", "", "Last name")
	studentAddCmd.Flags().String("email", "", "Email address")
	studentAddCmd.Flags().String("phone", "", "Phone number")
	studentAddCmd.Flags().String("permit", "", "Learner's permit number")
	studentAddCmd.Flags().String("group", "", "Group ID")

	studentCmd.AddCommand(studentListCmd, studentAddCmd, studentShowCmd, studentRecomputeCmd)
}
