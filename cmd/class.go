package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/classes"
	"github.com/abhisek/drivedesk/internal/schedule"
	"github.com/abhisek/drivedesk/internal/store"
)

var classCmd = &cobra.Command{
	Use:   "class",
	Short: "Schedule and record classes",
}

var classListCmd = &cobra.Command{
	Use:   "list",
	Short: "List classes",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		var f store.ClassFilter
		f.StudentID, _ = cmd.Flags().GetString("student")
		f.GroupID, _ = cmd.Flags().GetString("group")
		f.InstructorID, _ = cmd.Flags().GetString("instructor")
		f.DateFrom, _ = cmd.Flags().GetString("from")
		f.DateTo, _ = cmd.Flags().GetString("to")
		f.Kind, _ = cmd.Flags().GetString("kind")
		if d, _ := cmd.Flags().GetString("date"); d != "" {
			f.DateFrom, f.DateTo = d, d
		}

		recs, err := e.svc.Classes(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("list classes: %w", err)
		}
		if len(recs) == 0 {
			fmt.Println("No classes found.")
			return nil
		}
		printClasses(recs)
		fmt.Printf("\n%d classes\n", len(recs))
		return nil
	},
}

var classScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Book a theory class for a group or an in-car session for students",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		var req schedule.SlotRequest
		req.Kind, _ = cmd.Flags().GetString("kind")
		req.Date, _ = cmd.Flags().GetString("date")
		req.StartTime, _ = cmd.Flags().GetString("start")
		req.DurationMinutes, _ = cmd.Flags().GetInt("duration")
		req.InstructorID, _ = cmd.Flags().GetString("instructor")
		req.Title, _ = cmd.Flags().GetString("title")
		req.GroupID, _ = cmd.Flags().GetString("group")
		req.StudentIDs, _ = cmd.Flags().GetStringSlice("student")

		slot, err := req.Slot()
		if err != nil {
			return err
		}
		recs, err := e.svc.Schedule(cmd.Context(), slot)
		if err != nil {
			return describe(err)
		}
		printClasses(recs)
		return nil
	},
}

var classCheckInCmd = &cobra.Command{
	Use:   "check-in <class-id>",
	Short: "Record attendance for a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		status, _ := cmd.Flags().GetString("status")
		feedback, _ := cmd.Flags().GetString("feedback")
		rec, err := e.svc.CheckIn(cmd.Context(), args[0], classes.AttendanceStatus(status), feedback)
		if err != nil {
			return err
		}
		fmt.Printf("%s on %s: %s (%s)\n", rec.Title, rec.Date, status, rec.CompletionStatus)
		return nil
	},
}

var classCancelCmd = &cobra.Command{
	Use:   "cancel <class-id>",
	Short: "Cancel a class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.CancelClass(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Class cancelled.")
		return nil
	},
}

func printClasses(recs []classes.Record) {
	fmt.Printf("%-36s  %-10s  %-11s  %-30s  %-10s  %-20s  %s\n",
		"ID", "Date", "Time", "Title", "Kind", "Instructor", "Status")
	fmt.Println(strings.Repeat("─", 140))
	for _, r := range recs {
		fmt.Printf("%-36s  %-10s  %-11s  %-30s  %-10s  %-20s  %s\n",
			r.ID, r.Date, r.StartTime+"-"+r.EndTime, truncate(r.Title, 30),
			r.Kind.DisplayName(), truncate(r.InstructorName, 20), r.CompletionStatus)
	}
}

func init() {
	classListCmd.Flags().String("date", "", "Only classes on this day (YYYY-MM-DD)")
	classListCmd.Flags().String("from", "", "First day, inclusive")
	classListCmd.Flags().String("to", "", "Last day, inclusive")
	classListCmd.Flags().String("student", "", "Filter by student ID")
	classListCmd.Flags().String("group", "", "Filter by group ID")
	classListCmd.Flags().String("instructor", "", "Filter by instructor ID")
	classListCmd.Flags().String("kind", "", "Filter by kind (theory, practical)")

	classScheduleCmd.Flags().String("kind", "theory", "Class kind (theory or practical)")
	classScheduleCmd.Flags().String("date", "", "Day of the class (YYYY-MM-DD)")
	classScheduleCmd.Flags().String("start", "", "Start time (HH:MM)")
	classScheduleCmd.Flags().Int("duration", 60, "Length in minutes")
	classScheduleCmd.Flags().String("instructor", "", "Instructor ID")
	classScheduleCmd.Flags().String("title", "", "Curriculum title")
	classScheduleCmd.Flags().String("group", "", "Group ID (theory)")
	classScheduleCmd.Flags().StringSlice("student", nil, "Student ID (practical, repeatable)")

	classCheckInCmd.Flags().String("status", string(classes.AttendanceCompleted), "completed, absent, late or excused")
	classCheckInCmd.Flags().String("feedback", "", "Instructor feedback")

	classCmd.AddCommand(classListCmd, classScheduleCmd, classCheckInCmd, classCancelCmd)
}
