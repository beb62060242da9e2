package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/schedule"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Print the week's classes with their grid positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		day := time.Now()
		if w, _ := cmd.Flags().GetString("week"); w != "" {
			if day, err = time.ParseInLocation(time.DateOnly, w, time.Local); err != nil {
				return fmt.Errorf("invalid --week %q: %w", w, err)
			}
		}

		week, err := e.svc.Agenda(cmd.Context(), schedule.WeekStart(day))
		if err != nil {
			return err
		}

		g := week.Grid
		fmt.Printf("Grid %02d:00-%02d:00, %dpx per hour\n\n", g.StartHour, g.EndHour(), g.SlotHeightPx)
		fmt.Printf("%-10s  %-11s  %-30s  %-10s  %7s  %6s\n", "Date", "Time", "Title", "Kind", "Top", "Height")
		fmt.Println(strings.Repeat("─", 84))
		for _, d := range week.Days {
			for _, p := range d.Classes {
				r := p.Record
				fmt.Printf("%-10s  %-11s  %-30s  %-10s  %6.0fpx  %6.0fpx\n",
					d.Date, r.StartTime+"-"+r.EndTime, truncate(r.Title, 30), r.Kind.DisplayName(),
					p.Position.TopPx, p.Position.HeightPx(g))
			}
		}
		if len(week.OutOfRange) > 0 {
			fmt.Println("\nOutside the grid:")
			for _, r := range week.OutOfRange {
				fmt.Printf("%-10s  %-11s  %s\n", r.Date, r.StartTime+"-"+r.EndTime, r.Title)
			}
		}
		return nil
	},
}

func init() {
	agendaCmd.Flags().String("week", "", "Any day of the week to show (YYYY-MM-DD); defaults to today")
}
