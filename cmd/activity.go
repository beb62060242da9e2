package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/store"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Inspect the activity log",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent activity, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.EntityType, _ = cmd.Flags().GetString("type")
		opts.EntityID, _ = cmd.Flags().GetString("entity")
		if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
			opts.From = time.Now().Add(-since)
		}

		events, err := e.svc.Activity(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query activity: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No activity found.")
			return nil
		}

		fmt.Printf("%-6s  %-19s  %-12s  %-24s  %-10s  %-36s  %s\n",
			"Seq", "Timestamp", "Actor", "Action", "Type", "Entity", "Detail")
		fmt.Println(strings.Repeat("─", 140))
		for _, ev := range events {
			fmt.Printf("%-6d  %-19s  %-12s  %-24s  %-10s  %-36s  %s\n",
				ev.Sequence, ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(ev.Actor, 12), ev.Action, ev.EntityType, ev.EntityID, truncate(ev.Detail, 40))
		}
		return nil
	},
}

func init() {
	activityListCmd.Flags().Int("limit", 50, "Maximum number of events")
	activityListCmd.Flags().String("type", "", "Filter by entity type (student, class, ...)")
	activityListCmd.Flags().String("entity", "", "Filter by entity ID")
	activityListCmd.Flags().Duration("since", 0, "Only events newer than this (e.g. 24h)")

	activityCmd.AddCommand(activityListCmd)
}
