package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/curriculum"
)

var curriculumCmd = &cobra.Command{
	Use:   "curriculum",
	Short: "Browse the curriculum template",
}

var curriculumListCmd = &cobra.Command{
	Use:   "list",
	Short: "List template sessions (optionally one phase)",
	RunE: func(cmd *cobra.Command, args []string) error {
		phase, _ := cmd.Flags().GetInt("phase")

		sessions := curriculum.Template()
		if phase != 0 {
			p := curriculum.Phase(phase)
			if !p.Valid() {
				return fmt.Errorf("phase must be between 1 and 4")
			}
			sessions = curriculum.ByPhase(p)
		}

		fmt.Printf("%3s  %-36s  %-10s  %s\n", "#", "Session", "Kind", "Phase")
		fmt.Println(strings.Repeat("─", 84))
		for _, s := range sessions {
			fmt.Printf("%3d  %-36s  %-10s  %s\n", s.Ordinal, s.Name, s.Kind.DisplayName(), s.Phase.Label())
		}

		fmt.Printf("\n%d sessions, %.0f hours required\n", len(sessions), curriculum.RequiredHours)
		return nil
	},
}

func init() {
	curriculumListCmd.Flags().Int("phase", 0, "Only list sessions of this phase (1-4)")
	curriculumCmd.AddCommand(curriculumListCmd)
}
