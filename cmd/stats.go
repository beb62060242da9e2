package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		c, err := e.store.Counts(cmd.Context())
		if err != nil {
			return err
		}

		rows := []struct {
			label string
			n     int
		}{
			{"Students", c.Students},
			{"Instructors", c.Instructors},
			{"Groups", c.Groups},
			{"Classes", c.Classes},
			{"Completed classes", c.CompletedClasses},
			{"Activity events", c.ActivityEvents},
		}
		fmt.Println(strings.Repeat("─", 30))
		for _, r := range rows {
			fmt.Printf("%-20s  %8d\n", r.label, r.n)
		}
		fmt.Println(strings.Repeat("─", 30))
		return nil
	},
}
