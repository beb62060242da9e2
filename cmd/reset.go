package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all school data",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Printf("This deletes every student, instructor, group, class and activity event in %s.\nType \"reset\" to continue: ", e.cfg.DB)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if strings.TrimSpace(line) != "reset" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := e.store.Reset(cmd.Context()); err != nil {
			return err
		}
		e.log.Warn("school data reset", map[string]any{"db": e.cfg.DB, "actor": e.cfg.Actor})
		fmt.Println("All data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
}
