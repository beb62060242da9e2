package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change school settings",
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its effective value",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		all, err := e.svc.Settings(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%-28s  %s\n", "Key", "Value")
		fmt.Println(strings.Repeat("─", 50))
		for _, k := range sortedKeys(all) {
			fmt.Printf("%-28s  %s\n", k, all[k])
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		v, err := e.svc.Setting(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.svc.SetSetting(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	settingsCmd.AddCommand(settingsListCmd, settingsGetCmd, settingsSetCmd)
}
