package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load groups, instructors, students and classes from a JSON export",
	Long:  "Reads a JSON document (use - for stdin), validates it against the export schema and writes every record.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			r = f
		}

		doc, err := importer.Parse(r)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		res, err := importer.Import(cmd.Context(), importer.ReposFrom(e.store), doc)
		fmt.Printf("Imported %d groups, %d instructors, %d students, %d classes\n",
			res.Groups, res.Instructors, res.Students, res.Classes)
		if err != nil {
			return describe(err)
		}
		e.log.Info("import finished", map[string]any{
			"groups": res.Groups, "instructors": res.Instructors,
			"students": res.Students, "classes": res.Classes,
		})
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every record as a JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		doc, err := importer.Export(cmd.Context(), importer.ReposFrom(e.store))
		if err != nil {
			return err
		}

		w := io.Writer(os.Stdout)
		if out, _ := cmd.Flags().GetString("output"); out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}
