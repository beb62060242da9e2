package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/app"
)

// runApp opens the store, builds the service, and launches the console.
func runApp(cmd *cobra.Command) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	return app.Run(app.Options{
		Service: e.svc,
		Counts:  e.store.Counts,
	})
}
