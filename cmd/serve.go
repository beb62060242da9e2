package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/api"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		quiet, _ := cmd.Flags().GetBool("quiet")
		srv := api.NewServer(&api.Options{
			Address:        e.cfg.ServerAddr,
			Debug:          e.cfg.Debug,
			DisableReqLogs: quiet,
			Version:        version,
			Service:        e.svc,
			Logger:         e.log,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		e.log.Info("shutting down api")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(sctx); err != nil {
			return err
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address (overrides DRIVEDESK_SERVER_ADDR)")
	serveCmd.Flags().Bool("quiet", false, "Disable request logs")
}
