package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/drivedesk/internal/config"
	"github.com/abhisek/drivedesk/internal/logging"
	"github.com/abhisek/drivedesk/internal/school"
	"github.com/abhisek/drivedesk/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "drivedesk",
	Short: "Driving school administration console",
	Long: "DriveDesk tracks students through the driver education curriculum, " +
		"schedules theory and in-car classes, and records attendance.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// DSN (overrides DRIVEDESK_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (yaml, toml or json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Verbose logging and detailed API errors")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(curriculumCmd)
	rootCmd.AddCommand(studentCmd)
	rootCmd.AddCommand(instructorCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(classCmd)
	rootCmd.AddCommand(agendaCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// env bundles the dependencies a command needs.
type env struct {
	cfg   *config.Config
	log   *logging.Logger
	store *store.Store
	svc   *school.Service
}

func (e *env) Close() {
	e.store.Close()
	e.log.Close()
}

// openEnv resolves configuration, then opens the logger, the store and the
// school service. Callers must Close the result.
func openEnv(cmd *cobra.Command) (*env, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := store.EnsureDir(cfg.DB); err != nil {
		return nil, fmt.Errorf("prepare database dir: %w", err)
	}

	log := logging.New(os.Stderr, logging.Options{
		Token:       cfg.RollbarToken,
		Environment: cfg.Env,
		CodeVersion: version,
		Debug:       cfg.Debug,
	})

	st, err := store.Open(cfg.DB)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", map[string]any{"dialect": st.Dialect()})

	return &env{
		cfg:   cfg,
		log:   log,
		store: st,
		svc:   school.NewService(school.ReposFrom(st), log, cfg.Actor),
	}, nil
}
