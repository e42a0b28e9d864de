package cli

import (
	"github.com/spf13/cobra"

	"github.com/climate-guardian/lessonkit/pkg/config"
	"github.com/climate-guardian/lessonkit/pkg/logger"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "lessonkit",
		Short:        "Lesson content pipeline: validate, migrate and render lesson files",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			flagLevel, flagJSON, err := logger.GetLoggerConfig(cmd)
			if err != nil {
				flagLevel, flagJSON = "info", false
			}
			cfg, cfgErr := config.Load()
			if cfgErr != nil {
				// A broken config still gets logs; the command itself will
				// surface the load error.
				cfg = nil
			}
			level, logJSON := resolveLogSettings(cfg,
				flagLevel, flagJSON,
				cmd.Flags().Changed("log-level"), cmd.Flags().Changed("log-json"))
			logger.SetupLogger(level, logJSON)
		},
	}

	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	root.PersistentFlags().String("slides-dir", "", "Directory of lesson JSON files (overrides config)")
	root.PersistentFlags().String("schema", "", "Path to a canonical schema file (overrides the embedded one)")

	root.AddCommand(
		ValidateCmd(),
		MigrateCmd(),
		RenderCmd(),
		VersionCmd(),
	)

	return root
}

// resolveLogSettings picks the logging setup: config (defaults + environment)
// provides the base, an explicitly set flag wins over it.
func resolveLogSettings(cfg *config.Config, flagLevel string, flagJSON, levelSet, jsonSet bool) (string, bool) {
	level, logJSON := "info", false
	if cfg != nil {
		level, logJSON = cfg.Log.Level, cfg.Log.JSON
	}
	if levelSet {
		level = flagLevel
	}
	if jsonSet {
		logJSON = flagJSON
	}
	return level, logJSON
}
