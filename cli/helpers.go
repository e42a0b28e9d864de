package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/climate-guardian/lessonkit/pkg/config"
	"github.com/climate-guardian/lessonkit/schemas"
)

// loadConfig resolves the effective configuration: defaults, then
// environment, then explicit CLI flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dir, err := cmd.Flags().GetString("slides-dir"); err == nil && dir != "" {
		cfg.SlidesDir = dir
	}
	if path, err := cmd.Flags().GetString("schema"); err == nil && path != "" {
		cfg.SchemaPath = path
	}
	return cfg, nil
}

// loadSchema returns the schema artifact bytes: an explicit file when
// configured, the embedded canonical schema otherwise.
func loadSchema(cfg *config.Config) ([]byte, error) {
	if cfg.SchemaPath == "" {
		return schemas.Lesson, nil
	}
	data, err := os.ReadFile(cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", cfg.SchemaPath, err)
	}
	return data, nil
}
