package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/climate-guardian/lessonkit/engine/lesson"
)

// MigrateCmd creates the batch migration command. Without --write it is a
// dry run reporting intended changes only.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Normalize legacy lesson files to the canonical schema",
		Long: "Applies slide normalization to every lesson file in the slides directory. " +
			"In write mode each rewritten file gets a timestamped backup beside the original first.",
		RunE: runMigrate,
	}
	cmd.Flags().Bool("write", false, "Rewrite changed files in place (default is a dry run)")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return fmt.Errorf("failed to get write flag: %w", err)
	}

	migrator := lesson.NewMigrator(afero.NewOsFs())
	summary, err := migrator.MigrateAll(cmd.Context(), cfg.SlidesDir, write)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, file := range summary.Files {
		switch {
		case file.Status == lesson.StatusFailed:
			fmt.Fprintf(out, "failed    %s: %v\n", file.Name, file.Err)
		case file.Status == lesson.StatusUnchanged:
			fmt.Fprintf(out, "unchanged %s\n", file.Name)
		case write:
			fmt.Fprintf(out, "migrated  %s (backup %s)\n", file.Name, file.Backup)
		default:
			fmt.Fprintf(out, "preview   %s would be migrated\n", file.Name)
		}
	}
	fmt.Fprintf(out, "%d processed, %d changed, %d failed\n",
		summary.Processed, summary.Changed, summary.Failed)

	if summary.Failed > 0 {
		return fmt.Errorf("%d lesson file(s) failed migration", summary.Failed)
	}
	return nil
}
