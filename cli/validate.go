package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/climate-guardian/lessonkit/engine/schema"
)

// ValidateCmd creates the read-only pre-flight gate over the lesson
// directory. The process exits non-zero when any file fails to parse or
// fails the schema.
func ValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate lesson files against the canonical schema",
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	schemaJSON, err := loadSchema(cfg)
	if err != nil {
		return err
	}
	validator, err := schema.NewValidator(schemaJSON)
	if err != nil {
		return err
	}
	report, err := validator.ValidateDir(cmd.Context(), afero.NewOsFs(), cfg.SlidesDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i := range report.Files {
		file := &report.Files[i]
		switch {
		case file.Err != nil:
			fmt.Fprintf(out, "FAIL %s: %v\n", file.Name, file.Err)
		case !file.Result.Valid:
			fmt.Fprintf(out, "FAIL %s: %d violation(s)\n", file.Name, len(file.Result.Violations))
			for _, v := range file.Result.Violations {
				fmt.Fprintf(out, "    %s: %s\n", v.Location, v.Message)
			}
		default:
			fmt.Fprintf(out, "PASS %s\n", file.Name)
		}
	}
	fmt.Fprintf(out, "%d passed, %d failed\n", report.Passed, report.Failed)

	if !report.AllPassed() {
		return fmt.Errorf("%d lesson file(s) failed validation", report.Failed)
	}
	return nil
}
